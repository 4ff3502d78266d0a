package testutil

import (
	"database/sql"

	"github.com/libao/libao-backend/internal/repository"
	"github.com/libao/libao-backend/internal/secrets"
)

// TestEnv bundles the database and repository handles a service-level test
// needs to inspect state behind the service under test.
type TestEnv struct {
	DB            *sql.DB
	PortfolioRepo *repository.PortfolioRepository
	SymbolRepo    *repository.SymbolRepository
	Vault         *secrets.Vault
}
