package service

import (
	"database/sql"
	"strconv"

	"github.com/libao/libao-backend/internal/database"
	"github.com/libao/libao-backend/internal/model"
	"github.com/libao/libao-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// VersionInfo reports the running application version and the schema version
// applied to the database.
func (s *SystemService) VersionInfo() (model.VersionInfo, error) {
	info := model.VersionInfo{
		AppVersion: version.Version,
		Features: map[string]bool{
			"martingale":    true,
			"dividend_scan": true,
			"price_refresh": true,
		},
	}

	var dbVersion sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(version_id) FROM goose_db_version`).Scan(&dbVersion)
	if err != nil {
		return model.VersionInfo{}, err
	}
	if dbVersion.Valid {
		info.DbVersion = strconv.FormatInt(dbVersion.Int64, 10)
	}

	return info, nil
}
