package repository

import (
	"database/sql"
	"fmt"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
)

// SymbolRepository provides data access methods for the symbol_info
// reference table backing name lookups and the industry breakdown.
type SymbolRepository struct {
	db *sql.DB
}

// NewSymbolRepository creates a new SymbolRepository with the provided database connection.
func NewSymbolRepository(db *sql.DB) *SymbolRepository {
	return &SymbolRepository{db: db}
}

// GetSymbol retrieves reference data for a single symbol.
func (s *SymbolRepository) GetSymbol(symbol string) (model.SymbolInfo, error) {
	query := `
          SELECT symbol, name, market, industry, last_updated
          FROM symbol_info
          WHERE symbol = ?
      `
	var (
		info     model.SymbolInfo
		industry sql.NullString
		updated  sql.NullTime
	)

	err := s.db.QueryRow(query, symbol).Scan(
		&info.Symbol,
		&info.Name,
		&info.Market,
		&industry,
		&updated,
	)
	if err == sql.ErrNoRows {
		return model.SymbolInfo{}, apperrors.ErrSymbolNotFound
	}
	if err != nil {
		return model.SymbolInfo{}, fmt.Errorf("failed to query symbol info: %w", err)
	}

	info.Industry = industry.String
	if updated.Valid {
		info.LastUpdated = updated.Time.UTC()
	}

	return info, nil
}

// UpsertSymbol stores or replaces reference data for a symbol.
func (s *SymbolRepository) UpsertSymbol(info model.SymbolInfo) error {
	query := `
          INSERT INTO symbol_info (symbol, name, market, industry, last_updated)
          VALUES (?, ?, ?, ?, ?)
          ON CONFLICT(symbol) DO UPDATE SET
              name = excluded.name,
              market = excluded.market,
              industry = excluded.industry,
              last_updated = excluded.last_updated
      `
	_, err := s.db.Exec(query,
		info.Symbol,
		info.Name,
		string(info.Market),
		info.Industry,
		info.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to save symbol info: %w", err)
	}

	return nil
}

// IndustryMap returns symbol to industry for every symbol with reference
// data. Symbols without an industry are omitted.
func (s *SymbolRepository) IndustryMap() (map[string]string, error) {
	query := `
          SELECT symbol, industry
          FROM symbol_info
          WHERE industry IS NOT NULL AND industry != ''
      `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbol industries: %w", err)
	}
	defer rows.Close()

	industries := make(map[string]string)
	for rows.Next() {
		var symbol, industry string
		if err := rows.Scan(&symbol, &industry); err != nil {
			return nil, fmt.Errorf("failed to scan symbol industry: %w", err)
		}
		industries[symbol] = industry
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbol_info table: %w", err)
	}

	return industries, nil
}
