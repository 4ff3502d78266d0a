package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/libao/libao-backend/internal/apperrors"
	"github.com/libao/libao-backend/internal/model"
)

// PortfolioRepository persists each user's portfolio state as a single JSON
// snapshot row. Writes replace the whole document; the transaction log inside
// the snapshot is the data that matters, everything derived is recomputed on
// read.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// Load retrieves the portfolio state for a user.
// Returns apperrors.ErrPortfolioNotFound when the user has no snapshot yet.
func (s *PortfolioRepository) Load(userID string) (model.PortfolioState, error) {
	query := `
          SELECT data, last_modified
          FROM portfolio_state
          WHERE user_id = ?
      `
	var (
		data         string
		lastModified time.Time
	)

	err := s.db.QueryRow(query, userID).Scan(&data, &lastModified)
	if err == sql.ErrNoRows {
		return model.PortfolioState{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.PortfolioState{}, fmt.Errorf("failed to query portfolio state: %w", err)
	}

	var state model.PortfolioState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return model.PortfolioState{}, fmt.Errorf("failed to decode portfolio state: %w", err)
	}
	state.LastModified = lastModified.UTC()

	return state, nil
}

// Save stores the portfolio state for a user, stamping a fresh LastModified.
// The stored snapshot replaces any previous one for the same user.
func (s *PortfolioRepository) Save(userID string, state model.PortfolioState) (model.PortfolioState, error) {
	state.LastModified = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return model.PortfolioState{}, fmt.Errorf("failed to encode portfolio state: %w", err)
	}

	query := `
          INSERT INTO portfolio_state (user_id, data, last_modified)
          VALUES (?, ?, ?)
          ON CONFLICT(user_id) DO UPDATE SET
              data = excluded.data,
              last_modified = excluded.last_modified
      `
	if _, err := s.db.Exec(query, userID, string(data), state.LastModified); err != nil {
		return model.PortfolioState{}, fmt.Errorf("failed to save portfolio state: %w", err)
	}

	return state, nil
}

// ListUsers returns every user ID with a stored snapshot.
func (s *PortfolioRepository) ListUsers() ([]string, error) {
	rows, err := s.db.Query(`SELECT user_id FROM portfolio_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio user: %w", err)
		}
		users = append(users, userID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_state table: %w", err)
	}

	return users, nil
}

// LastModified returns the stored snapshot timestamp for a user, or the zero
// time when no snapshot exists.
func (s *PortfolioRepository) LastModified(userID string) (time.Time, error) {
	query := `
          SELECT last_modified
          FROM portfolio_state
          WHERE user_id = ?
      `
	var lastModified time.Time

	err := s.db.QueryRow(query, userID).Scan(&lastModified)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query snapshot timestamp: %w", err)
	}

	return lastModified.UTC(), nil
}
