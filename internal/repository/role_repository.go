package repository

import (
	"database/sql"
	"fmt"

	"github.com/libao/libao-backend/internal/model"
)

// RoleRepository provides data access methods for the user_role table.
type RoleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new RoleRepository with the provided database connection.
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetRole retrieves the stored role for a user. Users without an assignment
// default to viewer.
func (s *RoleRepository) GetRole(userID string) (model.Role, error) {
	query := `
          SELECT role
          FROM user_role
          WHERE user_id = ?
      `
	var role string

	err := s.db.QueryRow(query, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return model.RoleViewer, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user role: %w", err)
	}

	r := model.Role(role)
	if !r.Valid() {
		return model.RoleViewer, nil
	}

	return r, nil
}

// SetRole stores or replaces the role assignment for a user.
func (s *RoleRepository) SetRole(userID string, role model.Role) error {
	query := `
          INSERT INTO user_role (user_id, role)
          VALUES (?, ?)
          ON CONFLICT(user_id) DO UPDATE SET role = excluded.role
      `
	if _, err := s.db.Exec(query, userID, string(role)); err != nil {
		return fmt.Errorf("failed to save user role: %w", err)
	}

	return nil
}
