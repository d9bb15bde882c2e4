package repository

import (
	"context"
	"database/sql"

	"github.com/ashkhen/user-accounts-service/internal/model"
)

// RoleRepo reads the 'roles' directory. The table is seeded by
// migrations and has no write path in the application.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// List returns all roles ordered by id.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GetByID fetches a single role or ErrNotFound.
func (r *RoleRepo) GetByID(ctx context.Context, id uint8) (model.Role, error) {
	var role model.Role
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM roles WHERE id=? LIMIT 1",
		id).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Role{}, ErrNotFound
	}
	return role, err
}
