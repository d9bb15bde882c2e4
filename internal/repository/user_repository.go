package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/ashkhen/user-accounts-service/internal/model"
	"github.com/ashkhen/user-accounts-service/internal/utils"
)

// UserRepo provides access to the 'users' table. Role names are
// resolved through a join on the roles table so that callers always
// see the current role, never a stale copy.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// selectUser is the shared column list for queries returning a full user row.
const selectUser = "SELECT u.id, u.email, u.first_name, u.last_name, u.password_hash, u.is_active, u.role_id, r.name, u.created_at, u.updated_at FROM users u JOIN roles r ON r.id = u.role_id"

// UpdateUserParams carries the optional fields of a partial user update.
// Nil pointers mean "leave unchanged".
type UpdateUserParams struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// Create inserts a user with the default role and returns its ID. The
// password is hashed with bcrypt before it touches the database.
func (r *UserRepo) Create(ctx context.Context, email, firstName, lastName, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password_hash) VALUES (?,?,?,?)",
		email, firstName, lastName, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.fetchOne(ctx, selectUser+" WHERE u.email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.fetchOne(ctx, selectUser+" WHERE u.id=? LIMIT 1", id)
}

func (r *UserRepo) fetchOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.IsActive, &u.RoleID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, selectUser+" ORDER BY u.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
			&u.IsActive, &u.RoleID, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies a partial update and returns the fresh row. Only the
// fields with non-nil pointers are written; a provided password is
// hashed with bcrypt first. Returns ErrNotFound when the user does
// not exist and ErrEmailExists when the new email is already taken.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UpdateUserParams, cost int) (model.User, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.User{}, err
	}

	sets := []string{}
	args := []interface{}{}
	if p.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *p.LastName)
	}
	if p.Password != nil {
		hash, err := utils.HashPassword(*p.Password, cost)
		if err != nil {
			return model.User{}, err
		}
		sets = append(sets, "password_hash=?")
		args = append(args, hash)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// DeactivateByEmail flips is_active off for the user with the given
// email. The single statement only matches currently active rows, so
// a missing user and an already inactive one both report ErrNotFound.
func (r *UserRepo) DeactivateByEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=0 WHERE email=? AND is_active=1", email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
