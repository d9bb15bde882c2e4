package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// Role holds the role name resolved through the roles table and is
// populated by repository queries that join on role_id.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address, stored lower case.
//	FirstName    – given name.
//	LastName     – family name.
//	PasswordHash – bcrypt hashed password.
//	IsActive     – whether the account is active; inactive accounts
//	               cannot authenticate or hold a session.
//	RoleID       – foreign key into the roles table (tinyint).
//	Role         – name of the role (e.g. "user", "admin"), joined in.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	IsActive     bool      // users.is_active
	RoleID       uint8     // users.role_id (references roles.id)
	Role         string    // roles.name joined through role_id
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
