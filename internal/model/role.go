package model

import "time"

// Role represents a row in the `roles` table.  It maps a small
// integer ID to a role name.  Users reference this table via their
// RoleID field.  The directory is seeded by migrations and changes
// rarely, which is why responses built from it are cacheable.
//
// Fields:
//
//	ID          – numeric identifier of the role.
//	Name        – unique role name (e.g. "user", "manager", "admin").
//	Description – optional human readable description (nullable).
type Role struct {
	ID          uint8     // roles.id
	Name        string    // roles.name
	Description *string   // roles.description (nullable)
	CreatedAt   time.Time // roles.created_at
	UpdatedAt   time.Time // roles.updated_at
}
