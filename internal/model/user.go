package model

import "time"

// Role values stored in users.role.
const (
	RoleWorker     = "worker"
	RoleSupervisor = "supervisor"
	RoleClinician  = "clinician"
	RoleAdmin      = "admin"
)

type User struct {
	ID             int       `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Name           *string   `db:"name"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// IsStaff reports whether the user may access the admin surface.
func (u *User) IsStaff() bool {
	return u.Role == RoleSupervisor || u.Role == RoleClinician || u.Role == RoleAdmin
}
