package model

import "time"

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ValidRole reports whether role is one of the known role names.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the wire shape of a user record. It never carries the
// password hash.
type PublicUser struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
}
