package models

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// AtLeast reports whether r grants at least the privileges of target.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// User represents an account of the platform.
type User struct {
	ID               string     `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Username         string     `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	FirstName        string     `json:"first_name" gorm:"type:varchar(150)"`
	LastName         string     `json:"last_name" gorm:"type:varchar(150)"`
	Bio              string     `json:"bio" gorm:"type:text"`
	Role             Role       `json:"role" gorm:"type:varchar(16);not null;default:user"`
	ConfirmationCode string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	CodeExpiresAt    *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
