package model

import "time"

// Role определяет набор прав пользователя.
type Role string

const (
	RoleStudent Role = "ROLE_STUDENT"
	RoleAdmin   Role = "ROLE_ADMIN"
)

// User — учётная запись участника площадки.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash
	Role     Role   `gorm:"not null;default:ROLE_STUDENT" json:"role"`

	Verified bool `gorm:"not null;default:false" json:"verified"`
	Approved bool `gorm:"not null;default:false;index" json:"approved"`
	Ignored  bool `gorm:"not null;default:false" json:"ignored"`
	Blocked  bool `gorm:"not null;default:false" json:"blocked"`

	Department    string `json:"department,omitempty"`
	ContactNo     string `json:"contact_no,omitempty"`
	TermsAccepted bool   `json:"terms_accepted"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
