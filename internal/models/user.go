package models

import "time"

// Roles decide which dashboard a user lands on.
const (
	RoleArtisan = "artisan"
	RoleBuyer   = "buyer"
)

// User represents a registered account.
type User struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email             string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Name              string    `json:"name" gorm:"type:varchar(100)"`
	Password          string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash
	Role              string    `json:"role" gorm:"type:varchar(20)"`
	PreferredLanguage string    `json:"preferred_language" gorm:"type:varchar(5)"`
	CreatedAt         time.Time `json:"created_at"`
}
