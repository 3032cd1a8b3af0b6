package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User rows are created lazily from the identity provider's subject claim.
// Subjects are provider-shaped opaque strings, not UUIDs. Credentials live
// entirely on the provider side.
type User struct {
	ID        string    `gorm:"column:id;type:text;primaryKey" json:"id"`
	Role      UserRole  `gorm:"column:role;type:text" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	LastSeen  time.Time `gorm:"column:last_seen;type:timestamptz" json:"last_seen"`
}

func (User) TableName() string { return "users" }
