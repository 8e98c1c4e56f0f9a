package types

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleLegal UserRole = "LEGAL"
	UserRoleUser  UserRole = "USER"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Role      UserRole  `gorm:"not null;default:'USER';column:role" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
