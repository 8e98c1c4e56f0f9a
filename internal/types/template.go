package types

import (
	"time"

	"github.com/google/uuid"
)

// Template is read-only seed content for new contracts. Editing a template
// never touches contracts already created from it; the content is copied
// into the contract's first version at creation time.
type Template struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	FileURL     *string   `gorm:"column:file_url" json:"file_url,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Template) TableName() string { return "template" }
