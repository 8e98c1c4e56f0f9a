package types

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to one specific contract version and is never carried
// forward. ContractID is denormalized so the document store can address the
// comment without loading its version first.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VersionID  uuid.UUID `gorm:"type:uuid;not null;index;column:version_id" json:"version_id"`
	ContractID uuid.UUID `gorm:"type:uuid;not null;index;column:contract_id" json:"contract_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Author     *User     `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Content    string    `gorm:"not null;column:content;type:text" json:"content"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Comment) TableName() string { return "comment" }
