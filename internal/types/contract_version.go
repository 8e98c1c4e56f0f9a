package types

import (
	"time"

	"github.com/google/uuid"
)

type ContractVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID    uuid.UUID `gorm:"type:uuid;not null;index;column:contract_id" json:"contract_id"`
	Content       string    `gorm:"column:content;type:text" json:"content"`
	VersionNumber int       `gorm:"not null;column:version_number" json:"version_number"`
	AuthorID      uuid.UUID `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	FileURL       *string   `gorm:"column:file_url" json:"file_url,omitempty"`
	FileName      *string   `gorm:"column:file_name" json:"file_name,omitempty"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"created_at"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE;foreignKey:VersionID;references:ID" json:"comments,omitempty"`
}

func (ContractVersion) TableName() string { return "contract_version" }
