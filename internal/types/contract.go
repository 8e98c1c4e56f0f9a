package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusReview    ContractStatus = "REVIEW"
	ContractStatusApproved  ContractStatus = "APPROVED"
	ContractStatusRejected  ContractStatus = "REJECTED"
	ContractStatusFinalized ContractStatus = "FINALIZED"
	ContractStatusExecuted  ContractStatus = "EXECUTED"
)

// ContractStatuses are the statuses a caller may set directly. EXECUTED is
// reachable only through signing.
var ContractStatuses = []ContractStatus{
	ContractStatusDraft,
	ContractStatusReview,
	ContractStatusApproved,
	ContractStatusRejected,
	ContractStatusFinalized,
}

// SignatureRecord is the payload persisted when a contract is signed. Digest
// is a sha256 over the current version's content at signing time.
type SignatureRecord struct {
	DataURL string `json:"data_url"`
	Digest  string `json:"digest"`
}

type Contract struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title        string         `gorm:"not null;column:title" json:"title"`
	Status       ContractStatus `gorm:"not null;default:'DRAFT';column:status;index" json:"status"`
	Category     string         `gorm:"not null;default:'General';column:category" json:"category"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Author       *User          `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	AssignedToID *uuid.UUID     `gorm:"type:uuid;index;column:assigned_to_id" json:"assigned_to_id,omitempty"`
	AssignedTo   *User          `gorm:"foreignKey:AssignedToID;references:ID" json:"assigned_to,omitempty"`
	Signature    datatypes.JSON `gorm:"column:signature;type:jsonb" json:"signature,omitempty"`
	SignedAt     *time.Time     `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`

	Versions []ContractVersion `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContractID;references:ID" json:"versions,omitempty"`

	// VersionCount is filled on list reads; the relational store counts
	// rows, the document store keeps it denormalized on the contract.
	VersionCount int `gorm:"-" json:"version_count,omitempty"`
}

func (Contract) TableName() string { return "contract" }

// CurrentVersion returns the highest-numbered version, assuming Versions is
// ordered newest-first as every store read guarantees.
func (c *Contract) CurrentVersion() *ContractVersion {
	if c == nil || len(c.Versions) == 0 {
		return nil
	}
	return &c.Versions[0]
}
