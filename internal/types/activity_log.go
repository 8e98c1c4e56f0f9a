package types

import (
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActivityCreated       ActivityAction = "CREATED"
	ActivityAddedVersion  ActivityAction = "ADDED_VERSION"
	ActivityCommented     ActivityAction = "COMMENTED"
	ActivityAssigned      ActivityAction = "ASSIGNED"
	ActivityUpdatedStatus ActivityAction = "UPDATED_STATUS"
	ActivityFinalized     ActivityAction = "FINALIZED"
	ActivityEdited        ActivityAction = "EDITED"
	ActivityExecuted      ActivityAction = "EXECUTED"
)

// ActivityLog is the append-only audit trail. UserName is denormalized at
// write time; staleness after a rename is accepted.
type ActivityLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID uuid.UUID      `gorm:"type:uuid;not null;index;column:contract_id" json:"contract_id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;column:user_id" json:"user_id"`
	UserName   string         `gorm:"column:user_name" json:"user_name"`
	Action     ActivityAction `gorm:"not null;column:action" json:"action"`
	Details    string         `gorm:"column:details;type:text" json:"details"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }
