// Package store hides which physical backend persists contract data. One
// adapter is selected at process start (relational, document, or mirrored)
// and injected into the services; no per-call backend branching exists
// anywhere above this package.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/types"
)

// Store is the single persistence contract for contracts, versions,
// comments, users, templates and activity logs.
//
// Mutations taking record pointers expect the caller (the service layer) to
// have generated the entity ID already, so that a mirrored deployment writes
// the same identity to both backends. Adapters fill derived fields
// (version numbers, timestamps) on the passed record.
type Store interface {
	Name() string

	// Contracts
	ListContracts(ctx context.Context) ([]types.Contract, error)
	GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error)
	// CreateContract persists the contract together with its first version
	// (numbered 1, status DRAFT). Atomic on the relational backend.
	CreateContract(ctx context.Context, contract *types.Contract, initial *types.ContractVersion) error
	// CreateVersion appends a version. When version.VersionNumber is zero the
	// adapter assigns the next sequential number; a mirrored secondary
	// receives the number the primary assigned. The contract status is moved
	// to REVIEW unconditionally.
	CreateVersion(ctx context.Context, contractID uuid.UUID, version *types.ContractVersion) error
	UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status types.ContractStatus) error
	AssignContract(ctx context.Context, contractID uuid.UUID, userID uuid.UUID) error
	// UpdateCurrentVersionContent overwrites the highest-numbered version's
	// content in place. This is the one sanctioned break of version
	// immutability.
	UpdateCurrentVersionContent(ctx context.Context, contractID uuid.UUID, content string) (*types.ContractVersion, error)
	SignContract(ctx context.Context, contractID uuid.UUID, signature types.SignatureRecord, signedAt time.Time) error

	// Comments
	AddComment(ctx context.Context, comment *types.Comment) error
	ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error)

	// Users
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error)
	// UpsertUser writes a fully-formed user record keyed by its ID. Used by
	// the mirrored adapter and the seed command.
	UpsertUser(ctx context.Context, user *types.User) error

	// Templates
	CreateTemplate(ctx context.Context, template *types.Template) error
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error)
	ListTemplates(ctx context.Context) ([]types.Template, error)
	DeleteTemplate(ctx context.Context, templateID uuid.UUID) error

	// Activity log
	AppendActivity(ctx context.Context, entry *types.ActivityLog) error
	ListActivity(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error)
}

const (
	// DefaultCategory substitutes a missing contract category on reads.
	DefaultCategory = "General"
	// UnknownAuthorName substitutes a missing author display name.
	UnknownAuthorName = "Desconocido"
	// SystemActorName substitutes a missing actor name in activity entries.
	SystemActorName = "Sistema"
)

// repairContract substitutes defaults for missing fields so a single
// malformed record never fails a whole listing.
func repairContract(c *types.Contract) {
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	if c.Status == "" {
		c.Status = types.ContractStatusDraft
	}
	if c.Author == nil {
		c.Author = &types.User{Name: UnknownAuthorName}
	} else if c.Author.Name == "" {
		c.Author.Name = UnknownAuthorName
	}
}
