package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// MirrorRecorder receives the outcome of every mirror write so degradation
// lands in an operational metric rather than only in a log line.
type MirrorRecorder interface {
	MirrorWrite(op string, err error)
}

// MirrorStats tracks mirror health for the health endpoint.
type MirrorStats struct {
	writes   atomic.Int64
	failures atomic.Int64

	mu          sync.Mutex
	lastErr     string
	lastErrTime time.Time
}

type MirrorStatsSnapshot struct {
	Writes      int64     `json:"writes"`
	Failures    int64     `json:"failures"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
}

func (s *MirrorStats) record(err error) {
	s.writes.Add(1)
	if err == nil {
		return
	}
	s.failures.Add(1)
	s.mu.Lock()
	s.lastErr = err.Error()
	s.lastErrTime = time.Now()
	s.mu.Unlock()
}

func (s *MirrorStats) Snapshot() MirrorStatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MirrorStatsSnapshot{
		Writes:      s.writes.Load(),
		Failures:    s.failures.Load(),
		LastError:   s.lastErr,
		LastErrorAt: s.lastErrTime,
	}
}

// MirroredStore routes all reads to the primary and applies every mutation
// to the primary first. Only a primary failure fails the operation; the
// equivalent secondary write is best-effort and its failure is recorded as a
// degraded mirror, never surfaced to the caller. The two stores share entity
// IDs because the service layer generates them, and derived fields the
// primary assigns (version numbers) are already set on the record by the
// time the secondary sees it.
//
// The two writes are not transactional across stores: a crash between them
// leaves the secondary behind. The secondary is a denormalized read cache,
// not a durability guarantee.
type MirroredStore struct {
	primary   Store
	secondary Store
	log       *logger.Logger
	recorder  MirrorRecorder
	stats     MirrorStats
}

func NewMirroredStore(primary, secondary Store, baseLog *logger.Logger, recorder MirrorRecorder) *MirroredStore {
	return &MirroredStore{
		primary:   primary,
		secondary: secondary,
		log:       baseLog.With("store", "MirroredStore"),
		recorder:  recorder,
	}
}

func (s *MirroredStore) Name() string {
	return fmt.Sprintf("mirrored(%s,%s)", s.primary.Name(), s.secondary.Name())
}

func (s *MirroredStore) Stats() MirrorStatsSnapshot { return s.stats.Snapshot() }

func (s *MirroredStore) mirror(op string, fn func() error) {
	err := fn()
	s.stats.record(err)
	if s.recorder != nil {
		s.recorder.MirrorWrite(op, err)
	}
	if err != nil {
		s.log.Warn("Mirror write degraded", "op", op, "error", err)
	}
}

// Reads

func (s *MirroredStore) ListContracts(ctx context.Context) ([]types.Contract, error) {
	return s.primary.ListContracts(ctx)
}

func (s *MirroredStore) GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	return s.primary.GetContract(ctx, contractID)
}

func (s *MirroredStore) ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	return s.primary.ListRecentComments(ctx, limit)
}

func (s *MirroredStore) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.primary.GetUser(ctx, userID)
}

func (s *MirroredStore) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.primary.ListUsers(ctx)
}

func (s *MirroredStore) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error) {
	return s.primary.GetTemplate(ctx, templateID)
}

func (s *MirroredStore) ListTemplates(ctx context.Context) ([]types.Template, error) {
	return s.primary.ListTemplates(ctx)
}

func (s *MirroredStore) ListActivity(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error) {
	return s.primary.ListActivity(ctx, contractID)
}

// Writes

func (s *MirroredStore) CreateContract(ctx context.Context, contract *types.Contract, initial *types.ContractVersion) error {
	if err := s.primary.CreateContract(ctx, contract, initial); err != nil {
		return err
	}
	c, v := *contract, *initial
	s.mirror("create_contract", func() error {
		return s.secondary.CreateContract(ctx, &c, &v)
	})
	return nil
}

func (s *MirroredStore) CreateVersion(ctx context.Context, contractID uuid.UUID, version *types.ContractVersion) error {
	if err := s.primary.CreateVersion(ctx, contractID, version); err != nil {
		return err
	}
	v := *version
	s.mirror("create_version", func() error {
		return s.secondary.CreateVersion(ctx, contractID, &v)
	})
	return nil
}

func (s *MirroredStore) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status types.ContractStatus) error {
	if err := s.primary.UpdateContractStatus(ctx, contractID, status); err != nil {
		return err
	}
	s.mirror("update_status", func() error {
		return s.secondary.UpdateContractStatus(ctx, contractID, status)
	})
	return nil
}

func (s *MirroredStore) AssignContract(ctx context.Context, contractID uuid.UUID, userID uuid.UUID) error {
	if err := s.primary.AssignContract(ctx, contractID, userID); err != nil {
		return err
	}
	s.mirror("assign_contract", func() error {
		return s.secondary.AssignContract(ctx, contractID, userID)
	})
	return nil
}

func (s *MirroredStore) UpdateCurrentVersionContent(ctx context.Context, contractID uuid.UUID, content string) (*types.ContractVersion, error) {
	updated, err := s.primary.UpdateCurrentVersionContent(ctx, contractID, content)
	if err != nil {
		return nil, err
	}
	s.mirror("update_content", func() error {
		_, err := s.secondary.UpdateCurrentVersionContent(ctx, contractID, content)
		return err
	})
	return updated, nil
}

func (s *MirroredStore) SignContract(ctx context.Context, contractID uuid.UUID, signature types.SignatureRecord, signedAt time.Time) error {
	if err := s.primary.SignContract(ctx, contractID, signature, signedAt); err != nil {
		return err
	}
	s.mirror("sign_contract", func() error {
		return s.secondary.SignContract(ctx, contractID, signature, signedAt)
	})
	return nil
}

func (s *MirroredStore) AddComment(ctx context.Context, comment *types.Comment) error {
	if err := s.primary.AddComment(ctx, comment); err != nil {
		return err
	}
	c := *comment
	s.mirror("add_comment", func() error {
		return s.secondary.AddComment(ctx, &c)
	})
	return nil
}

func (s *MirroredStore) GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error) {
	user, err := s.primary.GetOrCreateUserByEmail(ctx, email, name)
	if err != nil {
		return nil, err
	}
	u := *user
	s.mirror("upsert_user", func() error {
		return s.secondary.UpsertUser(ctx, &u)
	})
	return user, nil
}

func (s *MirroredStore) UpsertUser(ctx context.Context, user *types.User) error {
	if err := s.primary.UpsertUser(ctx, user); err != nil {
		return err
	}
	u := *user
	s.mirror("upsert_user", func() error {
		return s.secondary.UpsertUser(ctx, &u)
	})
	return nil
}

func (s *MirroredStore) CreateTemplate(ctx context.Context, template *types.Template) error {
	if err := s.primary.CreateTemplate(ctx, template); err != nil {
		return err
	}
	t := *template
	s.mirror("create_template", func() error {
		return s.secondary.CreateTemplate(ctx, &t)
	})
	return nil
}

func (s *MirroredStore) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	if err := s.primary.DeleteTemplate(ctx, templateID); err != nil {
		return err
	}
	s.mirror("delete_template", func() error {
		return s.secondary.DeleteTemplate(ctx, templateID)
	})
	return nil
}

func (s *MirroredStore) AppendActivity(ctx context.Context, entry *types.ActivityLog) error {
	if err := s.primary.AppendActivity(ctx, entry); err != nil {
		return err
	}
	e := *entry
	s.mirror("append_activity", func() error {
		return s.secondary.AppendActivity(ctx, &e)
	})
	return nil
}
