package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// ActivityRecorder is notified when an activity write fails after the
// mutation it describes already succeeded.
type ActivityRecorder interface {
	ActivityWriteFailed()
}

type ActivityService interface {
	// Record appends an audit entry. Failures never abort the caller's
	// mutation; they are logged and counted instead.
	Record(ctx context.Context, contractID uuid.UUID, actor *types.User, action types.ActivityAction, details string)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error)
}

type activityService struct {
	st       store.Store
	log      *logger.Logger
	recorder ActivityRecorder
}

func NewActivityService(st store.Store, baseLog *logger.Logger, recorder ActivityRecorder) ActivityService {
	return &activityService{
		st:       st,
		log:      baseLog.With("service", "ActivityService"),
		recorder: recorder,
	}
}

func (s *activityService) Record(ctx context.Context, contractID uuid.UUID, actor *types.User, action types.ActivityAction, details string) {
	entry := &types.ActivityLog{
		ID:         uuid.New(),
		ContractID: contractID,
		Action:     action,
		Details:    details,
		UserName:   store.SystemActorName,
		CreatedAt:  time.Now().UTC(),
	}
	if actor != nil {
		entry.UserID = actor.ID
		if actor.Name != "" {
			entry.UserName = actor.Name
		}
	}
	if err := s.st.AppendActivity(ctx, entry); err != nil {
		s.log.Warn("Activity write failed",
			"contract_id", contractID,
			"action", action,
			"error", err)
		if s.recorder != nil {
			s.recorder.ActivityWriteFailed()
		}
	}
}

func (s *activityService) ListByContract(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error) {
	return s.st.ListActivity(ctx, contractID)
}
