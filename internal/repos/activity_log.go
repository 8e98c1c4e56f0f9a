package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type ActivityLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error
	ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]types.ActivityLog, error)
}

type activityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
	repoLog := baseLog.With("repo", "ActivityLogRepo")
	return &activityLogRepo{db: db, log: repoLog}
}

func (ar *activityLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.ActivityLog) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func (ar *activityLogRepo) ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]types.ActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []types.ActivityLog
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
