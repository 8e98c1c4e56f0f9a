package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type ContractVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.ContractVersion) error
	GetByID(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (*types.ContractVersion, error)
	ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]types.ContractVersion, error)
	CountByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error)
	Latest(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.ContractVersion, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, versionID uuid.UUID, content string) error
}

type contractVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractVersionRepo(db *gorm.DB, baseLog *logger.Logger) ContractVersionRepo {
	repoLog := baseLog.With("repo", "ContractVersionRepo")
	return &contractVersionRepo{db: db, log: repoLog}
}

func (vr *contractVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.ContractVersion) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).Create(version).Error
}

func (vr *contractVersionRepo) GetByID(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) (*types.ContractVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.ContractVersion
	if err := transaction.WithContext(ctx).
		Where("id = ?", versionID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *contractVersionRepo) ListByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]types.ContractVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []types.ContractVersion
	if err := transaction.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comment.created_at ASC")
		}).
		Preload("Comments.Author").
		Where("contract_id = ?", contractID).
		Order("version_number DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *contractVersionRepo) CountByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ContractVersion{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (vr *contractVersionRepo) Latest(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.ContractVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.ContractVersion
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("version_number DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *contractVersionRepo) UpdateContent(ctx context.Context, tx *gorm.DB, versionID uuid.UUID, content string) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.ContractVersion{}).
		Where("id = ?", versionID).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
