package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) error
	GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Contract, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, status types.ContractStatus) error
	Assign(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, userID uuid.UUID) error
	SetSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, signature datatypes.JSON, signedAt time.Time) error
	Touch(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	repoLog := baseLog.With("repo", "ContractRepo")
	return &contractRepo{db: db, log: repoLog}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.Contract) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Create(contract).Error
}

func (cr *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Contract
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("AssignedTo").
		Where("id = ?", contractID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []types.Contract
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contractRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, status types.ContractStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (cr *contractRepo) Assign(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Updates(map[string]any{"assigned_to_id": userID, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (cr *contractRepo) SetSignature(ctx context.Context, tx *gorm.DB, contractID uuid.UUID, signature datatypes.JSON, signedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Updates(map[string]any{
			"status":     types.ContractStatusExecuted,
			"signature":  signature,
			"signed_at":  signedAt,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (cr *contractRepo) Touch(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Contract{}).
		Where("id = ?", contractID).
		Update("updated_at", time.Now()).Error
}
