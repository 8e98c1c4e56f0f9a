package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type TemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, template *types.Template) error
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.Template, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Template, error)
	Delete(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) error
}

type templateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TemplateRepo {
	repoLog := baseLog.With("repo", "TemplateRepo")
	return &templateRepo{db: db, log: repoLog}
}

func (tr *templateRepo) Create(ctx context.Context, tx *gorm.DB, template *types.Template) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Create(template).Error
}

func (tr *templateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var result types.Template
	if err := transaction.WithContext(ctx).
		Where("id = ?", templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *templateRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Template, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []types.Template
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *templateRepo) Delete(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ?", templateID).
		Delete(&types.Template{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
