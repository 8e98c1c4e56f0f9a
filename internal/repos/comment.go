package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type CommentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]types.Comment, error)
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	repoLog := baseLog.With("repo", "CommentRepo")
	return &commentRepo{db: db, log: repoLog}
}

func (cr *commentRepo) Create(ctx context.Context, tx *gorm.DB, comment *types.Comment) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Create(comment).Error
}

func (cr *commentRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]types.Comment, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if limit <= 0 {
		limit = 5
	}
	var results []types.Comment
	if err := transaction.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
