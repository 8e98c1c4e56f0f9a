package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type CreateTemplateInput struct {
	Name        string
	Description string
	Content     string
	FileURL     *string
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, in CreateTemplateInput) (*types.Template, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error)
	ListTemplates(ctx context.Context) ([]types.Template, error)
	DeleteTemplate(ctx context.Context, templateID uuid.UUID) error
}

type templateService struct {
	st  store.Store
	log *logger.Logger
}

func NewTemplateService(st store.Store, baseLog *logger.Logger) TemplateService {
	return &templateService{
		st:  st,
		log: baseLog.With("service", "TemplateService"),
	}
}

func (s *templateService) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*types.Template, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: empty template name", apperrors.ErrInvalidArgument)
	}
	template := &types.Template{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Content:     in.Content,
		FileURL:     in.FileURL,
	}
	if err := s.st.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error) {
	return s.st.GetTemplate(ctx, templateID)
}

func (s *templateService) ListTemplates(ctx context.Context) ([]types.Template, error) {
	return s.st.ListTemplates(ctx)
}

func (s *templateService) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	return s.st.DeleteTemplate(ctx, templateID)
}
