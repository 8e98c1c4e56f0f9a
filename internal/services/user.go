package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/pkg/envutil"
	apperrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type UserService interface {
	// CurrentUser resolves the acting identity for a request. There is no
	// authentication layer; a single configured identity stands in for it
	// and is created on first use.
	CurrentUser(ctx context.Context) (*types.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	CreateUser(ctx context.Context, email, name string, role types.UserRole) (*types.User, error)
}

type userService struct {
	st        store.Store
	log       *logger.Logger
	seedEmail string
	seedName  string
}

func NewUserService(st store.Store, baseLog *logger.Logger) UserService {
	return &userService{
		st:        st,
		log:       baseLog.With("service", "UserService"),
		seedEmail: envutil.Str("SEED_ADMIN_EMAIL", "admin@example.com"),
		seedName:  envutil.Str("SEED_ADMIN_NAME", "Admin User"),
	}
}

func (s *userService) CurrentUser(ctx context.Context) (*types.User, error) {
	return s.st.GetOrCreateUserByEmail(ctx, s.seedEmail, s.seedName)
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.st.GetUser(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.st.ListUsers(ctx)
}

func (s *userService) CreateUser(ctx context.Context, email, name string, role types.UserRole) (*types.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: empty email", apperrors.ErrInvalidArgument)
	}
	if role == "" {
		role = types.UserRoleUser
	}
	user := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
		Role:  role,
	}
	if err := s.st.UpsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
