package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/repos"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// PostgresStore backs the Store contract with the relational schema through
// the GORM repos.
type PostgresStore struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	contracts    repos.ContractRepo
	versions     repos.ContractVersionRepo
	comments     repos.CommentRepo
	templates    repos.TemplateRepo
	activityLogs repos.ActivityLogRepo
}

func NewPostgresStore(db *gorm.DB, baseLog *logger.Logger) *PostgresStore {
	storeLog := baseLog.With("store", "PostgresStore")
	return &PostgresStore{
		db:           db,
		log:          storeLog,
		users:        repos.NewUserRepo(db, baseLog),
		contracts:    repos.NewContractRepo(db, baseLog),
		versions:     repos.NewContractVersionRepo(db, baseLog),
		comments:     repos.NewCommentRepo(db, baseLog),
		templates:    repos.NewTemplateRepo(db, baseLog),
		activityLogs: repos.NewActivityLogRepo(db, baseLog),
	}
}

func (s *PostgresStore) Name() string { return "postgres" }

func mapRecordErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", pkgerrors.ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", pkgerrors.ErrStorage, what, err)
}

func (s *PostgresStore) ListContracts(ctx context.Context) ([]types.Contract, error) {
	contracts, err := s.contracts.List(ctx, nil)
	if err != nil {
		return nil, mapRecordErr(err, "list contracts")
	}

	counts := map[uuid.UUID]int{}
	var rows []struct {
		ContractID uuid.UUID
		N          int
	}
	if err := s.db.WithContext(ctx).
		Model(&types.ContractVersion{}).
		Select("contract_id, count(*) as n").
		Group("contract_id").
		Scan(&rows).Error; err != nil {
		return nil, mapRecordErr(err, "count versions")
	}
	for _, r := range rows {
		counts[r.ContractID] = r.N
	}

	for i := range contracts {
		repairContract(&contracts[i])
		contracts[i].VersionCount = counts[contracts[i].ID]
	}
	return contracts, nil
}

func (s *PostgresStore) GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, mapRecordErr(err, fmt.Sprintf("contract %s", contractID))
	}
	versions, err := s.versions.ListByContract(ctx, nil, contractID)
	if err != nil {
		return nil, mapRecordErr(err, "list versions")
	}
	repairContract(contract)
	contract.Versions = versions
	contract.VersionCount = len(versions)
	return contract, nil
}

func (s *PostgresStore) CreateContract(ctx context.Context, contract *types.Contract, initial *types.ContractVersion) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contracts.Create(ctx, tx, contract); err != nil {
			return err
		}
		initial.ContractID = contract.ID
		initial.VersionNumber = 1
		return s.versions.Create(ctx, tx, initial)
	})
	if err != nil {
		return fmt.Errorf("%w: create contract: %v", pkgerrors.ErrStorage, err)
	}
	contract.Versions = []types.ContractVersion{*initial}
	contract.VersionCount = 1
	return nil
}

func (s *PostgresStore) CreateVersion(ctx context.Context, contractID uuid.UUID, version *types.ContractVersion) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.contracts.GetByID(ctx, tx, contractID); err != nil {
			return err
		}
		if version.VersionNumber == 0 {
			count, err := s.versions.CountByContract(ctx, tx, contractID)
			if err != nil {
				return err
			}
			version.VersionNumber = int(count) + 1
		}
		version.ContractID = contractID
		if err := s.versions.Create(ctx, tx, version); err != nil {
			return err
		}
		return s.contracts.UpdateStatus(ctx, tx, contractID, types.ContractStatusReview)
	})
	if err != nil {
		return mapRecordErr(err, fmt.Sprintf("create version for contract %s", contractID))
	}
	return nil
}

func (s *PostgresStore) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status types.ContractStatus) error {
	if err := s.contracts.UpdateStatus(ctx, nil, contractID, status); err != nil {
		return mapRecordErr(err, fmt.Sprintf("contract %s", contractID))
	}
	return nil
}

func (s *PostgresStore) AssignContract(ctx context.Context, contractID uuid.UUID, userID uuid.UUID) error {
	if err := s.contracts.Assign(ctx, nil, contractID, userID); err != nil {
		return mapRecordErr(err, fmt.Sprintf("contract %s", contractID))
	}
	return nil
}

func (s *PostgresStore) UpdateCurrentVersionContent(ctx context.Context, contractID uuid.UUID, content string) (*types.ContractVersion, error) {
	var updated *types.ContractVersion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := s.versions.Latest(ctx, tx, contractID)
		if err != nil {
			return err
		}
		if err := s.versions.UpdateContent(ctx, tx, latest.ID, content); err != nil {
			return err
		}
		if err := s.contracts.Touch(ctx, tx, contractID); err != nil {
			return err
		}
		latest.Content = content
		updated = latest
		return nil
	})
	if err != nil {
		return nil, mapRecordErr(err, fmt.Sprintf("current version of contract %s", contractID))
	}
	return updated, nil
}

func (s *PostgresStore) SignContract(ctx context.Context, contractID uuid.UUID, signature types.SignatureRecord, signedAt time.Time) error {
	raw, err := json.Marshal(signature)
	if err != nil {
		return fmt.Errorf("%w: marshal signature: %v", pkgerrors.ErrStorage, err)
	}
	if err := s.contracts.SetSignature(ctx, nil, contractID, datatypes.JSON(raw), signedAt); err != nil {
		return mapRecordErr(err, fmt.Sprintf("contract %s", contractID))
	}
	return nil
}

func (s *PostgresStore) AddComment(ctx context.Context, comment *types.Comment) error {
	if err := s.comments.Create(ctx, nil, comment); err != nil {
		return fmt.Errorf("%w: add comment: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	comments, err := s.comments.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, mapRecordErr(err, "recent comments")
	}
	return comments, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, mapRecordErr(err, fmt.Sprintf("user %s", userID))
	}
	return user, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]types.User, error) {
	users, err := s.users.List(ctx, nil)
	if err != nil {
		return nil, mapRecordErr(err, "list users")
	}
	return users, nil
}

// GetOrCreateUserByEmail relies on the unique constraint on user.email: a
// concurrent insert loses the race at the database and the loser re-reads
// the winner's row.
func (s *PostgresStore) GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error) {
	user, err := s.users.GetByEmail(ctx, nil, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRecordErr(err, fmt.Sprintf("user %s", email))
	}

	created := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
		Role:  types.UserRoleAdmin,
	}
	createErr := s.users.Create(ctx, nil, created)
	if createErr == nil {
		return created, nil
	}

	var pgErr *pgconn.PgError
	uniqueViolation := errors.As(createErr, &pgErr) && pgErr.Code == "23505"
	if user, err := s.users.GetByEmail(ctx, nil, email); err == nil {
		return user, nil
	} else if uniqueViolation {
		return nil, mapRecordErr(err, fmt.Sprintf("user %s after conflict", email))
	}
	return nil, fmt.Errorf("%w: create user %s: %v", pkgerrors.ErrStorage, email, createErr)
}

func (s *PostgresStore) UpsertUser(ctx context.Context, user *types.User) error {
	err := s.db.WithContext(ctx).
		Where("id = ?", user.ID).
		Assign(map[string]any{"email": user.Email, "name": user.Name, "role": user.Role}).
		FirstOrCreate(&types.User{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}).Error
	if err != nil {
		return fmt.Errorf("%w: upsert user %s: %v", pkgerrors.ErrStorage, user.Email, err)
	}
	return nil
}

func (s *PostgresStore) CreateTemplate(ctx context.Context, template *types.Template) error {
	if err := s.templates.Create(ctx, nil, template); err != nil {
		return fmt.Errorf("%w: create template: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error) {
	template, err := s.templates.GetByID(ctx, nil, templateID)
	if err != nil {
		return nil, mapRecordErr(err, fmt.Sprintf("template %s", templateID))
	}
	return template, nil
}

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]types.Template, error) {
	templates, err := s.templates.List(ctx, nil)
	if err != nil {
		return nil, mapRecordErr(err, "list templates")
	}
	return templates, nil
}

func (s *PostgresStore) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	if err := s.templates.Delete(ctx, nil, templateID); err != nil {
		return mapRecordErr(err, fmt.Sprintf("template %s", templateID))
	}
	return nil
}

func (s *PostgresStore) AppendActivity(ctx context.Context, entry *types.ActivityLog) error {
	if entry.UserName == "" {
		entry.UserName = SystemActorName
	}
	if err := s.activityLogs.Create(ctx, nil, entry); err != nil {
		return fmt.Errorf("%w: append activity: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error) {
	entries, err := s.activityLogs.ListByContract(ctx, nil, contractID)
	if err != nil {
		return nil, mapRecordErr(err, "list activity")
	}
	return entries, nil
}
