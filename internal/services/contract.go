package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/clients/rediscache"
	apperrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
	"github.com/pactumhq/pactum-backend/internal/types"
)

const contractsViewKey = "views:contracts"

type CreateContractInput struct {
	Title      string
	Content    string
	Category   string
	TemplateID *uuid.UUID
	FileURL    *string
	FileName   *string
}

type CreateVersionInput struct {
	Content  string
	FileURL  *string
	FileName *string
}

type ContractService interface {
	ListContracts(ctx context.Context) ([]types.Contract, error)
	GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error)
	CreateContract(ctx context.Context, actor *types.User, in CreateContractInput) (*types.Contract, error)
	CreateVersion(ctx context.Context, actor *types.User, contractID uuid.UUID, in CreateVersionInput) (*types.ContractVersion, error)
	UpdateStatus(ctx context.Context, actor *types.User, contractID uuid.UUID, status types.ContractStatus) error
	FinalizeContract(ctx context.Context, actor *types.User, contractID uuid.UUID) error
	AssignContract(ctx context.Context, actor *types.User, contractID uuid.UUID, userID uuid.UUID) error
	UpdateContent(ctx context.Context, actor *types.User, contractID uuid.UUID, content string) (*types.ContractVersion, error)
	SignContract(ctx context.Context, actor *types.User, contractID uuid.UUID, signatureDataURL string) (*types.Contract, error)
	AddComment(ctx context.Context, actor *types.User, contractID, versionID uuid.UUID, content string) (*types.Comment, error)
	RecentComments(ctx context.Context, limit int) ([]types.Comment, error)
}

// allowedTransitions is the explicit status machine for manual status
// changes. EXECUTED is absent on purpose: it is reachable only through
// SignContract.
var allowedTransitions = map[types.ContractStatus][]types.ContractStatus{
	types.ContractStatusDraft:    {types.ContractStatusReview},
	types.ContractStatusReview:   {types.ContractStatusApproved, types.ContractStatusRejected},
	types.ContractStatusApproved: {types.ContractStatusFinalized, types.ContractStatusReview},
	types.ContractStatusRejected: {types.ContractStatusReview},
}

func transitionAllowed(from, to types.ContractStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type contractService struct {
	st       store.Store
	log      *logger.Logger
	activity ActivityService
	cache    rediscache.ViewCache
}

func NewContractService(
	st store.Store,
	baseLog *logger.Logger,
	activity ActivityService,
	cache rediscache.ViewCache,
) ContractService {
	return &contractService{
		st:       st,
		log:      baseLog.With("service", "ContractService"),
		activity: activity,
		cache:    cache,
	}
}

func (s *contractService) ListContracts(ctx context.Context) ([]types.Contract, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, contractsViewKey); ok {
			var cached []types.Contract
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			s.cache.Invalidate(ctx, contractsViewKey)
		}
	}
	contracts, err := s.st.ListContracts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(contracts); err == nil {
			s.cache.Set(ctx, contractsViewKey, raw)
		}
	}
	return contracts, nil
}

func (s *contractService) GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	return s.st.GetContract(ctx, contractID)
}

func (s *contractService) CreateContract(ctx context.Context, actor *types.User, in CreateContractInput) (*types.Contract, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", apperrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: empty title", apperrors.ErrInvalidArgument)
	}

	category := in.Category
	if category == "" {
		category = store.DefaultCategory
	}

	content := in.Content
	fileURL := in.FileURL
	fileName := in.FileName

	// Only fall back to the template when neither content nor a file was
	// provided for the first version.
	if in.TemplateID != nil && content == "" && fileURL == nil {
		template, err := s.st.GetTemplate(ctx, *in.TemplateID)
		if err != nil {
			return nil, err
		}
		content = template.Content
		if template.FileURL != nil {
			fileURL = template.FileURL
			name := "Plantilla: " + template.Name
			fileName = &name
		}
	}
	content = substituteVariables(content, in.Title, category, actor.Name)

	contract := &types.Contract{
		ID:       uuid.New(),
		Title:    in.Title,
		Status:   types.ContractStatusDraft,
		Category: category,
		AuthorID: actor.ID,
		Author:   actor,
	}
	initial := &types.ContractVersion{
		ID:            uuid.New(),
		ContractID:    contract.ID,
		Content:       content,
		VersionNumber: 1,
		AuthorID:      actor.ID,
		FileURL:       fileURL,
		FileName:      fileName,
	}
	if err := s.st.CreateContract(ctx, contract, initial); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, contract.ID, actor, types.ActivityCreated,
		fmt.Sprintf("Contrato creado bajo la categoría %s", category))
	s.invalidateViews(ctx)
	return contract, nil
}

func (s *contractService) CreateVersion(ctx context.Context, actor *types.User, contractID uuid.UUID, in CreateVersionInput) (*types.ContractVersion, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", apperrors.ErrInvalidArgument)
	}
	contract, err := s.st.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == types.ContractStatusFinalized || contract.Status == types.ContractStatusExecuted {
		return nil, fmt.Errorf("%w: contract is %s", apperrors.ErrInvalidState, contract.Status)
	}

	version := &types.ContractVersion{
		ID:         uuid.New(),
		ContractID: contractID,
		Content:    in.Content,
		AuthorID:   actor.ID,
		FileURL:    in.FileURL,
		FileName:   in.FileName,
	}
	if err := s.st.CreateVersion(ctx, contractID, version); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, contractID, actor, types.ActivityAddedVersion,
		fmt.Sprintf("Nueva versión v%d añadida", version.VersionNumber))
	s.invalidateViews(ctx)
	return version, nil
}

func (s *contractService) UpdateStatus(ctx context.Context, actor *types.User, contractID uuid.UUID, status types.ContractStatus) error {
	contract, err := s.st.GetContract(ctx, contractID)
	if err != nil {
		return err
	}
	if !transitionAllowed(contract.Status, status) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidState, contract.Status, status)
	}
	if err := s.st.UpdateContractStatus(ctx, contractID, status); err != nil {
		return err
	}

	action := types.ActivityUpdatedStatus
	details := fmt.Sprintf("Estado actualizado a %s", status)
	if status == types.ContractStatusFinalized {
		action = types.ActivityFinalized
		details = "Contrato finalizado y bloqueado para ediciones"
	}
	s.activity.Record(ctx, contractID, actor, action, details)
	s.invalidateViews(ctx)
	return nil
}

func (s *contractService) FinalizeContract(ctx context.Context, actor *types.User, contractID uuid.UUID) error {
	return s.UpdateStatus(ctx, actor, contractID, types.ContractStatusFinalized)
}

func (s *contractService) AssignContract(ctx context.Context, actor *types.User, contractID uuid.UUID, userID uuid.UUID) error {
	assignee, err := s.st.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.st.AssignContract(ctx, contractID, userID); err != nil {
		return err
	}

	name := assignee.Name
	if name == "" {
		name = "desconocido"
	}
	s.activity.Record(ctx, contractID, actor, types.ActivityAssigned,
		fmt.Sprintf("Contrato asignado a %s", name))
	s.invalidateViews(ctx)
	return nil
}

func (s *contractService) UpdateContent(ctx context.Context, actor *types.User, contractID uuid.UUID, content string) (*types.ContractVersion, error) {
	contract, err := s.st.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status == types.ContractStatusFinalized || contract.Status == types.ContractStatusExecuted {
		return nil, fmt.Errorf("%w: contract is %s", apperrors.ErrInvalidState, contract.Status)
	}
	version, err := s.st.UpdateCurrentVersionContent(ctx, contractID, content)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, contractID, actor, types.ActivityEdited,
		"Contenido actualizado desde el editor web")
	s.invalidateViews(ctx)
	return version, nil
}

func (s *contractService) SignContract(ctx context.Context, actor *types.User, contractID uuid.UUID, signatureDataURL string) (*types.Contract, error) {
	if signatureDataURL == "" {
		return nil, fmt.Errorf("%w: empty signature", apperrors.ErrInvalidArgument)
	}
	contract, err := s.st.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	// The digest commits to the exact content being signed, so a later
	// content edit is detectable against the stored record.
	var content string
	if current := contract.CurrentVersion(); current != nil {
		content = current.Content
	}
	sum := sha256.Sum256([]byte(content))
	signature := types.SignatureRecord{
		DataURL: signatureDataURL,
		Digest:  hex.EncodeToString(sum[:]),
	}
	signedAt := time.Now().UTC()
	if err := s.st.SignContract(ctx, contractID, signature, signedAt); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, contractID, actor, types.ActivityExecuted,
		fmt.Sprintf("Contrato firmado digitalmente. Certificado de integridad: %s", signature.Digest))
	s.invalidateViews(ctx)
	return s.st.GetContract(ctx, contractID)
}

func (s *contractService) AddComment(ctx context.Context, actor *types.User, contractID, versionID uuid.UUID, content string) (*types.Comment, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: missing actor", apperrors.ErrInvalidArgument)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty comment", apperrors.ErrInvalidArgument)
	}
	contract, err := s.st.GetContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	versionNumber := 0
	for i := range contract.Versions {
		if contract.Versions[i].ID == versionID {
			versionNumber = contract.Versions[i].VersionNumber
			break
		}
	}
	if versionNumber == 0 {
		return nil, fmt.Errorf("%w: version %s", apperrors.ErrNotFound, versionID)
	}

	comment := &types.Comment{
		ID:         uuid.New(),
		VersionID:  versionID,
		ContractID: contractID,
		AuthorID:   actor.ID,
		Author:     actor,
		Content:    content,
	}
	if err := s.st.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, contractID, actor, types.ActivityCommented,
		fmt.Sprintf("Comentario añadido a la v%d", versionNumber))
	return comment, nil
}

func (s *contractService) RecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	return s.st.ListRecentComments(ctx, limit)
}

func (s *contractService) invalidateViews(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, contractsViewKey)
	}
}

// substituteVariables injects contract metadata into template tokens. The
// date uses the es-ES short form the templates were written for.
func substituteVariables(content, title, category, authorName string) string {
	if content == "" {
		return content
	}
	if authorName == "" {
		authorName = "Admin"
	}
	now := time.Now()
	fecha := fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year())
	return strings.NewReplacer(
		"{{TITULO}}", title,
		"{{FECHA}}", fecha,
		"{{AUTOR}}", authorName,
		"{{CATEGORIA}}", category,
	).Replace(content)
}
