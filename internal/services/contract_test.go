package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// memStore is an in-memory Store with just enough semantics for the service
// tests: newest-first version ordering, sequential numbering, REVIEW reset.
type memStore struct {
	contracts   map[uuid.UUID]*types.Contract
	templates   map[uuid.UUID]*types.Template
	users       map[uuid.UUID]*types.User
	comments    []types.Comment
	activity    []types.ActivityLog
	activityErr error
}

func newMemStore() *memStore {
	return &memStore{
		contracts: map[uuid.UUID]*types.Contract{},
		templates: map[uuid.UUID]*types.Template{},
		users:     map[uuid.UUID]*types.User{},
	}
}

func (m *memStore) Name() string { return "mem" }

func (m *memStore) ListContracts(ctx context.Context) ([]types.Contract, error) {
	out := make([]types.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) GetContract(ctx context.Context, id uuid.UUID) (*types.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	cp := *c
	cp.Versions = append([]types.ContractVersion(nil), c.Versions...)
	return &cp, nil
}

func (m *memStore) CreateContract(ctx context.Context, c *types.Contract, initial *types.ContractVersion) error {
	initial.ContractID = c.ID
	initial.VersionNumber = 1
	stored := *c
	stored.Versions = []types.ContractVersion{*initial}
	m.contracts[c.ID] = &stored
	return nil
}

func (m *memStore) CreateVersion(ctx context.Context, id uuid.UUID, v *types.ContractVersion) error {
	c, ok := m.contracts[id]
	if !ok {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	if v.VersionNumber == 0 {
		v.VersionNumber = len(c.Versions) + 1
	}
	v.ContractID = id
	c.Versions = append([]types.ContractVersion{*v}, c.Versions...)
	c.Status = types.ContractStatusReview
	return nil
}

func (m *memStore) UpdateContractStatus(ctx context.Context, id uuid.UUID, status types.ContractStatus) error {
	c, ok := m.contracts[id]
	if !ok {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	c.Status = status
	return nil
}

func (m *memStore) AssignContract(ctx context.Context, id, userID uuid.UUID) error {
	c, ok := m.contracts[id]
	if !ok {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	c.AssignedToID = &userID
	return nil
}

func (m *memStore) UpdateCurrentVersionContent(ctx context.Context, id uuid.UUID, content string) (*types.ContractVersion, error) {
	c, ok := m.contracts[id]
	if !ok || len(c.Versions) == 0 {
		return nil, fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	c.Versions[0].Content = content
	cp := c.Versions[0]
	return &cp, nil
}

func (m *memStore) SignContract(ctx context.Context, id uuid.UUID, sig types.SignatureRecord, at time.Time) error {
	c, ok := m.contracts[id]
	if !ok {
		return fmt.Errorf("%w: contract %s", apperrors.ErrNotFound, id)
	}
	raw, err := json.Marshal(sig)
	if err != nil {
		return err
	}
	c.Status = types.ContractStatusExecuted
	c.Signature = raw
	c.SignedAt = &at
	return nil
}

func (m *memStore) AddComment(ctx context.Context, comment *types.Comment) error {
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *memStore) ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	if limit <= 0 || limit > len(m.comments) {
		limit = len(m.comments)
	}
	out := append([]types.Comment(nil), m.comments...)
	return out[len(out)-limit:], nil
}

func (m *memStore) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	return u, nil
}

func (m *memStore) ListUsers(ctx context.Context) ([]types.User, error) {
	out := make([]types.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	u := &types.User{ID: uuid.New(), Email: email, Name: name, Role: types.UserRoleAdmin}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) UpsertUser(ctx context.Context, user *types.User) error {
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) CreateTemplate(ctx context.Context, t *types.Template) error {
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *memStore) GetTemplate(ctx context.Context, id uuid.UUID) (*types.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, id)
	}
	return t, nil
}

func (m *memStore) ListTemplates(ctx context.Context) ([]types.Template, error) {
	out := make([]types.Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("%w: template %s", apperrors.ErrNotFound, id)
	}
	delete(m.templates, id)
	return nil
}

func (m *memStore) AppendActivity(ctx context.Context, entry *types.ActivityLog) error {
	if m.activityErr != nil {
		return m.activityErr
	}
	m.activity = append(m.activity, *entry)
	return nil
}

func (m *memStore) ListActivity(ctx context.Context, id uuid.UUID) ([]types.ActivityLog, error) {
	var out []types.ActivityLog
	for _, e := range m.activity {
		if e.ContractID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type countingRecorder struct{ failed int }

func (r *countingRecorder) ActivityWriteFailed() { r.failed++ }

func newContractFixture(t *testing.T) (ContractService, *memStore, *types.User, *countingRecorder) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	st := newMemStore()
	actor := &types.User{ID: uuid.New(), Email: "admin@example.com", Name: "Admin User", Role: types.UserRoleAdmin}
	st.users[actor.ID] = actor
	recorder := &countingRecorder{}
	activity := NewActivityService(st, log, recorder)
	svc := NewContractService(st, log, activity, nil)
	return svc, st, actor, recorder
}

func TestCreateContractFromTemplateSubstitutesVariables(t *testing.T) {
	svc, st, actor, _ := newContractFixture(t)
	ctx := context.Background()

	template := &types.Template{
		ID:      uuid.New(),
		Name:    "NDA",
		Content: "Contrato {{TITULO}} de {{AUTOR}} en {{CATEGORIA}}, fecha {{FECHA}}",
	}
	if err := st.CreateTemplate(ctx, template); err != nil {
		t.Fatalf("create template: %v", err)
	}

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{
		Title:      "Acuerdo Marco",
		Category:   "Legal",
		TemplateID: &template.ID,
	})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	got, err := svc.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	content := got.CurrentVersion().Content
	if strings.Contains(content, "{{") {
		t.Fatalf("unsubstituted tokens remain: %q", content)
	}
	for _, want := range []string{"Acuerdo Marco", "Admin User", "Legal"} {
		if !strings.Contains(content, want) {
			t.Fatalf("content missing %q: %q", want, content)
		}
	}
}

func TestCreateVersionRejectedWhenFinalized(t *testing.T) {
	svc, st, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if err := st.UpdateContractStatus(ctx, contract.ID, types.ContractStatusFinalized); err != nil {
		t.Fatalf("set status: %v", err)
	}

	_, err = svc.CreateVersion(ctx, actor, contract.ID, CreateVersionInput{Content: "v2"})
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("error: want=ErrInvalidState got=%v", err)
	}
	got, _ := svc.GetContract(ctx, contract.ID)
	if len(got.Versions) != 1 {
		t.Fatalf("versions after rejected create: want=1 got=%d", len(got.Versions))
	}
}

func TestUpdateContentRejectedWhenFinalized(t *testing.T) {
	svc, st, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "original"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if err := st.UpdateContractStatus(ctx, contract.ID, types.ContractStatusFinalized); err != nil {
		t.Fatalf("set status: %v", err)
	}

	_, err = svc.UpdateContent(ctx, actor, contract.ID, "edited")
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("error: want=ErrInvalidState got=%v", err)
	}
	got, _ := svc.GetContract(ctx, contract.ID)
	if got.CurrentVersion().Content != "original" {
		t.Fatalf("content changed on finalized contract: %q", got.CurrentVersion().Content)
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	svc, _, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	// Illegal jump straight from DRAFT.
	err = svc.UpdateStatus(ctx, actor, contract.ID, types.ContractStatusApproved)
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("DRAFT->APPROVED: want=ErrInvalidState got=%v", err)
	}

	// The documented path works end to end.
	for _, status := range []types.ContractStatus{
		types.ContractStatusReview,
		types.ContractStatusApproved,
		types.ContractStatusFinalized,
	} {
		if err := svc.UpdateStatus(ctx, actor, contract.ID, status); err != nil {
			t.Fatalf("transition to %v: %v", status, err)
		}
	}

	// FINALIZED is terminal for manual changes.
	err = svc.UpdateStatus(ctx, actor, contract.ID, types.ContractStatusDraft)
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("FINALIZED->DRAFT: want=ErrInvalidState got=%v", err)
	}
}

func TestSignContractStoresContentDigest(t *testing.T) {
	svc, _, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "signed body"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	signed, err := svc.SignContract(ctx, actor, contract.ID, "data:image/png;base64,xyz")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed.Status != types.ContractStatusExecuted {
		t.Fatalf("status: want=EXECUTED got=%v", signed.Status)
	}
	if signed.SignedAt == nil {
		t.Fatalf("signed_at missing")
	}

	var sig types.SignatureRecord
	if err := json.Unmarshal(signed.Signature, &sig); err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	sum := sha256.Sum256([]byte("signed body"))
	if want := hex.EncodeToString(sum[:]); sig.Digest != want {
		t.Fatalf("digest: want=%s got=%s", want, sig.Digest)
	}

	// Re-signing is allowed.
	if _, err := svc.SignContract(ctx, actor, contract.ID, "data:image/png;base64,abc"); err != nil {
		t.Fatalf("re-sign: %v", err)
	}
}

func TestAddCommentRequiresVersionOnContract(t *testing.T) {
	svc, _, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}

	_, err = svc.AddComment(ctx, actor, contract.ID, uuid.New(), "hola")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("comment on foreign version: want=ErrNotFound got=%v", err)
	}

	got, _ := svc.GetContract(ctx, contract.ID)
	comment, err := svc.AddComment(ctx, actor, contract.ID, got.CurrentVersion().ID, "hola")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.VersionID != got.CurrentVersion().ID {
		t.Fatalf("comment version: want=%v got=%v", got.CurrentVersion().ID, comment.VersionID)
	}
}

func TestMutationsAppendSpanishActivity(t *testing.T) {
	svc, st, actor, _ := newContractFixture(t)
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x", Category: "Legal"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if _, err := svc.CreateVersion(ctx, actor, contract.ID, CreateVersionInput{Content: "v2"}); err != nil {
		t.Fatalf("create version: %v", err)
	}

	entries, err := st.ListActivity(ctx, contract.ID)
	if err != nil {
		t.Fatalf("list activity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("activity entries: want=2 got=%d", len(entries))
	}
	if entries[0].Action != types.ActivityCreated || entries[0].Details != "Contrato creado bajo la categoría Legal" {
		t.Fatalf("created entry: got=%+v", entries[0])
	}
	if entries[1].Action != types.ActivityAddedVersion || entries[1].Details != "Nueva versión v2 añadida" {
		t.Fatalf("version entry: got=%+v", entries[1])
	}
	if entries[0].UserName != "Admin User" {
		t.Fatalf("actor name: want=Admin User got=%q", entries[0].UserName)
	}
}

func TestActivityFailureDoesNotAbortMutation(t *testing.T) {
	svc, st, actor, recorder := newContractFixture(t)
	ctx := context.Background()
	st.activityErr = errors.New("activity store down")

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x"})
	if err != nil {
		t.Fatalf("mutation must survive activity failure: %v", err)
	}
	if contract == nil {
		t.Fatalf("contract missing")
	}
	if recorder.failed != 1 {
		t.Fatalf("recorded activity failures: want=1 got=%d", recorder.failed)
	}
}

func TestAssignContractLogsAssigneeName(t *testing.T) {
	svc, st, actor, _ := newContractFixture(t)
	ctx := context.Background()

	legal := &types.User{ID: uuid.New(), Email: "legal@example.com", Name: "Legal Team", Role: types.UserRoleLegal}
	st.users[legal.ID] = legal

	contract, err := svc.CreateContract(ctx, actor, CreateContractInput{Title: "A", Content: "x"})
	if err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if err := svc.AssignContract(ctx, actor, contract.ID, legal.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got, _ := svc.GetContract(ctx, contract.ID)
	if got.AssignedToID == nil || *got.AssignedToID != legal.ID {
		t.Fatalf("assignee: got=%v", got.AssignedToID)
	}
	entries, _ := st.ListActivity(ctx, contract.ID)
	last := entries[len(entries)-1]
	if last.Action != types.ActivityAssigned || last.Details != "Contrato asignado a Legal Team" {
		t.Fatalf("assign entry: got=%+v", last)
	}

	// Unknown assignee is rejected before any write.
	err = svc.AssignContract(ctx, actor, contract.ID, uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("assign unknown user: want=ErrNotFound got=%v", err)
	}
}
