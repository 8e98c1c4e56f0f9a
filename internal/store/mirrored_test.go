package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// fakeBackend records calls and fails on demand. Only the write paths the
// tests exercise are given real behavior.
type fakeBackend struct {
	name  string
	calls []string
	err   error

	versions map[uuid.UUID]int
}

func newFakeBackend(name string) *fakeBackend {
	return &fakeBackend{name: name, versions: map[uuid.UUID]int{}}
}

func (f *fakeBackend) note(op string) error {
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) ListContracts(ctx context.Context) ([]types.Contract, error) {
	return nil, f.note("list_contracts")
}
func (f *fakeBackend) GetContract(ctx context.Context, id uuid.UUID) (*types.Contract, error) {
	return &types.Contract{ID: id}, f.note("get_contract")
}
func (f *fakeBackend) CreateContract(ctx context.Context, c *types.Contract, v *types.ContractVersion) error {
	f.versions[c.ID] = 1
	v.VersionNumber = 1
	return f.note("create_contract")
}
func (f *fakeBackend) CreateVersion(ctx context.Context, id uuid.UUID, v *types.ContractVersion) error {
	if v.VersionNumber == 0 {
		f.versions[id]++
		v.VersionNumber = f.versions[id]
	} else {
		f.versions[id] = v.VersionNumber
	}
	return f.note("create_version")
}
func (f *fakeBackend) UpdateContractStatus(ctx context.Context, id uuid.UUID, st types.ContractStatus) error {
	return f.note("update_status")
}
func (f *fakeBackend) AssignContract(ctx context.Context, id, userID uuid.UUID) error {
	return f.note("assign_contract")
}
func (f *fakeBackend) UpdateCurrentVersionContent(ctx context.Context, id uuid.UUID, content string) (*types.ContractVersion, error) {
	return &types.ContractVersion{ContractID: id, Content: content}, f.note("update_content")
}
func (f *fakeBackend) SignContract(ctx context.Context, id uuid.UUID, sig types.SignatureRecord, at time.Time) error {
	return f.note("sign_contract")
}
func (f *fakeBackend) AddComment(ctx context.Context, c *types.Comment) error {
	return f.note("add_comment")
}
func (f *fakeBackend) ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	return nil, f.note("recent_comments")
}
func (f *fakeBackend) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	return &types.User{ID: id}, f.note("get_user")
}
func (f *fakeBackend) ListUsers(ctx context.Context) ([]types.User, error) {
	return nil, f.note("list_users")
}
func (f *fakeBackend) GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error) {
	return &types.User{ID: uuid.New(), Email: email, Name: name}, f.note("get_or_create_user")
}
func (f *fakeBackend) UpsertUser(ctx context.Context, u *types.User) error {
	return f.note("upsert_user")
}
func (f *fakeBackend) CreateTemplate(ctx context.Context, t *types.Template) error {
	return f.note("create_template")
}
func (f *fakeBackend) GetTemplate(ctx context.Context, id uuid.UUID) (*types.Template, error) {
	return &types.Template{ID: id}, f.note("get_template")
}
func (f *fakeBackend) ListTemplates(ctx context.Context) ([]types.Template, error) {
	return nil, f.note("list_templates")
}
func (f *fakeBackend) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return f.note("delete_template")
}
func (f *fakeBackend) AppendActivity(ctx context.Context, e *types.ActivityLog) error {
	return f.note("append_activity")
}
func (f *fakeBackend) ListActivity(ctx context.Context, id uuid.UUID) ([]types.ActivityLog, error) {
	return nil, f.note("list_activity")
}

type fakeRecorder struct {
	ops  []string
	errs int
}

func (r *fakeRecorder) MirrorWrite(op string, err error) {
	r.ops = append(r.ops, op)
	if err != nil {
		r.errs++
	}
}

func newMirroredFixture(t *testing.T) (*MirroredStore, *fakeBackend, *fakeBackend, *fakeRecorder) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	primary := newFakeBackend("primary")
	secondary := newFakeBackend("secondary")
	recorder := &fakeRecorder{}
	return NewMirroredStore(primary, secondary, log, recorder), primary, secondary, recorder
}

func TestMirroredWritesReachBothStores(t *testing.T) {
	st, primary, secondary, recorder := newMirroredFixture(t)
	ctx := context.Background()

	contract := &types.Contract{ID: uuid.New(), Title: "A"}
	initial := &types.ContractVersion{ID: uuid.New()}
	if err := st.CreateContract(ctx, contract, initial); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	if len(primary.calls) != 1 || primary.calls[0] != "create_contract" {
		t.Fatalf("primary calls: got=%v", primary.calls)
	}
	if len(secondary.calls) != 1 || secondary.calls[0] != "create_contract" {
		t.Fatalf("secondary calls: got=%v", secondary.calls)
	}
	if recorder.errs != 0 {
		t.Fatalf("recorded failures: want=0 got=%d", recorder.errs)
	}

	snap := st.Stats()
	if snap.Writes != 1 || snap.Failures != 0 {
		t.Fatalf("stats: want writes=1 failures=0 got=%+v", snap)
	}
}

func TestMirroredPrimaryFailureAborts(t *testing.T) {
	st, primary, secondary, _ := newMirroredFixture(t)
	primary.err = errors.New("primary down")

	err := st.UpdateContractStatus(context.Background(), uuid.New(), types.ContractStatusReview)
	if err == nil {
		t.Fatalf("expected primary failure to propagate")
	}
	if len(secondary.calls) != 0 {
		t.Fatalf("secondary must not be written after primary failure: got=%v", secondary.calls)
	}
	if snap := st.Stats(); snap.Writes != 0 {
		t.Fatalf("stats: want writes=0 got=%+v", snap)
	}
}

func TestMirroredSecondaryFailureIsDegradedNotFatal(t *testing.T) {
	st, _, secondary, recorder := newMirroredFixture(t)
	secondary.err = errors.New("mongo down")
	ctx := context.Background()

	comment := &types.Comment{ID: uuid.New(), Content: "hola"}
	if err := st.AddComment(ctx, comment); err != nil {
		t.Fatalf("secondary failure must not surface: %v", err)
	}
	if recorder.errs != 1 {
		t.Fatalf("recorded failures: want=1 got=%d", recorder.errs)
	}

	snap := st.Stats()
	if snap.Writes != 1 || snap.Failures != 1 {
		t.Fatalf("stats: want writes=1 failures=1 got=%+v", snap)
	}
	if snap.LastError == "" {
		t.Fatalf("last error missing from snapshot")
	}
}

func TestMirroredVersionNumberFollowsPrimary(t *testing.T) {
	st, primary, secondary, _ := newMirroredFixture(t)
	ctx := context.Background()
	contractID := uuid.New()

	// Secondary is behind: it believes two versions exist already.
	primary.versions[contractID] = 4
	secondary.versions[contractID] = 2

	v := &types.ContractVersion{ID: uuid.New(), Content: "v5"}
	if err := st.CreateVersion(ctx, contractID, v); err != nil {
		t.Fatalf("create version: %v", err)
	}
	if v.VersionNumber != 5 {
		t.Fatalf("primary number: want=5 got=%d", v.VersionNumber)
	}
	if secondary.versions[contractID] != 5 {
		t.Fatalf("secondary must take the primary's number: got=%d", secondary.versions[contractID])
	}
}

func TestMirroredGetOrCreateMirrorsTheResolvedUser(t *testing.T) {
	st, _, secondary, _ := newMirroredFixture(t)

	user, err := st.GetOrCreateUserByEmail(context.Background(), "admin@example.com", "Admin User")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if user == nil || user.Email != "admin@example.com" {
		t.Fatalf("user: got=%+v", user)
	}
	if len(secondary.calls) != 1 || secondary.calls[0] != "upsert_user" {
		t.Fatalf("secondary calls: want=[upsert_user] got=%v", secondary.calls)
	}
}

func TestMirroredReadsOnlyHitPrimary(t *testing.T) {
	st, primary, secondary, _ := newMirroredFixture(t)
	ctx := context.Background()

	if _, err := st.ListContracts(ctx); err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	if _, err := st.GetContract(ctx, uuid.New()); err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if len(primary.calls) != 2 {
		t.Fatalf("primary calls: want=2 got=%v", primary.calls)
	}
	if len(secondary.calls) != 0 {
		t.Fatalf("secondary calls on read: got=%v", secondary.calls)
	}
}
