package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// The schema is created by hand because the production column defaults
// (uuid_generate_v4, now) are postgres-only. Every code path under test
// assigns IDs and timestamps itself, so the defaults are never needed.
var testSchema = []string{
	`CREATE TABLE "user" (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'USER',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE contract (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		category TEXT NOT NULL DEFAULT 'General',
		author_id TEXT NOT NULL,
		assigned_to_id TEXT,
		signature TEXT,
		signed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE contract_version (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		content TEXT,
		version_number INTEGER NOT NULL,
		author_id TEXT NOT NULL,
		file_url TEXT,
		file_name TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE comment (
		id TEXT PRIMARY KEY,
		version_id TEXT NOT NULL,
		contract_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE template (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		content TEXT,
		file_url TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE activity_log (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		user_name TEXT,
		action TEXT NOT NULL,
		details TEXT,
		created_at DATETIME
	)`,
}

func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	for _, ddl := range testSchema {
		if err := gdb.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewPostgresStore(gdb, log)
}

func seedUser(t *testing.T, st *PostgresStore, email, name string) *types.User {
	t.Helper()
	user := &types.User{ID: uuid.New(), Email: email, Name: name, Role: types.UserRoleAdmin}
	if err := st.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedContract(t *testing.T, st *PostgresStore, author *types.User, title, category string) *types.Contract {
	t.Helper()
	contract := &types.Contract{
		ID:       uuid.New(),
		Title:    title,
		Status:   types.ContractStatusDraft,
		Category: category,
		AuthorID: author.ID,
	}
	initial := &types.ContractVersion{
		ID:       uuid.New(),
		Content:  "v1 text",
		AuthorID: author.ID,
	}
	if err := st.CreateContract(context.Background(), contract, initial); err != nil {
		t.Fatalf("create contract: %v", err)
	}
	return contract
}

func TestCreateContractHasSingleInitialVersion(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")

	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if got.Status != types.ContractStatusDraft {
		t.Fatalf("status: want=%v got=%v", types.ContractStatusDraft, got.Status)
	}
	if got.Category != "Legal" {
		t.Fatalf("category: want=Legal got=%v", got.Category)
	}
	if len(got.Versions) != 1 {
		t.Fatalf("versions: want=1 got=%d", len(got.Versions))
	}
	if got.Versions[0].VersionNumber != 1 {
		t.Fatalf("version number: want=1 got=%d", got.Versions[0].VersionNumber)
	}
}

func TestCreateVersionNumbersAreContiguous(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")
	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	for i := 0; i < 4; i++ {
		v := &types.ContractVersion{ID: uuid.New(), Content: "more text", AuthorID: author.ID}
		if err := st.CreateVersion(ctx, contract.ID, v); err != nil {
			t.Fatalf("create version %d: %v", i, err)
		}
	}

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if len(got.Versions) != 5 {
		t.Fatalf("versions: want=5 got=%d", len(got.Versions))
	}
	// Newest first.
	for i, v := range got.Versions {
		want := 5 - i
		if v.VersionNumber != want {
			t.Fatalf("version order at %d: want=%d got=%d", i, want, v.VersionNumber)
		}
	}
}

func TestCreateVersionResetsStatusToReview(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")

	for _, prior := range []types.ContractStatus{
		types.ContractStatusDraft,
		types.ContractStatusReview,
		types.ContractStatusApproved,
		types.ContractStatusRejected,
	} {
		contract := seedContract(t, st, author, "Agreement "+string(prior), "General")
		if err := st.UpdateContractStatus(ctx, contract.ID, prior); err != nil {
			t.Fatalf("set status %v: %v", prior, err)
		}

		v := &types.ContractVersion{ID: uuid.New(), Content: "v2 text", AuthorID: author.ID}
		if err := st.CreateVersion(ctx, contract.ID, v); err != nil {
			t.Fatalf("create version from %v: %v", prior, err)
		}

		got, err := st.GetContract(ctx, contract.ID)
		if err != nil {
			t.Fatalf("get contract: %v", err)
		}
		if got.Status != types.ContractStatusReview {
			t.Fatalf("status after version from %v: want=REVIEW got=%v", prior, got.Status)
		}
	}
}

func TestCreateVersionPreservesOlderContent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")
	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	v2 := &types.ContractVersion{ID: uuid.New(), Content: "v2 text", AuthorID: author.ID}
	if err := st.CreateVersion(ctx, contract.ID, v2); err != nil {
		t.Fatalf("create version: %v", err)
	}

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if got.Versions[0].Content != "v2 text" {
		t.Fatalf("v2 content: want=%q got=%q", "v2 text", got.Versions[0].Content)
	}
	if got.Versions[1].Content != "v1 text" {
		t.Fatalf("v1 content: want=%q got=%q", "v1 text", got.Versions[1].Content)
	}
}

func TestCreateVersionUnknownContract(t *testing.T) {
	st := newTestStore(t)
	v := &types.ContractVersion{ID: uuid.New(), Content: "text", AuthorID: uuid.New()}
	err := st.CreateVersion(context.Background(), uuid.New(), v)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("error: want=ErrNotFound got=%v", err)
	}
}

func TestUpdateCurrentVersionContentTouchesOnlyLatest(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")
	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	v2 := &types.ContractVersion{ID: uuid.New(), Content: "v2 text", AuthorID: author.ID}
	if err := st.CreateVersion(ctx, contract.ID, v2); err != nil {
		t.Fatalf("create version: %v", err)
	}

	updated, err := st.UpdateCurrentVersionContent(ctx, contract.ID, "edited")
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if updated.VersionNumber != 2 {
		t.Fatalf("updated version: want=2 got=%d", updated.VersionNumber)
	}

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if len(got.Versions) != 2 {
		t.Fatalf("versions: want=2 got=%d (editing must not add a version)", len(got.Versions))
	}
	if got.Versions[0].Content != "edited" {
		t.Fatalf("latest content: want=edited got=%q", got.Versions[0].Content)
	}
	if got.Versions[1].Content != "v1 text" {
		t.Fatalf("older content changed: got=%q", got.Versions[1].Content)
	}
}

func TestSignContractPersistsSignature(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")
	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	sig := types.SignatureRecord{DataURL: "data:image/png;base64,xyz", Digest: "abc123"}
	signedAt := time.Now().UTC()
	if err := st.SignContract(ctx, contract.ID, sig, signedAt); err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if got.Status != types.ContractStatusExecuted {
		t.Fatalf("status: want=EXECUTED got=%v", got.Status)
	}
	if got.SignedAt == nil {
		t.Fatalf("signed_at not persisted")
	}
	if len(got.Signature) == 0 {
		t.Fatalf("signature not persisted")
	}
}

func TestGetOrCreateUserByEmailIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.GetOrCreateUserByEmail(ctx, "admin@example.com", "Admin User")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := st.GetOrCreateUserByEmail(ctx, "admin@example.com", "Someone Else")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("user id: want=%v got=%v", first.ID, second.ID)
	}
	if second.Name != "Admin User" {
		t.Fatalf("name overwritten: got=%q", second.Name)
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users: want=1 got=%d", len(users))
	}
}

func TestCommentStaysOnItsVersion(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")
	contract := seedContract(t, st, author, "Service Agreement", "Legal")

	v2 := &types.ContractVersion{ID: uuid.New(), Content: "v2 text", AuthorID: author.ID}
	if err := st.CreateVersion(ctx, contract.ID, v2); err != nil {
		t.Fatalf("create version: %v", err)
	}

	got, err := st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	v1ID := got.Versions[1].ID

	comment := &types.Comment{
		ID:         uuid.New(),
		VersionID:  v1ID,
		ContractID: contract.ID,
		AuthorID:   author.ID,
		Content:    "needs a clause",
	}
	if err := st.AddComment(ctx, comment); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	got, err = st.GetContract(ctx, contract.ID)
	if err != nil {
		t.Fatalf("get contract: %v", err)
	}
	if len(got.Versions[0].Comments) != 0 {
		t.Fatalf("v2 comments: want=0 got=%d", len(got.Versions[0].Comments))
	}
	if len(got.Versions[1].Comments) != 1 {
		t.Fatalf("v1 comments: want=1 got=%d", len(got.Versions[1].Comments))
	}
}

func TestListContractsFillsVersionCounts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	author := seedUser(t, st, "admin@example.com", "Admin User")

	a := seedContract(t, st, author, "A", "General")
	b := seedContract(t, st, author, "B", "General")
	v2 := &types.ContractVersion{ID: uuid.New(), Content: "v2", AuthorID: author.ID}
	if err := st.CreateVersion(ctx, b.ID, v2); err != nil {
		t.Fatalf("create version: %v", err)
	}

	contracts, err := st.ListContracts(ctx)
	if err != nil {
		t.Fatalf("list contracts: %v", err)
	}
	counts := map[uuid.UUID]int{}
	for _, c := range contracts {
		counts[c.ID] = c.VersionCount
	}
	if counts[a.ID] != 1 {
		t.Fatalf("count for a: want=1 got=%d", counts[a.ID])
	}
	if counts[b.ID] != 2 {
		t.Fatalf("count for b: want=2 got=%d", counts[b.ID])
	}
}

func TestTemplateDeleteUnknownID(t *testing.T) {
	st := newTestStore(t)
	err := st.DeleteTemplate(context.Background(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("error: want=ErrNotFound got=%v", err)
	}
}
