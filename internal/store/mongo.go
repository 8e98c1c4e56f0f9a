package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/pactumhq/pactum-backend/internal/pkg/errors"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// MongoStore backs the Store contract with the document layout: a contracts
// collection carrying flattened scalars plus versionCount, and versions /
// comments / activityLogs collections keyed by contract id. Timestamps are
// RFC 3339 strings, not native BSON dates.
type MongoStore struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewMongoStore(db *mongo.Database, baseLog *logger.Logger) *MongoStore {
	return &MongoStore{db: db, log: baseLog.With("store", "MongoStore")}
}

func (s *MongoStore) Name() string { return "mongo" }

const (
	colContracts    = "contracts"
	colVersions     = "versions"
	colComments     = "comments"
	colActivityLogs = "activityLogs"
	colUsers        = "users"
	colTemplates    = "templates"
)

type signatureDoc struct {
	DataURL string `bson:"dataUrl"`
	Digest  string `bson:"digest"`
}

type contractDoc struct {
	ID           string        `bson:"_id"`
	Title        string        `bson:"title"`
	Status       string        `bson:"status"`
	Category     string        `bson:"category"`
	AuthorID     string        `bson:"authorId"`
	AuthorName   string        `bson:"authorName"`
	AssignedToID string        `bson:"assignedToId,omitempty"`
	VersionCount int           `bson:"versionCount"`
	Signature    *signatureDoc `bson:"signature,omitempty"`
	SignedAt     string        `bson:"signedAt,omitempty"`
	CreatedAt    string        `bson:"createdAt"`
	UpdatedAt    string        `bson:"updatedAt"`
}

type versionDoc struct {
	ID            string `bson:"_id"`
	ContractID    string `bson:"contractId"`
	Content       string `bson:"content"`
	VersionNumber int    `bson:"versionNumber"`
	AuthorID      string `bson:"authorId"`
	FileURL       string `bson:"fileUrl,omitempty"`
	FileName      string `bson:"fileName,omitempty"`
	CreatedAt     string `bson:"createdAt"`
}

type commentDoc struct {
	ID         string `bson:"_id"`
	VersionID  string `bson:"versionId"`
	ContractID string `bson:"contractId"`
	AuthorID   string `bson:"authorId"`
	AuthorName string `bson:"authorName"`
	Content    string `bson:"content"`
	CreatedAt  string `bson:"createdAt"`
}

type activityDoc struct {
	ID         string `bson:"_id"`
	ContractID string `bson:"contractId"`
	UserID     string `bson:"userId"`
	UserName   string `bson:"userName"`
	Action     string `bson:"action"`
	Details    string `bson:"details"`
	CreatedAt  string `bson:"createdAt"`
}

type userDoc struct {
	ID        string `bson:"_id"`
	Email     string `bson:"email"`
	Name      string `bson:"name"`
	Role      string `bson:"role"`
	CreatedAt string `bson:"createdAt"`
}

type templateDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	Content     string `bson:"content,omitempty"`
	FileURL     string `bson:"fileUrl,omitempty"`
	CreatedAt   string `bson:"createdAt"`
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime substitutes the current time for missing or malformed values,
// matching the read-repair behavior of the list endpoints.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Now()
		}
	}
	return t
}

func parseUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (d *contractDoc) toContract() types.Contract {
	c := types.Contract{
		ID:           parseUUID(d.ID),
		Title:        d.Title,
		Status:       types.ContractStatus(d.Status),
		Category:     d.Category,
		AuthorID:     parseUUID(d.AuthorID),
		Author:       &types.User{Name: d.AuthorName},
		VersionCount: d.VersionCount,
		CreatedAt:    parseTime(d.CreatedAt),
		UpdatedAt:    parseTime(d.UpdatedAt),
	}
	if d.AssignedToID != "" {
		id := parseUUID(d.AssignedToID)
		c.AssignedToID = &id
	}
	if d.SignedAt != "" {
		t := parseTime(d.SignedAt)
		c.SignedAt = &t
	}
	repairContract(&c)
	return c
}

func (d *versionDoc) toVersion() types.ContractVersion {
	return types.ContractVersion{
		ID:            parseUUID(d.ID),
		ContractID:    parseUUID(d.ContractID),
		Content:       d.Content,
		VersionNumber: d.VersionNumber,
		AuthorID:      parseUUID(d.AuthorID),
		FileURL:       strPtr(d.FileURL),
		FileName:      strPtr(d.FileName),
		CreatedAt:     parseTime(d.CreatedAt),
	}
}

func (d *commentDoc) toComment() types.Comment {
	name := d.AuthorName
	if name == "" {
		name = UnknownAuthorName
	}
	return types.Comment{
		ID:         parseUUID(d.ID),
		VersionID:  parseUUID(d.VersionID),
		ContractID: parseUUID(d.ContractID),
		AuthorID:   parseUUID(d.AuthorID),
		Author:     &types.User{Name: name},
		Content:    d.Content,
		CreatedAt:  parseTime(d.CreatedAt),
	}
}

func (s *MongoStore) ListContracts(ctx context.Context) ([]types.Contract, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.db.Collection(colContracts).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list contracts: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.Contract
	for cur.Next(ctx) {
		var d contractDoc
		if err := cur.Decode(&d); err != nil {
			s.log.Warn("Skipping malformed contract document", "error", err)
			continue
		}
		out = append(out, d.toContract())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list contracts: %v", pkgerrors.ErrStorage, err)
	}
	return out, nil
}

func (s *MongoStore) GetContract(ctx context.Context, contractID uuid.UUID) (*types.Contract, error) {
	g, gctx := errgroup.WithContext(ctx)

	var doc contractDoc
	g.Go(func() error {
		err := s.db.Collection(colContracts).FindOne(gctx, bson.D{{Key: "_id", Value: contractID.String()}}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: contract %s", pkgerrors.ErrNotFound, contractID)
		}
		if err != nil {
			return fmt.Errorf("%w: contract %s: %v", pkgerrors.ErrStorage, contractID, err)
		}
		return nil
	})

	var versions []types.ContractVersion
	g.Go(func() error {
		vs, err := s.listVersions(gctx, contractID)
		if err != nil {
			return err
		}
		versions = vs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	contract := doc.toContract()
	contract.Versions = versions
	contract.VersionCount = len(versions)
	return &contract, nil
}

func (s *MongoStore) listVersions(ctx context.Context, contractID uuid.UUID) ([]types.ContractVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "versionNumber", Value: -1}})
	cur, err := s.db.Collection(colVersions).Find(ctx, bson.D{{Key: "contractId", Value: contractID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list versions: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var versions []types.ContractVersion
	for cur.Next(ctx) {
		var d versionDoc
		if err := cur.Decode(&d); err != nil {
			s.log.Warn("Skipping malformed version document", "error", err)
			continue
		}
		versions = append(versions, d.toVersion())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list versions: %v", pkgerrors.ErrStorage, err)
	}

	comments, err := s.listCommentsByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	byVersion := map[uuid.UUID][]types.Comment{}
	for _, c := range comments {
		byVersion[c.VersionID] = append(byVersion[c.VersionID], c)
	}
	for i := range versions {
		versions[i].Comments = byVersion[versions[i].ID]
	}
	return versions, nil
}

func (s *MongoStore) listCommentsByContract(ctx context.Context, contractID uuid.UUID) ([]types.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.db.Collection(colComments).Find(ctx, bson.D{{Key: "contractId", Value: contractID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list comments: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.Comment
	for cur.Next(ctx) {
		var d commentDoc
		if err := cur.Decode(&d); err != nil {
			s.log.Warn("Skipping malformed comment document", "error", err)
			continue
		}
		out = append(out, d.toComment())
	}
	return out, cur.Err()
}

func (s *MongoStore) authorName(ctx context.Context, contract *types.Contract) string {
	if contract.Author != nil && contract.Author.Name != "" {
		return contract.Author.Name
	}
	if u, err := s.GetUser(ctx, contract.AuthorID); err == nil {
		return u.Name
	}
	return SystemActorName
}

func (s *MongoStore) CreateContract(ctx context.Context, contract *types.Contract, initial *types.ContractVersion) error {
	now := time.Now()
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = now
	}
	contract.UpdatedAt = now

	doc := contractDoc{
		ID:           contract.ID.String(),
		Title:        contract.Title,
		Status:       string(contract.Status),
		Category:     contract.Category,
		AuthorID:     contract.AuthorID.String(),
		AuthorName:   s.authorName(ctx, contract),
		VersionCount: 1,
		CreatedAt:    fmtTime(contract.CreatedAt),
		UpdatedAt:    fmtTime(contract.UpdatedAt),
	}
	if _, err := s.db.Collection(colContracts).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: create contract: %v", pkgerrors.ErrStorage, err)
	}

	initial.ContractID = contract.ID
	initial.VersionNumber = 1
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = now
	}
	if err := s.insertVersion(ctx, initial); err != nil {
		return err
	}
	contract.Versions = []types.ContractVersion{*initial}
	contract.VersionCount = 1
	return nil
}

func (s *MongoStore) insertVersion(ctx context.Context, v *types.ContractVersion) error {
	doc := versionDoc{
		ID:            v.ID.String(),
		ContractID:    v.ContractID.String(),
		Content:       v.Content,
		VersionNumber: v.VersionNumber,
		AuthorID:      v.AuthorID.String(),
		FileURL:       deref(v.FileURL),
		FileName:      deref(v.FileName),
		CreatedAt:     fmtTime(v.CreatedAt),
	}
	if _, err := s.db.Collection(colVersions).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: create version: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) CreateVersion(ctx context.Context, contractID uuid.UUID, version *types.ContractVersion) error {
	if version.VersionNumber == 0 {
		var doc contractDoc
		err := s.db.Collection(colContracts).FindOne(ctx, bson.D{{Key: "_id", Value: contractID.String()}}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: contract %s", pkgerrors.ErrNotFound, contractID)
		}
		if err != nil {
			return fmt.Errorf("%w: contract %s: %v", pkgerrors.ErrStorage, contractID, err)
		}
		version.VersionNumber = doc.VersionCount + 1
	}

	res, err := s.db.Collection(colContracts).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: contractID.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(types.ContractStatusReview)},
			{Key: "versionCount", Value: version.VersionNumber},
			{Key: "updatedAt", Value: fmtTime(time.Now())},
		}}},
	)
	if err != nil {
		return fmt.Errorf("%w: update contract %s: %v", pkgerrors.ErrStorage, contractID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: contract %s", pkgerrors.ErrNotFound, contractID)
	}

	version.ContractID = contractID
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now()
	}
	return s.insertVersion(ctx, version)
}

func (s *MongoStore) updateContract(ctx context.Context, contractID uuid.UUID, set bson.D) error {
	set = append(set, bson.E{Key: "updatedAt", Value: fmtTime(time.Now())})
	res, err := s.db.Collection(colContracts).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: contractID.String()}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return fmt.Errorf("%w: update contract %s: %v", pkgerrors.ErrStorage, contractID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: contract %s", pkgerrors.ErrNotFound, contractID)
	}
	return nil
}

func (s *MongoStore) UpdateContractStatus(ctx context.Context, contractID uuid.UUID, status types.ContractStatus) error {
	return s.updateContract(ctx, contractID, bson.D{{Key: "status", Value: string(status)}})
}

func (s *MongoStore) AssignContract(ctx context.Context, contractID uuid.UUID, userID uuid.UUID) error {
	return s.updateContract(ctx, contractID, bson.D{{Key: "assignedToId", Value: userID.String()}})
}

func (s *MongoStore) UpdateCurrentVersionContent(ctx context.Context, contractID uuid.UUID, content string) (*types.ContractVersion, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "versionNumber", Value: -1}})
	var latest versionDoc
	err := s.db.Collection(colVersions).FindOne(ctx, bson.D{{Key: "contractId", Value: contractID.String()}}, opts).Decode(&latest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: versions of contract %s", pkgerrors.ErrNotFound, contractID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: current version of %s: %v", pkgerrors.ErrStorage, contractID, err)
	}

	if _, err := s.db.Collection(colVersions).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: latest.ID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "content", Value: content}}}},
	); err != nil {
		return nil, fmt.Errorf("%w: update version %s: %v", pkgerrors.ErrStorage, latest.ID, err)
	}
	if err := s.updateContract(ctx, contractID, bson.D{}); err != nil {
		return nil, err
	}

	latest.Content = content
	v := latest.toVersion()
	return &v, nil
}

func (s *MongoStore) SignContract(ctx context.Context, contractID uuid.UUID, signature types.SignatureRecord, signedAt time.Time) error {
	return s.updateContract(ctx, contractID, bson.D{
		{Key: "status", Value: string(types.ContractStatusExecuted)},
		{Key: "signature", Value: signatureDoc{DataURL: signature.DataURL, Digest: signature.Digest}},
		{Key: "signedAt", Value: fmtTime(signedAt)},
	})
}

func (s *MongoStore) AddComment(ctx context.Context, comment *types.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	name := ""
	if comment.Author != nil {
		name = comment.Author.Name
	}
	doc := commentDoc{
		ID:         comment.ID.String(),
		VersionID:  comment.VersionID.String(),
		ContractID: comment.ContractID.String(),
		AuthorID:   comment.AuthorID.String(),
		AuthorName: name,
		Content:    comment.Content,
		CreatedAt:  fmtTime(comment.CreatedAt),
	}
	if _, err := s.db.Collection(colComments).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: add comment: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) ListRecentComments(ctx context.Context, limit int) ([]types.Comment, error) {
	if limit <= 0 {
		limit = 5
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.db.Collection(colComments).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: recent comments: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.Comment
	for cur.Next(ctx) {
		var d commentDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toComment())
	}
	return out, cur.Err()
}

func (s *MongoStore) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	var doc userDoc
	err := s.db.Collection(colUsers).FindOne(ctx, bson.D{{Key: "_id", Value: userID.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user %s", pkgerrors.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: user %s: %v", pkgerrors.ErrStorage, userID, err)
	}
	u := doc.toUser()
	return &u, nil
}

func (d *userDoc) toUser() types.User {
	return types.User{
		ID:        parseUUID(d.ID),
		Email:     d.Email,
		Name:      d.Name,
		Role:      types.UserRole(d.Role),
		CreatedAt: parseTime(d.CreatedAt),
	}
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]types.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.db.Collection(colUsers).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.User
	for cur.Next(ctx) {
		var d userDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toUser())
	}
	return out, cur.Err()
}

// GetOrCreateUserByEmail is an atomic conditional create: the unique index
// on email plus the upsert close the read-then-write race of concurrent
// first requests.
func (s *MongoStore) GetOrCreateUserByEmail(ctx context.Context, email, name string) (*types.User, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "_id", Value: uuid.New().String()},
		{Key: "email", Value: email},
		{Key: "name", Value: name},
		{Key: "role", Value: string(types.UserRoleAdmin)},
		{Key: "createdAt", Value: fmtTime(time.Now())},
	}}}

	var doc userDoc
	err := s.db.Collection(colUsers).FindOneAndUpdate(ctx, bson.D{{Key: "email", Value: email}}, update, opts).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: get or create user %s: %v", pkgerrors.ErrStorage, email, err)
	}
	u := doc.toUser()
	return &u, nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, user *types.User) error {
	doc := userDoc{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: fmtTime(user.CreatedAt),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(colUsers).ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, opts); err != nil {
		return fmt.Errorf("%w: upsert user %s: %v", pkgerrors.ErrStorage, user.Email, err)
	}
	return nil
}

func (s *MongoStore) CreateTemplate(ctx context.Context, template *types.Template) error {
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now()
	}
	doc := templateDoc{
		ID:          template.ID.String(),
		Name:        template.Name,
		Description: template.Description,
		Content:     template.Content,
		FileURL:     deref(template.FileURL),
		CreatedAt:   fmtTime(template.CreatedAt),
	}
	if _, err := s.db.Collection(colTemplates).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: create template: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (d *templateDoc) toTemplate() types.Template {
	return types.Template{
		ID:          parseUUID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Content:     d.Content,
		FileURL:     strPtr(d.FileURL),
		CreatedAt:   parseTime(d.CreatedAt),
	}
}

func (s *MongoStore) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.Template, error) {
	var doc templateDoc
	err := s.db.Collection(colTemplates).FindOne(ctx, bson.D{{Key: "_id", Value: templateID.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: template %s", pkgerrors.ErrNotFound, templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", pkgerrors.ErrStorage, templateID, err)
	}
	t := doc.toTemplate()
	return &t, nil
}

func (s *MongoStore) ListTemplates(ctx context.Context) ([]types.Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.db.Collection(colTemplates).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list templates: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.Template
	for cur.Next(ctx) {
		var d templateDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toTemplate())
	}
	return out, cur.Err()
}

func (s *MongoStore) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	res, err := s.db.Collection(colTemplates).DeleteOne(ctx, bson.D{{Key: "_id", Value: templateID.String()}})
	if err != nil {
		return fmt.Errorf("%w: delete template %s: %v", pkgerrors.ErrStorage, templateID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: template %s", pkgerrors.ErrNotFound, templateID)
	}
	return nil
}

func (s *MongoStore) AppendActivity(ctx context.Context, entry *types.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	name := entry.UserName
	if name == "" {
		name = SystemActorName
	}
	doc := activityDoc{
		ID:         entry.ID.String(),
		ContractID: entry.ContractID.String(),
		UserID:     entry.UserID.String(),
		UserName:   name,
		Action:     string(entry.Action),
		Details:    entry.Details,
		CreatedAt:  fmtTime(entry.CreatedAt),
	}
	if _, err := s.db.Collection(colActivityLogs).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: append activity: %v", pkgerrors.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) ListActivity(ctx context.Context, contractID uuid.UUID) ([]types.ActivityLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.db.Collection(colActivityLogs).Find(ctx, bson.D{{Key: "contractId", Value: contractID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list activity: %v", pkgerrors.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []types.ActivityLog
	for cur.Next(ctx) {
		var d activityDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, types.ActivityLog{
			ID:         parseUUID(d.ID),
			ContractID: parseUUID(d.ContractID),
			UserID:     parseUUID(d.UserID),
			UserName:   d.UserName,
			Action:     types.ActivityAction(d.Action),
			Details:    d.Details,
			CreatedAt:  parseTime(d.CreatedAt),
		})
	}
	return out, cur.Err()
}
