package mongodb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pactumhq/pactum-backend/internal/pkg/envutil"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
	log    *logger.Logger
}

// New connects to the document store. MONGO_URI gates whether the secondary
// backend is available at all; callers check Configured() first.
func New(log *logger.Logger) (*Client, error) {
	clientLog := log.With("client", "MongoClient")

	uri := strings.TrimSpace(os.Getenv("MONGO_URI"))
	if uri == "" {
		return nil, fmt.Errorf("missing MONGO_URI")
	}
	dbName := envutil.Str("MONGO_DB", "pactum")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	c := &Client{client: mc, db: mc.Database(dbName), log: clientLog}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = mc.Disconnect(context.Background())
		return nil, err
	}

	clientLog.Info("Mongo connected", "db", dbName)
	return c, nil
}

// Configured reports whether the secondary document store is enabled.
func Configured() bool {
	return strings.TrimSpace(os.Getenv("MONGO_URI")) != ""
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	// users.email must be unique so concurrent get-or-create resolves to a
	// single document.
	_, err := c.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	for col, key := range map[string]string{
		"versions":     "contractId",
		"comments":     "contractId",
		"activityLogs": "contractId",
	} {
		_, err := c.db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("create %s.%s index: %w", col, key, err)
		}
	}
	return nil
}

func (c *Client) Database() *mongo.Database { return c.db }

func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
