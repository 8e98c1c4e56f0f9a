package app

import (
	"os"

	"github.com/pactumhq/pactum-backend/internal/clients/gcs"
	"github.com/pactumhq/pactum-backend/internal/clients/mongodb"
	"github.com/pactumhq/pactum-backend/internal/clients/rediscache"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

// Clients holds the optional platform integrations. Each is nil when its
// environment is absent; the services degrade around missing ones.
type Clients struct {
	Mongo  *mongodb.Client
	Bucket gcs.BucketService
	Cache  rediscache.ViewCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var clients Clients

	if mongodb.Configured() {
		mongoClient, err := mongodb.New(log)
		if err != nil {
			// Mongo is required when it is the primary or the mirror.
			if cfg.StoreBackend != BackendPostgres {
				return Clients{}, err
			}
			log.Warn("Mongo configured but unreachable, continuing without it", "error", err)
		} else {
			clients.Mongo = mongoClient
		}
	}

	if os.Getenv("CONTRACT_GCS_BUCKET_NAME") != "" {
		bucket, err := gcs.NewBucketService(log)
		if err != nil {
			log.Warn("Bucket unavailable, uploads fall back to local storage", "error", err)
		} else {
			clients.Bucket = bucket
		}
	}

	if os.Getenv("REDIS_ADDR") != "" {
		cache, err := rediscache.New(log)
		if err != nil {
			log.Warn("Redis unavailable, continuing without the view cache", "error", err)
		} else {
			clients.Cache = cache
		}
	}

	return clients, nil
}

func (c Clients) Close() {
	if c.Mongo != nil {
		_ = c.Mongo.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
