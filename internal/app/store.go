package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/observability"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
)

// wireStore picks the persistence adapter once at startup. The mirrored
// variant uses postgres as the authoritative primary and mongo as the
// best-effort secondary.
func wireStore(log *logger.Logger, cfg Config, db *gorm.DB, clients Clients, recorder *observability.Recorder) (store.Store, *store.MirroredStore, error) {
	log.Info("Wiring store...", "backend", cfg.StoreBackend)

	switch cfg.StoreBackend {
	case BackendPostgres:
		return store.NewPostgresStore(db, log), nil, nil

	case BackendMongo:
		if clients.Mongo == nil {
			return nil, nil, fmt.Errorf("STORE_BACKEND=mongo requires MONGO_URI")
		}
		return store.NewMongoStore(clients.Mongo.Database(), log), nil, nil

	case BackendMirrored:
		if clients.Mongo == nil {
			return nil, nil, fmt.Errorf("STORE_BACKEND=mirrored requires MONGO_URI")
		}
		primary := store.NewPostgresStore(db, log)
		secondary := store.NewMongoStore(clients.Mongo.Database(), log)
		mirrored := store.NewMirroredStore(primary, secondary, log, recorder)
		return mirrored, mirrored, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
