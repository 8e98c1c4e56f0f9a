package app

import (
	"github.com/pactumhq/pactum-backend/internal/pkg/envutil"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
)

// StoreBackend selects which persistence adapter serves the process.
type StoreBackend string

const (
	BackendPostgres StoreBackend = "postgres"
	BackendMongo    StoreBackend = "mongo"
	BackendMirrored StoreBackend = "mirrored"
)

type Config struct {
	Addr         string
	StoreBackend StoreBackend
}

func LoadConfig(log *logger.Logger) Config {
	backend := StoreBackend(envutil.Str("STORE_BACKEND", string(BackendPostgres)))
	switch backend {
	case BackendPostgres, BackendMongo, BackendMirrored:
	default:
		log.Warn("Unknown STORE_BACKEND, falling back to postgres", "value", backend)
		backend = BackendPostgres
	}
	return Config{
		Addr:         envutil.Str("SERVER_ADDR", ":8080"),
		StoreBackend: backend,
	}
}
