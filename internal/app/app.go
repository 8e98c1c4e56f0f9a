package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/db"
	"github.com/pactumhq/pactum-backend/internal/observability"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Store    store.Store
	Services Services
	clients  Clients
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	var theDB *gorm.DB
	if cfg.StoreBackend != BackendMongo {
		pg, err := db.NewPostgresService(log)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.AutoMigrateAll(); err != nil {
			log.Sync()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		theDB = pg.DB()
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	recorder := observability.NewRecorder()
	st, mirrored, err := wireStore(log, cfg, theDB, clients, recorder)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(log, st, clients, recorder)
	handlerset := wireHandlers(log, serviceset, st, mirrored)
	router := wireRouter(log, handlerset, serviceset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Store:    st,
		Services: serviceset,
		clients:  clients,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting server...", "addr", a.Cfg.Addr, "store", a.Store.Name())
	return a.Router.Run(a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
