package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pactumhq/pactum-backend/internal/pkg/envutil"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.Str("POSTGRES_HOST", "localhost")
	postgresPort := envutil.Str("POSTGRES_PORT", "5432")
	postgresUser := envutil.Str("POSTGRES_USER", "postgres")
	postgresPassword := envutil.Str("POSTGRES_PASSWORD", "")
	postgresName := envutil.Str("POSTGRES_NAME", "pactum")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...", "host", postgresHost, "db", postgresName)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Contract{},
		&types.ContractVersion{},
		&types.Comment{},
		&types.Template{},
		&types.ActivityLog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	stmts := []string{
		`ALTER TABLE "contract" ADD CONSTRAINT "fk_contract_author_id" FOREIGN KEY ("author_id") REFERENCES "user"("id")`,
		`ALTER TABLE "contract_version" ADD CONSTRAINT "fk_contract_version_contract_id" FOREIGN KEY ("contract_id") REFERENCES "contract"("id") ON DELETE CASCADE`,
		`ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_version_id" FOREIGN KEY ("version_id") REFERENCES "contract_version"("id") ON DELETE CASCADE`,
		`ALTER TABLE "activity_log" ADD CONSTRAINT "fk_activity_log_contract_id" FOREIGN KEY ("contract_id") REFERENCES "contract"("id") ON DELETE CASCADE`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			// Re-running migrations hits existing constraints; only log.
			s.log.Debug("Constraint statement skipped", "error", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
