package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/db"
	"github.com/pactumhq/pactum-backend/internal/pkg/logger"
	"github.com/pactumhq/pactum-backend/internal/store"
	"github.com/pactumhq/pactum-backend/internal/types"
)

// Seeds the baseline identities: the admin the app acts as, and a legal
// reviewer to assign contracts to. Safe to run repeatedly.
func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	st := store.NewPostgresStore(pg.DB(), log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := []types.User{
		{ID: uuid.New(), Email: "admin@example.com", Name: "Admin User", Role: types.UserRoleAdmin},
		{ID: uuid.New(), Email: "legal@example.com", Name: "Legal Team", Role: types.UserRoleLegal},
	}
	for i := range users {
		existing, err := st.GetOrCreateUserByEmail(ctx, users[i].Email, users[i].Name)
		if err != nil {
			log.Fatal("Seed user failed", "email", users[i].Email, "error", err)
		}
		if existing.Role != users[i].Role {
			existing.Role = users[i].Role
			if err := st.UpsertUser(ctx, existing); err != nil {
				log.Fatal("Seed role update failed", "email", users[i].Email, "error", err)
			}
		}
		log.Info("Seeded user", "email", existing.Email, "role", existing.Role)
	}
}
