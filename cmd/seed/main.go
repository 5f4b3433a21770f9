// Command seed creates a demo account so the storefront can be exercised
// immediately after a fresh start.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/milletcart/api/internal/catalog"
	"github.com/milletcart/api/internal/config"
	"github.com/milletcart/api/internal/storage"
	"github.com/milletcart/api/internal/storage/sqlite"
	"github.com/milletcart/api/pkg/logging"
)

const (
	demoEmail    = "demo@milletcart.dev"
	demoPassword = "demo-password"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	store, err := sqlite.New(cfg.SQLitePath)
	if err != nil {
		slog.Error("open storage failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		os.Exit(1)
	}

	user := storage.User{
		ID:             uuid.New(),
		Email:          demoEmail,
		FullName:       "Demo Diner",
		HashedPassword: string(hashed),
		CreatedAt:      time.Now(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			slog.Info("demo account already exists", "email", demoEmail)
		} else {
			slog.Error("create demo account failed", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("demo account created", "email", demoEmail, "password", demoPassword)
	}

	provider := catalog.NewProvider()
	slog.Info("catalog ready",
		"items", len(provider.Items()),
		"offers", len(provider.Offers()),
		"promos", len(provider.Promos()),
	)
}
