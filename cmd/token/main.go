// Command token issues bearer credentials for local use and operations.
//
//	token -email owner@example.com                    # existing user
//	token -register -email owner@example.com -name Al # new tenant owner
//	token -user 3f0c...                               # by user id
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		email    string
		name     string
		userID   string
		register bool
		logLevel string
	)
	flag.StringVar(&email, "email", "", "Email of the user to issue a token for")
	flag.StringVar(&name, "name", "", "Display name of the owner to register")
	flag.StringVar(&userID, "user", "", "ID of the user to issue a token for")
	flag.BoolVar(&register, "register", false, "Register a new tenant owner with -email and -name")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Issuing never consults the revocation list.
	service := identityapp.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		auth.NewJWTService(cfg.JWT),
		auth.NewInMemoryTokenBlacklist(),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var issued *identityapp.IssuedToken
	switch {
	case register:
		if email == "" || name == "" {
			log.Fatal("-register needs -email and -name")
		}
		issued, err = service.RegisterOwner(ctx, email, name)
	case userID != "":
		id, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			log.Fatal("Invalid -user", zap.Error(parseErr))
		}
		issued, err = service.IssueForUser(ctx, id)
	case email != "":
		issued, err = service.IssueForEmail(ctx, email)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(issued); err != nil {
		log.Fatal("Failed to write token", zap.Error(err))
	}
}
