// Command managedb administers the application database schema.
//
// Usage: managedb <init|reset|create|drop|tables|stats|migrate|health|purge-sessions>
//
// Exit codes: 0 on success, 1 on error, 130 when interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"augustlab-backend/internal/config"
	authRepo "augustlab-backend/internal/domains/auth/repository"
	"augustlab-backend/internal/infrastructure/database"
	"augustlab-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err == nil {
		fmt.Println("loaded configuration from .env")
	}
	logger.Init(os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1]); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case "init":
		if err := db.CreateTables(ctx); err != nil {
			return err
		}
		applied, err := db.Migrate(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("database initialized (%d migrations applied)\n", applied)

	case "reset":
		if err := db.DropTables(ctx); err != nil {
			return err
		}
		if err := db.CreateTables(ctx); err != nil {
			return err
		}
		fmt.Println("database reset")

	case "create":
		if err := db.CreateTables(ctx); err != nil {
			return err
		}
		fmt.Println("tables created")

	case "drop":
		if err := db.DropTables(ctx); err != nil {
			return err
		}
		fmt.Println("tables dropped")

	case "tables":
		tables, err := db.ListTables(ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			fmt.Println("no tables found")
			return nil
		}
		for _, name := range tables {
			fmt.Println(name)
		}

	case "stats":
		stats, err := db.TableStats(ctx)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-12s %d rows\n", name, stats[name])
		}

	case "migrate":
		applied, err := db.Migrate(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d migrations applied\n", applied)

	case "health":
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
		fmt.Println("database healthy")

	case "purge-sessions":
		repo := authRepo.NewPostgresRepository(db.Pool)
		purged, err := repo.PurgeExpired(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Printf("%d expired sessions purged\n", purged)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: managedb <init|reset|create|drop|tables|stats|migrate|health|purge-sessions>")
}
