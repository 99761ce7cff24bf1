// Command manageproducts inspects and maintains the product bundle store.
//
// Usage: manageproducts <list|verify|stats|detail <id>|cleanup [-y]>
//
// cleanup without -y only reports orphaned directories; with -y it removes
// them. Exit codes: 0 on success, 1 on error, 130 when interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"augustlab-backend/internal/config"
	"augustlab-backend/internal/domains/product"
	productRepo "augustlab-backend/internal/domains/product/repository"
	"augustlab-backend/internal/infrastructure/database"
	"augustlab-backend/internal/infrastructure/filestore"
	"augustlab-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()

	repo := productRepo.NewProductRepository(db.Pool)
	store := filestore.New(cfg.Upload.ProductsDir, cfg.Upload.MaxBundleSize)

	switch command {
	case "list":
		return list(ctx, repo, store)
	case "verify":
		return verify(ctx, repo, store)
	case "stats":
		return stats(ctx, repo, store)
	case "detail":
		if len(args) < 1 {
			return fmt.Errorf("detail requires a product id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		return detail(ctx, repo, store, id)
	case "cleanup":
		apply := len(args) > 0 && args[0] == "-y"
		return cleanup(ctx, repo, store, apply)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func list(ctx context.Context, repo product.Repository, store *filestore.Store) error {
	products, err := repo.List(ctx, &product.ListQuery{IncludeDrafts: true})
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("no products in catalogue")
		return nil
	}
	for _, p := range products {
		uploaded := "no bundle"
		if store.Exists(p.ID) {
			uploaded = "bundle present"
		}
		published := "draft"
		if p.IsPublished {
			published = "published"
		}
		fmt.Printf("%4d  %-10s %-9s %-14s %s\n", p.ID, p.ProductType, published, uploaded, p.Title)
	}
	return nil
}

func verify(ctx context.Context, repo product.Repository, store *filestore.Store) error {
	products, err := repo.List(ctx, &product.ListQuery{IncludeDrafts: true})
	if err != nil {
		return err
	}
	failures := 0
	for _, p := range products {
		ok, message := store.Verify(p.ID, p.EntryFile)
		if ok {
			fmt.Printf("%4d  ok\n", p.ID)
			continue
		}
		failures++
		fmt.Printf("%4d  FAIL: %s\n", p.ID, message)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d products failed verification", failures, len(products))
	}
	return nil
}

func stats(ctx context.Context, repo product.Repository, store *filestore.Store) error {
	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return err
	}
	count, totalSize, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("catalogue entries:  %d\n", len(ids))
	fmt.Printf("bundle directories: %d\n", count)
	fmt.Printf("total bundle size:  %d bytes\n", totalSize)
	return nil
}

func detail(ctx context.Context, repo product.Repository, store *filestore.Store, id int) error {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("id:           %d\n", p.ID)
	fmt.Printf("title:        %s\n", p.Title)
	fmt.Printf("type:         %s\n", p.ProductType)
	fmt.Printf("entry file:   %s\n", p.EntryFile)
	fmt.Printf("version:      %s\n", p.Version)
	fmt.Printf("published:    %v\n", p.IsPublished)

	listing, err := store.List(id)
	if err != nil {
		fmt.Println("bundle:       none")
		return nil
	}
	fmt.Printf("bundle:       %d files, %d bytes\n", len(listing.Files), listing.TotalSize)
	for _, f := range listing.Files {
		fmt.Printf("  %10d  %s\n", f.Size, f.Path)
	}
	return nil
}

func cleanup(ctx context.Context, repo product.Repository, store *filestore.Store, apply bool) error {
	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return err
	}
	known := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}

	orphans, err := store.FindOrphans(known)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Println("no orphaned directories")
		return nil
	}

	for _, name := range orphans {
		if !apply {
			fmt.Printf("orphan: %s (dry run, pass -y to remove)\n", name)
			continue
		}
		id, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		if err := store.Delete(id); err != nil {
			return err
		}
		fmt.Printf("removed orphan %s\n", name)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: manageproducts <list|verify|stats|detail <id>|cleanup [-y]>")
}
