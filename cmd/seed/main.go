package main

import (
	"context"
	"flag"
	"log"

	"cloudshare/internal/config"
	models "cloudshare/internal/domain/models/vfs"
	"cloudshare/internal/repository"
	"cloudshare/internal/repository/snapshot"
	"cloudshare/internal/service/vfs"

	"github.com/joho/godotenv"
)

func main() {
	clearData := flag.Bool("clear-data", false, "Remove every file, folder and share before seeding")
	clearOnly := flag.Bool("clear-only", false, "Clear data and exit without seeding (implies --clear-data)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*clearData || *clearOnly) {
		log.Fatalf("🚫 BLOCKED: Cannot clear data in production environment")
	}
	if cfg.StoreBackend == config.BackendMemory {
		log.Fatalf("Nothing to seed: the memory backend does not outlive this process")
	}

	logger, logCloser, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer store.Close()

	repo := snapshot.NewRepository(store, snapshot.NewKeys(cfg.KeyPrefix), logger)

	if *clearData || *clearOnly {
		log.Printf("🧹 Clearing data (backend: %s, key prefix: %q)", cfg.StoreBackend, cfg.KeyPrefix)
		if err := repo.SaveEntries(ctx, []models.Entry{}); err != nil {
			log.Fatalf("Failed to clear entries: %v", err)
		}
		if err := repo.SaveShares(ctx, []models.ShareRecord{}); err != nil {
			log.Fatalf("Failed to clear shares: %v", err)
		}
		log.Println("✅ Data cleared")
		if *clearOnly {
			return
		}
	}

	files := vfs.NewFilesystemService(repo, vfs.UUIDGenerator{}, logger)
	n, err := files.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load entries: %v", err)
	}
	if n > 0 {
		log.Printf("ℹ️  Store already holds %d entries; skipping seed (use --clear-data to start over)", n)
		return
	}

	log.Printf("🌱 Seeding demo data (backend: %s)", cfg.StoreBackend)
	if _, err := files.SeedDemoData(ctx); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Printf("✅ Seeded %d files", files.Count())
}
