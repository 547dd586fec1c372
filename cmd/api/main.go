package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"questsheet/api/internal/app"
	"questsheet/api/internal/archive"
	"questsheet/api/internal/config"
	"questsheet/api/internal/importer"
	"questsheet/api/internal/ratelimit"
	"questsheet/api/internal/search"
	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var persister sheet.Persister
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()

		if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		persister = store.NewPostgresStore(db)
		log.Printf("Using PostgreSQL persistence")
	} else {
		persister = store.NewMemoryStore()
		log.Printf("Using in-memory persistence")
	}

	sh := sheet.New(persister)
	if err := sh.Load(ctx); err != nil {
		log.Fatalf("load sheet: %v", err)
	}

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewLocal(sh))

	var limiter *ratelimit.Limiter
	if strings.TrimSpace(cfg.RedisURL) != "" {
		var err error
		limiter, err = ratelimit.New(cfg.RedisURL, cfg.RateLimitWindow, cfg.RateLimitMax)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer limiter.Close()
		log.Printf("Rate limiting enabled: %d requests per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	var archiver app.Archiver
	if strings.TrimSpace(cfg.ArchiveEndpoint) != "" {
		arc, err := archive.New(ctx, cfg.ArchiveEndpoint, cfg.ArchiveAccessKey, cfg.ArchiveSecretKey, cfg.ArchiveBucket, cfg.ArchiveUseSSL)
		if err != nil {
			log.Fatalf("archive connection failed: %v", err)
		}
		archiver = arc
		log.Printf("Export archival enabled: bucket %s", cfg.ArchiveBucket)
	}

	service := app.NewService(sh, persister, searchService, archiver, importer.New(sh), importer.NewClient(cfg.ExternalSheetURL))
	service.ReindexAll()

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, limiter)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("QuestSheet API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
