package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"rental-backend/config"
	"rental-backend/controllers"
	"rental-backend/hospitable"
	"rental-backend/routes"
	"rental-backend/services"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "sync-properties":
			runPropertySync(cfg, db, os.Args[2:])
			return
		case "sync-reviews":
			runReviewSync(cfg, db, os.Args[2:])
			return
		}
	}

	serve(cfg, db)
}

func serve(cfg *config.Config, db *gorm.DB) {
	propertyService := services.NewPropertyService(db)
	amenityService := services.NewAmenityService(db)

	propertyController := controllers.NewPropertyController(propertyService)
	amenityController := controllers.NewAmenityController(amenityService)

	router := routes.SetupRouter(propertyController, amenityController, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newHospitableClient(cfg *config.Config) *hospitable.Client {
	client, err := hospitable.NewClient(hospitable.Config{
		BaseURL: cfg.HospitableAPIURL,
		APIKey:  cfg.HospitableAPIKey,
	})
	if err != nil {
		log.Fatalf("❌ %v. Set HOSPITABLE_API_URL and HOSPITABLE_API_KEY.", err)
	}
	return client
}

func runPropertySync(cfg *config.Config, db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("sync-properties", flag.ExitOnError)
	page := fs.Int("page", 1, "first page to fetch")
	perPage := fs.Int("per-page", 100, "records per page")
	all := fs.Bool("all", false, "follow pagination to the end")
	include := fs.String("include", "", "upstream include parameter")
	fs.Parse(args)

	client := newHospitableClient(cfg)
	syncService := services.NewPropertySyncService(db, client)

	log.Println("Starting property sync...")
	result, err := syncService.Sync(services.PropertySyncOptions{
		Page:     *page,
		PerPage:  *perPage,
		FetchAll: *all,
		Include:  *include,
	})
	printSyncSummary("Property sync", result)
	if err != nil {
		if errors.Is(err, hospitable.ErrPageLimitExceeded) {
			log.Printf("⚠️  %v", err)
		} else {
			log.Printf("❌ Property sync failed: %v", err)
		}
		os.Exit(1)
	}
}

func runReviewSync(cfg *config.Config, db *gorm.DB, args []string) {
	fs := flag.NewFlagSet("sync-reviews", flag.ExitOnError)
	propertyID := fs.String("property", "", "sync a single property id")
	perPage := fs.Int("per-page", 100, "records per page")
	fs.Parse(args)

	client := newHospitableClient(cfg)
	syncService := services.NewReviewSyncService(db, client)

	log.Println("Starting review sync...")
	var (
		result *services.SyncResult
		err    error
	)
	if *propertyID != "" {
		result, err = syncService.SyncProperty(*propertyID, *perPage)
	} else {
		result, err = syncService.SyncAll(*perPage)
	}
	printSyncSummary("Review sync", result)
	if err != nil {
		log.Printf("❌ Review sync failed: %v", err)
		os.Exit(1)
	}
}

func printSyncSummary(label string, result *services.SyncResult) {
	if result == nil {
		return
	}
	log.Printf("%s complete. Total synced: %d (created: %d, updated: %d, errors: %d)",
		label, result.Synced, result.Created, result.Updated, result.Errors)
}
