package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental-backend/hospitable"
	"rental-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives every test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.Property{},
		&models.PropertyHouseRule{},
		&models.Amenity{},
		&models.PropertyAmenity{},
		&models.PropertyImage{},
		&models.PropertyReview{},
		&models.RoomDetail{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestClient spins up an httptest server for the upstream API and a
// client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *hospitable.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := hospitable.NewClient(hospitable.Config{BaseURL: srv.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
