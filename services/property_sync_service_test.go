package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"rental-backend/hospitable"
	"rental-backend/models"

	"gorm.io/gorm"
)

// syncFixture serves the upstream property and image endpoints from
// mutable in-memory state so tests can change payloads between runs.
type syncFixture struct {
	properties []map[string]any
	images     map[string][]any // property id -> pages flattened
	imagePages map[string][][]any
	imageFail  map[string]bool
}

func (f *syncFixture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if strings.HasSuffix(path, "/images") {
			parts := strings.Split(strings.Trim(path, "/"), "/")
			propertyID := parts[1]

			if f.imageFail[propertyID] {
				http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
				return
			}

			page := 1
			fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)

			if pages, ok := f.imagePages[propertyID]; ok {
				if page > len(pages) {
					json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"data": pages[page-1],
					"meta": map[string]any{"current_page": page, "last_page": len(pages)},
				})
				return
			}

			records := f.images[propertyID]
			if page > 1 {
				records = []any{}
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": records,
				"meta": map[string]any{"current_page": page, "last_page": 1},
			})
			return
		}

		records := make([]any, len(f.properties))
		for i, p := range f.properties {
			records[i] = p
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": records,
			"meta": map[string]any{"current_page": 1, "last_page": 1},
		})
	})
}

func propertyRecord(id, name string) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   name,
		"listed": true,
		"house_rules": map[string]any{
			"pets_allowed":    true,
			"smoking_allowed": nil,
		},
		"amenities":    []any{"WiFi", "Pool"},
		"room_details": []any{map[string]any{"type": "bedroom", "beds": []any{map[string]any{"type": "queen", "quantity": 1}}}},
	}
}

func TestSyncCreatesThenUpdates(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{propertyRecord("p1", "Seaside Flat")},
		images:     map[string][]any{"p1": {"https://cdn/1.jpg", "https://cdn/2.jpg"}},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	result, err := svc.Sync(PropertySyncOptions{FetchAll: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 1 || result.Created != 1 || result.Updated != 0 || result.Errors != 0 {
		t.Fatalf("first run: %+v", result)
	}

	var property models.Property
	if err := db.Preload("HouseRules").Preload("Amenities").Preload("Images").Preload("RoomDetails").
		First(&property, "id = ?", "p1").Error; err != nil {
		t.Fatalf("load property: %v", err)
	}
	if property.Name != "Seaside Flat" || !property.Listed {
		t.Fatalf("property = %+v", property)
	}
	if property.HouseRules == nil || !property.HouseRules.PetsAllowed || property.HouseRules.SmokingAllowed {
		t.Fatalf("house rules = %+v", property.HouseRules)
	}
	if len(property.Amenities) != 2 {
		t.Fatalf("got %d amenities, want 2", len(property.Amenities))
	}
	if len(property.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(property.Images))
	}
	if len(property.RoomDetails) != 1 {
		t.Fatalf("got %d room details, want 1", len(property.RoomDetails))
	}

	// second run with changed name: updated, not created
	fixture.properties[0]["name"] = "Seaside Flat Renamed"
	result, err = svc.Sync(PropertySyncOptions{FetchAll: true})
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if result.Created != 0 || result.Updated != 1 {
		t.Fatalf("second run: %+v", result)
	}

	db.First(&property, "id = ?", "p1")
	if property.Name != "Seaside Flat Renamed" {
		t.Fatalf("name = %q after resync", property.Name)
	}

	var count int64
	db.Model(&models.Property{}).Count(&count)
	if count != 1 {
		t.Fatalf("got %d property rows, want 1", count)
	}
}

func TestSyncFullyReplacesImages(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{propertyRecord("p1", "Flat")},
		images:     map[string][]any{"p1": {"https://cdn/1.jpg", "https://cdn/2.jpg", "https://cdn/3.jpg"}},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	fixture.images["p1"] = []any{"https://cdn/new.jpg"}
	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	var images []models.PropertyImage
	db.Where("property_id = ?", "p1").Order("`order` ASC").Find(&images)
	if len(images) != 1 {
		t.Fatalf("got %d images, want full replacement to 1", len(images))
	}
	if images[0].URL != "https://cdn/new.jpg" || !images[0].IsPrimary || images[0].Order != 0 {
		t.Fatalf("image = %+v", images[0])
	}
}

func TestSyncDedupsImagesAcrossPages(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{propertyRecord("p1", "Flat")},
		imagePages: map[string][][]any{
			"p1": {
				{map[string]any{"url": "https://cdn/a.jpg", "caption": "first caption"}, "https://cdn/b.jpg"},
				{map[string]any{"url": "https://cdn/a.jpg", "caption": "second caption"}, "https://cdn/c.jpg"},
			},
		},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var images []models.PropertyImage
	db.Where("property_id = ?", "p1").Order("`order` ASC").Find(&images)
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3 after dedup", len(images))
	}
	if images[0].URL != "https://cdn/a.jpg" || images[0].Caption == nil || *images[0].Caption != "first caption" {
		t.Fatalf("first occurrence must win: %+v", images[0])
	}
	if !images[0].IsPrimary || images[1].IsPrimary || images[2].IsPrimary {
		t.Fatal("exactly position 0 is primary")
	}
}

func TestSyncImageFetchFailureKeepsGallery(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{propertyRecord("p1", "Flat")},
		images:     map[string][]any{"p1": {"https://cdn/1.jpg"}},
		imageFail:  map[string]bool{},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	fixture.imageFail["p1"] = true
	result, err := svc.Sync(PropertySyncOptions{})
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if result.Errors != 0 {
		t.Fatalf("image fetch failure is not a record error: %+v", result)
	}

	var count int64
	db.Model(&models.PropertyImage{}).Where("property_id = ?", "p1").Count(&count)
	if count != 1 {
		t.Fatalf("gallery wiped on fetch failure: %d images left", count)
	}
}

func TestSyncCountsBadRecordsAndContinues(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{
			propertyRecord("p1", "One"),
			propertyRecord("p2", "Two"),
			{"name": "No ID"}, // unmappable
			propertyRecord("p4", "Four"),
			propertyRecord("p5", "Five"),
		},
		images: map[string][]any{},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	result, err := svc.Sync(PropertySyncOptions{FetchAll: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 4 || result.Created != 4 || result.Errors != 1 {
		t.Fatalf("result = %+v, want 4 synced / 1 error", result)
	}
}

func TestSyncResyncPreservesCreatedAt(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{propertyRecord("p1", "Flat")},
		images:     map[string][]any{},
	}
	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))

	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Model(&models.Property{}).Where("id = ?", "p1").Update("created_at", past)
	db.Model(&models.PropertyHouseRule{}).Where("property_id = ?", "p1").Update("created_at", past)

	if _, err := svc.Sync(PropertySyncOptions{}); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	var property models.Property
	db.First(&property, "id = ?", "p1")
	if !property.CreatedAt.Equal(past) {
		t.Fatalf("created_at = %v, resync must not rewrite it", property.CreatedAt)
	}
	if !property.UpdatedAt.After(past) {
		t.Fatalf("updated_at = %v, resync must refresh it", property.UpdatedAt)
	}

	var rule models.PropertyHouseRule
	db.First(&rule, "property_id = ?", "p1")
	if !rule.CreatedAt.Equal(past) {
		t.Fatalf("house rule created_at = %v, resync must not rewrite it", rule.CreatedAt)
	}
}

func TestSyncSinglePageUnlessFetchAll(t *testing.T) {
	db := openTestDB(t)

	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/images") {
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			return
		}
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"id": fmt.Sprintf("p%d", page), "name": "Flat"}},
			"meta": map[string]any{"current_page": page, "last_page": 3},
		})
	})
	svc := NewPropertySyncService(db, newTestClient(t, handler))

	// fetch-all is opt-in: without it only the requested page is synced
	result, err := svc.Sync(PropertySyncOptions{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if requests != 1 || result.Synced != 1 {
		t.Fatalf("requests = %d, result = %+v, want a single page", requests, result)
	}

	result, err = svc.Sync(PropertySyncOptions{FetchAll: true})
	if err != nil {
		t.Fatalf("Sync --all: %v", err)
	}
	if requests != 4 || result.Synced != 3 {
		t.Fatalf("requests = %d, result = %+v, want all three pages", requests, result)
	}
}

func TestSyncStopsAtPageCeiling(t *testing.T) {
	db := openTestDB(t)

	// every response claims yet another page exists
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/images") {
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []any{map[string]any{"id": "p1", "name": "Flat"}},
			"meta": map[string]any{"current_page": page, "last_page": page + 1},
		})
	})
	svc := NewPropertySyncService(db, newTestClient(t, handler))

	result, err := svc.Sync(PropertySyncOptions{Page: hospitable.MaxPages, FetchAll: true})
	if !errors.Is(err, hospitable.ErrPageLimitExceeded) {
		t.Fatalf("got %v, want ErrPageLimitExceeded", err)
	}
	// the ceiling page itself was still processed
	if result.Synced != 1 {
		t.Fatalf("result = %+v, want the last in-bounds page synced", result)
	}
}

func TestSyncRollsBackFailedPropertyOnly(t *testing.T) {
	db := openTestDB(t)
	fixture := &syncFixture{
		properties: []map[string]any{
			propertyRecord("p1", "One"),
			propertyRecord("p2", "Two"),
			propertyRecord("p3", "Three"),
			propertyRecord("p4", "Four"),
			propertyRecord("p5", "Five"),
		},
		images: map[string][]any{"p3": {"https://cdn/3.jpg"}},
	}

	// room details are written last in each property's transaction;
	// failing there for p3 must roll back everything written for p3
	err := db.Callback().Create().Before("gorm:create").Register("fail_p3_room_details", func(tx *gorm.DB) {
		if detail, ok := tx.Statement.Dest.(*models.RoomDetail); ok && detail.PropertyID == "p3" {
			tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	svc := NewPropertySyncService(db, newTestClient(t, fixture.handler()))
	result, err := svc.Sync(PropertySyncOptions{FetchAll: true})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Synced != 4 || result.Created != 4 || result.Errors != 1 {
		t.Fatalf("result = %+v, want 4 synced / 1 error", result)
	}

	var ids []string
	db.Model(&models.Property{}).Order("id ASC").Pluck("id", &ids)
	want := []string{"p1", "p2", "p4", "p5"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	// nothing from the failed transaction may leak
	for _, model := range []any{&models.PropertyHouseRule{}, &models.PropertyAmenity{}, &models.PropertyImage{}, &models.RoomDetail{}} {
		var count int64
		db.Model(model).Where("property_id = ?", "p3").Count(&count)
		if count != 0 {
			t.Fatalf("%T rows for p3 survived the rollback", model)
		}
	}
}

func TestSyncFirstPageFetchFailureIsFatal(t *testing.T) {
	db := openTestDB(t)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"down"}`, http.StatusBadGateway)
	}))
	svc := NewPropertySyncService(db, client)

	_, err := svc.Sync(PropertySyncOptions{})
	if !errors.Is(err, hospitable.ErrFetchFailed) {
		t.Fatalf("got %v, want ErrFetchFailed", err)
	}
}
