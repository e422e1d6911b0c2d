package services

import (
	"testing"

	"rental-backend/models"
)

func TestFindOrCreateNormalizesNames(t *testing.T) {
	svc := NewAmenityService(openTestDB(t))

	first, err := svc.FindOrCreate("Air Conditioning", nil, nil)
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if first.Name != "air_conditioning" {
		t.Fatalf("Name = %q, want air_conditioning", first.Name)
	}
	if first.DisplayName != "Air conditioning" {
		t.Fatalf("DisplayName = %q", first.DisplayName)
	}

	// differently-cased input resolves to the same row
	second, err := svc.FindOrCreate("air conditioning", nil, nil)
	if err != nil {
		t.Fatalf("second FindOrCreate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("same normalized name must resolve to the same amenity")
	}

	var count int64
	svc.DB.Model(&models.Amenity{}).Count(&count)
	if count != 1 {
		t.Fatalf("got %d amenity rows, want 1", count)
	}
}

func TestFindOrCreateExplicitDisplayName(t *testing.T) {
	svc := NewAmenityService(openTestDB(t))

	amenity, err := svc.FindOrCreate("wifi", strPtr("Wi-Fi"), strPtr("wifi"))
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if amenity.DisplayName != "Wi-Fi" {
		t.Fatalf("DisplayName = %q, want Wi-Fi", amenity.DisplayName)
	}
	if amenity.IconURL == nil || *amenity.IconURL != "wifi" {
		t.Fatalf("IconURL = %v", amenity.IconURL)
	}
}

func TestFindOrCreateEmptyName(t *testing.T) {
	svc := NewAmenityService(openTestDB(t))
	if _, err := svc.FindOrCreate("   ", nil, nil); err == nil {
		t.Fatal("blank name must error")
	}
}

func TestGetAllSortsByDisplayName(t *testing.T) {
	svc := NewAmenityService(openTestDB(t))
	svc.FindOrCreate("washer", nil, nil)
	svc.FindOrCreate("air_conditioning", nil, nil)

	amenities, err := svc.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(amenities) != 2 || amenities[0].Name != "air_conditioning" {
		t.Fatalf("order = %+v", amenities)
	}
}
