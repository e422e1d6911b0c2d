package services

import (
	"fmt"
	"log"

	"rental-backend/hospitable"
	"rental-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncResult aggregates the outcome of one sync run. Individual record
// errors never abort a run; they are counted here.
type SyncResult struct {
	Synced  int
	Created int
	Updated int
	Errors  int
}

func (r *SyncResult) add(other *SyncResult) {
	r.Synced += other.Synced
	r.Created += other.Created
	r.Updated += other.Updated
	r.Errors += other.Errors
}

// PropertySyncOptions mirror the sync-properties command flags.
type PropertySyncOptions struct {
	Page     int
	PerPage  int
	FetchAll bool
	Include  string
}

// propertyUpsert rewrites every mapped column on conflict; created_at
// keeps the value from the first sync.
var propertyUpsert = clause.OnConflict{
	Columns: []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"parent_id", "name", "public_name", "picture_url", "timezone_offset",
		"listed", "currency", "summary", "description", "checkin_time",
		"checkout_time", "property_type", "room_type", "calendar_restricted",
		"address_number", "address_street", "address_city", "address_state",
		"address_postcode", "address_country_code", "address_country_name",
		"address_display", "latitude", "longitude", "capacity_max",
		"capacity_bedrooms", "capacity_beds", "capacity_bathrooms",
		"updated_at",
	}),
}

var houseRuleUpsert = clause.OnConflict{
	Columns: []clause.Column{{Name: "property_id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"pets_allowed", "smoking_allowed", "events_allowed", "updated_at",
	}),
}

// PropertySyncService pulls properties from the Hospitable API and
// reconciles them into the local store.
type PropertySyncService struct {
	DB     *gorm.DB
	Client *hospitable.Client
}

func NewPropertySyncService(db *gorm.DB, client *hospitable.Client) *PropertySyncService {
	return &PropertySyncService{DB: db, Client: client}
}

// Sync drives the property sync loop: fetch page, map records, upsert,
// decide continuation. Only a fetch failure on the first page fails the
// run (there is nothing to process); later failures end pagination with
// whatever was already synced.
func (s *PropertySyncService) Sync(opts PropertySyncOptions) (*SyncResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 100
	}

	result := &SyncResult{}
	firstPage := true

	for {
		log.Printf("Fetching properties (page: %d, per_page: %d)...", page, perPage)

		resp, err := s.Client.FetchProperties(hospitable.QueryParams{
			Page:    page,
			PerPage: perPage,
			Include: opts.Include,
		})
		if err != nil {
			if firstPage {
				return result, fmt.Errorf("fetch properties: %w", err)
			}
			log.Printf("⚠️  Property fetch ended on page %d: %v", page, err)
			break
		}
		firstPage = false

		if len(resp.Records) == 0 {
			log.Println("⚠️  No properties found in API response.")
			break
		}

		log.Printf("Found %d properties to process.", len(resp.Records))

		for _, rec := range resp.Records {
			created, err := s.syncProperty(rec)
			if err != nil {
				result.Errors++
				log.Printf("❌ Error syncing property %s: %v", recordID(rec), err)
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
			result.Synced++
		}

		log.Printf("Processed page %d. Total synced so far: %d", page, result.Synced)

		if !opts.FetchAll {
			break
		}

		hasMore, next := hospitable.NextPage(resp, page, perPage)
		if !hasMore {
			break
		}
		if next > hospitable.MaxPages {
			log.Printf("❌ Pagination limit reached while syncing properties. Stopping.")
			return result, hospitable.ErrPageLimitExceeded
		}
		page = next
	}

	return result, nil
}

// syncProperty upserts one property and fully replaces its house rules,
// amenity links, images and room details. The images are fetched before
// the transaction opens so no lock is held across network I/O; all writes
// then commit or roll back together.
func (s *PropertySyncService) syncProperty(rec any) (bool, error) {
	obj, ok := rec.(map[string]any)
	if !ok {
		return false, fmt.Errorf("property record is not an object")
	}

	property, err := hospitable.MapProperty(obj)
	if err != nil {
		return false, err
	}

	images, imagesFetched := s.fetchAllImages(property.ID)

	created := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Property{}).Where("id = ?", property.ID).Count(&count).Error; err != nil {
			return err
		}
		created = count == 0

		// Constraint-backed upsert on the upstream id.
		if err := tx.Clauses(propertyUpsert).Create(property).Error; err != nil {
			return err
		}

		if _, ok := obj["house_rules"]; ok {
			if err := s.syncHouseRules(tx, property.ID, obj); err != nil {
				return err
			}
		}

		if names, ok := hospitable.AmenityNames(obj); ok {
			if err := s.syncAmenities(tx, property.ID, names); err != nil {
				return err
			}
		}

		if imagesFetched {
			if err := replaceImages(tx, property.ID, images); err != nil {
				return err
			}
		}

		if _, ok := obj["room_details"]; ok {
			if err := s.syncRoomDetails(tx, property.ID, obj); err != nil {
				return err
			}
		}

		return nil
	})

	return created, err
}

func (s *PropertySyncService) syncHouseRules(tx *gorm.DB, propertyID string, rec map[string]any) error {
	rule := hospitable.MapHouseRules(propertyID, rec)
	return tx.Clauses(houseRuleUpsert).Create(rule).Error
}

// syncAmenities fully replaces the property's amenity links, resolving or
// creating catalog entries by normalized name. Absence in the latest
// payload means removal.
func (s *PropertySyncService) syncAmenities(tx *gorm.DB, propertyID string, names []string) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyAmenity{}).Error; err != nil {
		return err
	}

	linked := make(map[string]bool, len(names))
	for _, name := range names {
		amenity, err := resolveAmenityByName(tx, name, nil, nil)
		if err != nil {
			return err
		}
		if linked[amenity.ID] {
			continue
		}
		linked[amenity.ID] = true

		link := models.PropertyAmenity{PropertyID: propertyID, AmenityID: amenity.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

// fetchAllImages pages through the property's images endpoint and returns
// the deduplicated gallery. The second return value is false when nothing
// could be fetched at all, in which case the existing image set is left
// untouched (a fetch failure must not wipe the gallery).
func (s *PropertySyncService) fetchAllImages(propertyID string) ([]hospitable.ImageRecord, bool) {
	var all []hospitable.ImageRecord
	page := 1
	perPage := 100
	fetchedAny := false

	for {
		resp, err := s.Client.FetchPropertyImages(propertyID, hospitable.QueryParams{
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			if !fetchedAny {
				log.Printf("⚠️  Failed to sync images for property %s: %v", propertyID, err)
				return nil, false
			}
			log.Printf("⚠️  Image fetch for property %s ended on page %d: %v", propertyID, page, err)
			break
		}
		fetchedAny = true

		if len(resp.Records) == 0 {
			break
		}
		for _, rec := range resp.Records {
			if img, ok := hospitable.MapImage(rec); ok {
				all = append(all, img)
			}
		}

		hasMore, next := hospitable.NextPage(resp, page, perPage)
		if !hasMore {
			break
		}
		if next > hospitable.MaxPages {
			log.Printf("⚠️  Pagination limit reached fetching images for property %s.", propertyID)
			break
		}
		page = next
	}

	return hospitable.DedupImages(all), true
}

// replaceImages swaps the property's full image set: delete-then-insert,
// never a merge. Position 0 after dedup is the primary image.
func replaceImages(tx *gorm.DB, propertyID string, images []hospitable.ImageRecord) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
		return err
	}

	for i, img := range images {
		row := models.PropertyImage{
			PropertyID: propertyID,
			URL:        img.URL,
			Caption:    img.Caption,
			Order:      i,
			IsPrimary:  i == 0,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *PropertySyncService) syncRoomDetails(tx *gorm.DB, propertyID string, rec map[string]any) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.RoomDetail{}).Error; err != nil {
		return err
	}

	for _, detail := range hospitable.MapRoomDetails(propertyID, rec) {
		detail := detail
		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
	}
	return nil
}

func recordID(rec any) string {
	if obj, ok := rec.(map[string]any); ok {
		if id, ok := obj["id"].(string); ok && id != "" {
			return id
		}
	}
	return "unknown"
}
