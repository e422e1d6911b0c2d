package services

import (
	"errors"
	"fmt"
	"log"

	"rental-backend/hospitable"
	"rental-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reviewUpsert rewrites every mapped column on conflict; created_at
// keeps the value from the first sync.
var reviewUpsert = clause.OnConflict{
	Columns: []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns([]string{
		"property_id", "reviewer_name", "reviewer_avatar", "guest_data",
		"rating", "rating_platform_original", "comment", "reviewed_at",
		"responded_at", "can_respond", "platform", "language", "responses",
		"private_feedback", "detailed_ratings", "updated_at",
	}),
}

// ReviewSyncService pulls guest reviews from the Hospitable API and
// upserts them keyed by the upstream review id.
type ReviewSyncService struct {
	DB     *gorm.DB
	Client *hospitable.Client
}

func NewReviewSyncService(db *gorm.DB, client *hospitable.Client) *ReviewSyncService {
	return &ReviewSyncService{DB: db, Client: client}
}

// SyncAll syncs reviews for every property currently in the store. A
// failure for one property is counted and logged; the rest continue.
func (s *ReviewSyncService) SyncAll(perPage int) (*SyncResult, error) {
	var propertyIDs []string
	if err := s.DB.Model(&models.Property{}).Order("id ASC").Pluck("id", &propertyIDs).Error; err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	log.Printf("Found %d properties to sync reviews for.", len(propertyIDs))

	total := &SyncResult{}
	for _, id := range propertyIDs {
		result, err := s.SyncProperty(id, perPage)
		total.add(result)
		if err != nil {
			total.Errors++
			log.Printf("❌ Failed to sync reviews for property %s: %v", id, err)
		}
	}
	return total, nil
}

// SyncProperty fetches every review page for one property, enriches
// records from the JSON-API included guests, then upserts review by
// review. Per-review failures are counted and skipped.
func (s *ReviewSyncService) SyncProperty(propertyID string, perPage int) (*SyncResult, error) {
	if perPage < 1 {
		perPage = 100
	}

	result := &SyncResult{}

	var all []map[string]any
	// Included guests accumulate across pages; later pages may reference
	// guests delivered earlier.
	guests := make(map[string]map[string]any)
	page := 1
	var pageLimitErr error

	for {
		resp, err := s.Client.FetchPropertyReviews(propertyID, hospitable.QueryParams{
			Page:    page,
			PerPage: perPage,
			Include: "guest",
		})
		if err != nil {
			if errors.Is(err, hospitable.ErrInvalidShape) {
				log.Printf("⚠️  Invalid reviews format for property %s on page %d", propertyID, page)
			} else {
				log.Printf("⚠️  Failed to fetch reviews for property %s on page %d", propertyID, page)
			}
			break
		}

		for id, attrs := range resp.Guests {
			guests[id] = attrs
		}

		for _, rec := range resp.Records {
			obj, ok := rec.(map[string]any)
			if !ok {
				continue
			}
			enrichGuest(obj, guests)
			all = append(all, obj)
		}

		if len(resp.Records) > 0 {
			log.Printf("  Fetched %d reviews from page %d (total so far: %d)", len(resp.Records), page, len(all))
		}

		hasMore, next := hospitable.NextPage(resp, page, perPage)
		if !hasMore {
			break
		}
		if next > hospitable.MaxPages {
			log.Printf("❌ Pagination limit reached for property %s. Stopping to prevent infinite loop.", propertyID)
			pageLimitErr = hospitable.ErrPageLimitExceeded
			break
		}
		page = next
	}

	if len(all) == 0 {
		log.Printf("  No reviews found for property %s", propertyID)
		return result, pageLimitErr
	}
	log.Printf("  Total reviews fetched for property %s: %d", propertyID, len(all))

	for i, rec := range all {
		created, err := s.syncReview(propertyID, rec)
		if err != nil {
			result.Errors++
			log.Printf("⚠️  Error syncing review %s (index %d) for property %s: %v", recordID(rec), i, propertyID, err)
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		result.Synced++
	}

	return result, pageLimitErr
}

// syncReview upserts a single review, reporting whether the row was newly
// created.
func (s *ReviewSyncService) syncReview(propertyID string, rec map[string]any) (bool, error) {
	review, err := hospitable.MapReview(propertyID, rec)
	if err != nil {
		return false, err
	}

	var count int64
	if err := s.DB.Model(&models.PropertyReview{}).Where("id = ?", review.ID).Count(&count).Error; err != nil {
		return false, err
	}
	created := count == 0

	err = s.DB.Clauses(reviewUpsert).Create(review).Error
	return created, err
}

// enrichGuest fills a review's guest object from the included-guests map
// when the record only references the guest by relationship id.
func enrichGuest(rec map[string]any, guests map[string]map[string]any) {
	if _, ok := rec["guest"].(map[string]any); ok {
		return
	}
	id := hospitable.GuestRelationshipID(rec)
	if id == "" {
		return
	}
	if attrs, ok := guests[id]; ok {
		rec["guest"] = attrs
	}
}
