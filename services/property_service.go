package services

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"rental-backend/models"

	"gorm.io/gorm"
)

type PropertyService struct {
	DB *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{DB: db}
}

// PropertyListParams are the list-endpoint query options.
type PropertyListParams struct {
	Search       string
	City         string
	PropertyType string
	Listed       *bool
	SortBy       string
	SortOrder    string
	Page         int
	PerPage      int
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type ImagePayload struct {
	URL     string  `json:"url"`
	Caption *string `json:"caption,omitempty"`
}

type ReviewsAverage struct {
	AverageRating *float64 `json:"average_rating"`
}

// PropertySummary is the minimal list-view shape.
type PropertySummary struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	PrimaryImage   *ImagePayload  `json:"primary_image"`
	ReviewsSummary ReviewsAverage `json:"reviews_summary"`
}

type PropertyListResult struct {
	Data []PropertySummary `json:"data"`
	Meta PageMeta          `json:"meta"`
}

var allowedSortFields = map[string]bool{
	"name":          true,
	"public_name":   true,
	"address_city":  true,
	"address_state": true,
	"created_at":    true,
	"updated_at":    true,
	"capacity_max":  true,
}

// List returns a paginated, filtered, minimally-shaped property listing.
func (s *PropertyService) List(params PropertyListParams) (*PropertyListResult, error) {
	query := s.DB.Model(&models.Property{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where(
			"name LIKE ? OR public_name LIKE ? OR address_city LIKE ? OR address_state LIKE ? OR summary LIKE ?",
			like, like, like, like, like,
		)
	}
	if params.Listed != nil {
		query = query.Where("listed = ?", *params.Listed)
	}
	if params.City != "" {
		query = query.Where("address_city LIKE ?", "%"+params.City+"%")
	}
	if params.PropertyType != "" {
		query = query.Where("property_type = ?", params.PropertyType)
	}

	sortBy := params.SortBy
	sortOrder := strings.ToLower(params.SortOrder)
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	if !allowedSortFields[sortBy] {
		sortBy = "created_at"
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	perPage := params.PerPage
	if perPage < 1 {
		perPage = 15
	}
	if perPage > 100 {
		perPage = 100
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	var properties []models.Property
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_primary = ?", true).Order("`order` ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "property_id", "rating")
		}).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	data := make([]PropertySummary, 0, len(properties))
	for i := range properties {
		data = append(data, formatPropertySummary(&properties[i]))
	}

	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}

	return &PropertyListResult{
		Data: data,
		Meta: PageMeta{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
		},
	}, nil
}

// Get returns the fully-expanded detail view for one property.
func (s *PropertyService) Get(id string) (*PropertyDetail, error) {
	var property models.Property
	err := s.DB.
		Preload("HouseRules").
		Preload("Amenities").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` ASC, is_primary DESC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviewed_at DESC")
		}).
		Preload("Parent").
		Preload("Children").
		Preload("RoomDetails").
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}

	detail := formatPropertyDetail(&property)
	return &detail, nil
}

type CoordinatesPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type AddressPayload struct {
	Number      *string            `json:"number"`
	Street      *string            `json:"street"`
	City        *string            `json:"city"`
	State       *string            `json:"state"`
	Postcode    *string            `json:"postcode"`
	CountryCode *string            `json:"country_code"`
	CountryName *string            `json:"country_name"`
	Display     *string            `json:"display"`
	Coordinates CoordinatesPayload `json:"coordinates"`
}

type CapacityPayload struct {
	Max       *int     `json:"max"`
	Bedrooms  *int     `json:"bedrooms"`
	Beds      *int     `json:"beds"`
	Bathrooms *float64 `json:"bathrooms"`
}

type HouseRulesPayload struct {
	PetsAllowed    bool `json:"pets_allowed"`
	SmokingAllowed bool `json:"smoking_allowed"`
	EventsAllowed  bool `json:"events_allowed"`
}

type BedPayload struct {
	Type        string `json:"type"`
	TypeDisplay string `json:"type_display"`
	Quantity    int    `json:"quantity"`
}

type RoomDetailPayload struct {
	Type        string       `json:"type"`
	TypeDisplay string       `json:"type_display"`
	Beds        []BedPayload `json:"beds"`
}

type ReviewsSummary struct {
	AverageRating *float64           `json:"average_rating"`
	TotalReviews  int                `json:"total_reviews"`
	Cleanliness   *float64           `json:"cleanliness"`
	Accuracy      *float64           `json:"accuracy"`
	Checkin       *float64           `json:"checkin"`
	Communication *float64           `json:"communication"`
	Location      *float64           `json:"location"`
	Avg           map[string]float64 `json:"avg"`
}

type PropertyRef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PublicName *string `json:"public_name"`
}

// PropertyDetail is the full single-property response shape.
type PropertyDetail struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	PublicName         *string                 `json:"public_name"`
	PictureURL         *string                 `json:"picture_url"`
	PrimaryImage       *ImagePayload           `json:"primary_image"`
	Timezone           *string                 `json:"timezone"`
	Listed             bool                    `json:"listed"`
	Currency           *string                 `json:"currency"`
	Summary            *string                 `json:"summary"`
	Description        *string                 `json:"description"`
	CheckinTime        *string                 `json:"checkin_time"`
	CheckoutTime       *string                 `json:"checkout_time"`
	PropertyType       *string                 `json:"property_type"`
	RoomType           *string                 `json:"room_type"`
	CalendarRestricted bool                    `json:"calendar_restricted"`
	Address            AddressPayload          `json:"address"`
	Capacity           CapacityPayload         `json:"capacity"`
	HouseRules         *HouseRulesPayload      `json:"house_rules"`
	Amenities          []models.Amenity        `json:"amenities"`
	Images             []models.PropertyImage  `json:"images"`
	RoomDetails        []RoomDetailPayload     `json:"room_details"`
	Reviews            []models.PropertyReview `json:"reviews"`
	ReviewsSummary     ReviewsSummary          `json:"reviews_summary"`
	Parent             *PropertyRef            `json:"parent"`
	Children           []PropertyRef           `json:"children"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

func formatPropertySummary(property *models.Property) PropertySummary {
	summary := PropertySummary{
		ID:   property.ID,
		Name: property.Name,
	}

	for i := range property.Images {
		if property.Images[i].IsPrimary {
			summary.PrimaryImage = &ImagePayload{URL: property.Images[i].URL}
			break
		}
	}

	summary.ReviewsSummary.AverageRating = averageRating(property.Reviews)
	return summary
}

func formatPropertyDetail(property *models.Property) PropertyDetail {
	detail := PropertyDetail{
		ID:                 property.ID,
		Name:               property.Name,
		PublicName:         property.PublicName,
		PictureURL:         property.PictureURL,
		Timezone:           property.TimezoneOffset,
		Listed:             property.Listed,
		Currency:           property.Currency,
		Summary:            property.Summary,
		Description:        property.Description,
		CheckinTime:        property.CheckinTime,
		CheckoutTime:       property.CheckoutTime,
		PropertyType:       property.PropertyType,
		RoomType:           property.RoomType,
		CalendarRestricted: property.CalendarRestricted,
		Address: AddressPayload{
			Number:      property.AddressNumber,
			Street:      property.AddressStreet,
			City:        property.AddressCity,
			State:       property.AddressState,
			Postcode:    property.AddressPostcode,
			CountryCode: property.AddressCountryCode,
			CountryName: property.AddressCountryName,
			Display:     property.AddressDisplay,
			Coordinates: CoordinatesPayload{
				Latitude:  property.Latitude,
				Longitude: property.Longitude,
			},
		},
		Capacity: CapacityPayload{
			Max:       property.CapacityMax,
			Bedrooms:  property.CapacityBedrooms,
			Beds:      property.CapacityBeds,
			Bathrooms: property.CapacityBathrooms,
		},
		Amenities: property.Amenities,
		Images:    property.Images,
		Reviews:   property.Reviews,
		CreatedAt: property.CreatedAt,
		UpdatedAt: property.UpdatedAt,
	}

	if property.HouseRules != nil {
		detail.HouseRules = &HouseRulesPayload{
			PetsAllowed:    property.HouseRules.PetsAllowed,
			SmokingAllowed: property.HouseRules.SmokingAllowed,
			EventsAllowed:  property.HouseRules.EventsAllowed,
		}
	}

	for i := range property.Images {
		if property.Images[i].IsPrimary {
			detail.PrimaryImage = &ImagePayload{
				URL:     property.Images[i].URL,
				Caption: property.Images[i].Caption,
			}
			break
		}
	}

	detail.RoomDetails = make([]RoomDetailPayload, 0, len(property.RoomDetails))
	for i := range property.RoomDetails {
		detail.RoomDetails = append(detail.RoomDetails, formatRoomDetail(&property.RoomDetails[i]))
	}

	detail.ReviewsSummary = summarizeReviews(property.Reviews)

	if property.Parent != nil {
		detail.Parent = &PropertyRef{
			ID:         property.Parent.ID,
			Name:       property.Parent.Name,
			PublicName: property.Parent.PublicName,
		}
	}
	detail.Children = make([]PropertyRef, 0, len(property.Children))
	for i := range property.Children {
		child := &property.Children[i]
		detail.Children = append(detail.Children, PropertyRef{
			ID:         child.ID,
			Name:       child.Name,
			PublicName: child.PublicName,
		})
	}

	return detail
}

func formatRoomDetail(detail *models.RoomDetail) RoomDetailPayload {
	payload := RoomDetailPayload{
		Type:        detail.Type,
		TypeDisplay: titleize(detail.Type),
		Beds:        []BedPayload{},
	}

	var beds []struct {
		Type     string `json:"type"`
		Quantity int    `json:"quantity"`
	}
	if len(detail.Beds) > 0 {
		if err := json.Unmarshal(detail.Beds, &beds); err == nil {
			for _, bed := range beds {
				payload.Beds = append(payload.Beds, BedPayload{
					Type:        bed.Type,
					TypeDisplay: titleize(bed.Type),
					Quantity:    bed.Quantity,
				})
			}
		}
	}
	return payload
}

// detailedRatingCategories summarized per review in the detail view.
var detailedRatingCategories = []string{"cleanliness", "accuracy", "checkin", "communication", "location"}

func summarizeReviews(reviews []models.PropertyReview) ReviewsSummary {
	summary := ReviewsSummary{
		AverageRating: averageRating(reviews),
		TotalReviews:  len(reviews),
		Avg:           map[string]float64{"5": 0, "4": 0, "3": 0, "2": 0, "1": 0},
	}

	if len(reviews) > 0 {
		counts := map[int]int{}
		for i := range reviews {
			if reviews[i].Rating != nil {
				counts[*reviews[i].Rating]++
			}
		}
		for star := 1; star <= 5; star++ {
			pct := float64(counts[star]) / float64(len(reviews)) * 100
			summary.Avg[starKey(star)] = round2(pct)
		}
	}

	categories := make(map[string][]float64, len(detailedRatingCategories))
	for i := range reviews {
		if len(reviews[i].DetailedRatings) == 0 {
			continue
		}
		var entries []struct {
			Type   string   `json:"type"`
			Rating *float64 `json:"rating"`
		}
		if err := json.Unmarshal(reviews[i].DetailedRatings, &entries); err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.Rating == nil || *entry.Rating <= 0 {
				continue
			}
			for _, category := range detailedRatingCategories {
				if entry.Type == category {
					categories[category] = append(categories[category], *entry.Rating)
					break
				}
			}
		}
	}

	summary.Cleanliness = categoryAverage(categories["cleanliness"])
	summary.Accuracy = categoryAverage(categories["accuracy"])
	summary.Checkin = categoryAverage(categories["checkin"])
	summary.Communication = categoryAverage(categories["communication"])
	summary.Location = categoryAverage(categories["location"])

	return summary
}

func averageRating(reviews []models.PropertyReview) *float64 {
	var sum, count float64
	for i := range reviews {
		if reviews[i].Rating != nil {
			sum += float64(*reviews[i].Rating)
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := round2(sum / count)
	return &avg
}

func categoryAverage(ratings []float64) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	avg := round2(sum / float64(len(ratings)))
	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func starKey(star int) string {
	return [6]string{"", "1", "2", "3", "4", "5"}[star]
}

// titleize converts snake_case to a display string ("full_bathroom" ->
// "Full Bathroom").
func titleize(value string) string {
	if value == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(value, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
