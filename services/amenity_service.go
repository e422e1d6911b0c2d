package services

import (
	"errors"
	"strings"

	"rental-backend/hospitable"
	"rental-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AmenityService struct {
	DB *gorm.DB
}

func NewAmenityService(db *gorm.DB) *AmenityService {
	return &AmenityService{DB: db}
}

func (s *AmenityService) GetAll() ([]models.Amenity, error) {
	var amenities []models.Amenity
	err := s.DB.Order("display_name ASC").Find(&amenities).Error
	return amenities, err
}

// FindOrCreate resolves an amenity by normalized name, creating the
// catalog entry on first encounter.
func (s *AmenityService) FindOrCreate(name string, displayName, iconURL *string) (*models.Amenity, error) {
	return resolveAmenityByName(s.DB, name, displayName, iconURL)
}

// resolveAmenityByName implements "find existing by name, else create".
// The unique index on name keeps the catalog deduplicated; on a create
// race the loser re-reads the winner's row.
func resolveAmenityByName(tx *gorm.DB, name string, displayName, iconURL *string) (*models.Amenity, error) {
	name = hospitable.NormalizeAmenityName(name)
	if name == "" {
		return nil, errors.New("amenity name is empty")
	}

	var amenity models.Amenity
	err := tx.Where("name = ?", name).First(&amenity).Error
	if err == nil {
		return &amenity, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	display := formatAmenityDisplayName(name)
	if displayName != nil && *displayName != "" {
		display = *displayName
	}

	amenity = models.Amenity{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: display,
		IconURL:     iconURL,
	}
	if err := tx.Create(&amenity).Error; err != nil {
		// Lost a race on the unique name index; read the existing row.
		var existing models.Amenity
		if lookupErr := tx.Where("name = ?", name).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &amenity, nil
}

// formatAmenityDisplayName derives "Coffee maker"-style display names from
// snake_case catalog names.
func formatAmenityDisplayName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}
