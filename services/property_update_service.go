package services

import (
	"encoding/json"
	"errors"
	"strings"

	"rental-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CoordinatesInput carries an updated lat/lng pair.
type CoordinatesInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type AddressInput struct {
	Number      *string           `json:"number"`
	Street      *string           `json:"street"`
	City        *string           `json:"city"`
	State       *string           `json:"state"`
	Postcode    *string           `json:"postcode"`
	CountryCode *string           `json:"country_code"`
	CountryName *string           `json:"country_name"`
	Display     *string           `json:"display"`
	Coordinates *CoordinatesInput `json:"coordinates"`
}

type CapacityInput struct {
	Max       *int     `json:"max"`
	Bedrooms  *int     `json:"bedrooms"`
	Beds      *int     `json:"beds"`
	Bathrooms *float64 `json:"bathrooms"`
}

// HouseRulesInput uses pointer flags so an omitted flag keeps the stored
// value while an explicit null or false clears it.
type HouseRulesInput struct {
	PetsAllowed    *bool `json:"pets_allowed"`
	SmokingAllowed *bool `json:"smoking_allowed"`
	EventsAllowed  *bool `json:"events_allowed"`
}

type ImageInput struct {
	URL       string  `json:"url" binding:"required"`
	Caption   *string `json:"caption"`
	Order     *int    `json:"order"`
	IsPrimary bool    `json:"is_primary"`
}

type BedInput struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

type RoomDetailInput struct {
	Type string     `json:"type" binding:"required"`
	Beds []BedInput `json:"beds"`
}

// PropertyUpdateInput is the update-endpoint body. Nested sections use
// pointers (or nilable slices) so their absence leaves the stored data
// untouched, while their presence fully replaces it.
type PropertyUpdateInput struct {
	Name               string            `json:"name" binding:"required"`
	PublicName         *string           `json:"public_name"`
	PictureURL         *string           `json:"picture_url"`
	Timezone           *string           `json:"timezone"`
	Listed             *bool             `json:"listed"`
	Currency           *string           `json:"currency"`
	Summary            *string           `json:"summary"`
	Description        *string           `json:"description"`
	CheckinTime        *string           `json:"checkin_time"`
	CheckoutTime       *string           `json:"checkout_time"`
	PropertyType       *string           `json:"property_type"`
	RoomType           *string           `json:"room_type"`
	CalendarRestricted *bool             `json:"calendar_restricted"`
	Address            *AddressInput     `json:"address"`
	Capacity           *CapacityInput    `json:"capacity"`
	HouseRules         *HouseRulesInput  `json:"house_rules"`
	Amenities          []string          `json:"amenities"`
	Images             []ImageInput      `json:"images"`
	PrimaryImage       *ImageInput       `json:"primary_image"`
	RoomDetails        []RoomDetailInput `json:"room_details"`
}

// Update applies an edit to one property and its nested sections inside a
// single transaction, locking the row so concurrent edits serialize.
func (s *PropertyService) Update(id string, input PropertyUpdateInput) (*PropertyDetail, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&property).Error; err != nil {
			return err
		}

		applyPropertyFields(&property, &input)

		if err := tx.Save(&property).Error; err != nil {
			return err
		}

		if input.HouseRules != nil {
			if err := upsertHouseRules(tx, id, input.HouseRules); err != nil {
				return err
			}
		}

		if input.Amenities != nil {
			if err := replaceAmenityLinks(tx, id, input.Amenities); err != nil {
				return err
			}
		}

		if input.RoomDetails != nil {
			if err := replaceRoomDetails(tx, id, input.RoomDetails); err != nil {
				return err
			}
		}

		if input.Images != nil || input.PrimaryImage != nil {
			stored, err := storePropertyImages(tx, id, input.Images, input.PrimaryImage)
			if err != nil {
				return err
			}
			// Keep picture_url in step with the primary image when the
			// caller did not set it explicitly.
			if input.PictureURL == nil && len(stored) > 0 {
				if err := tx.Model(&models.Property{}).Where("id = ?", id).
					Update("picture_url", stored[0].URL).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

func applyPropertyFields(property *models.Property, input *PropertyUpdateInput) {
	property.Name = input.Name
	if input.PublicName != nil {
		property.PublicName = input.PublicName
	}
	if input.PictureURL != nil {
		property.PictureURL = input.PictureURL
	}
	if input.Timezone != nil {
		property.TimezoneOffset = input.Timezone
	}
	if input.Listed != nil {
		property.Listed = *input.Listed
	}
	if input.Currency != nil {
		property.Currency = input.Currency
	}
	if input.Summary != nil {
		property.Summary = input.Summary
	}
	if input.Description != nil {
		property.Description = input.Description
	}
	if input.CheckinTime != nil {
		property.CheckinTime = input.CheckinTime
	}
	if input.CheckoutTime != nil {
		property.CheckoutTime = input.CheckoutTime
	}
	if input.PropertyType != nil {
		property.PropertyType = input.PropertyType
	}
	if input.RoomType != nil {
		property.RoomType = input.RoomType
	}
	if input.CalendarRestricted != nil {
		property.CalendarRestricted = *input.CalendarRestricted
	}

	if input.Address != nil {
		applyAddressFields(property, input.Address)
	}
	if input.Capacity != nil {
		if input.Capacity.Max != nil {
			property.CapacityMax = input.Capacity.Max
		}
		if input.Capacity.Bedrooms != nil {
			property.CapacityBedrooms = input.Capacity.Bedrooms
		}
		if input.Capacity.Beds != nil {
			property.CapacityBeds = input.Capacity.Beds
		}
		if input.Capacity.Bathrooms != nil {
			property.CapacityBathrooms = input.Capacity.Bathrooms
		}
	}
}

func applyAddressFields(property *models.Property, address *AddressInput) {
	if address.Number != nil {
		property.AddressNumber = address.Number
	}
	if address.Street != nil {
		property.AddressStreet = address.Street
	}
	if address.City != nil {
		property.AddressCity = address.City
	}
	if address.State != nil {
		property.AddressState = address.State
	}
	if address.Postcode != nil {
		property.AddressPostcode = address.Postcode
	}
	if address.CountryCode != nil {
		property.AddressCountryCode = address.CountryCode
	}
	if address.CountryName != nil {
		property.AddressCountryName = address.CountryName
	}
	if address.Display != nil {
		property.AddressDisplay = address.Display
	} else {
		property.AddressDisplay = composeAddressDisplay(property)
	}
	if address.Coordinates != nil {
		if address.Coordinates.Latitude != nil {
			property.Latitude = address.Coordinates.Latitude
		}
		if address.Coordinates.Longitude != nil {
			property.Longitude = address.Coordinates.Longitude
		}
	}
}

// composeAddressDisplay rebuilds the display string from the stored parts
// after an address edit without an explicit display value.
func composeAddressDisplay(property *models.Property) *string {
	parts := []*string{
		property.AddressNumber,
		property.AddressStreet,
		property.AddressCity,
		property.AddressState,
		property.AddressPostcode,
		property.AddressCountryName,
	}
	var present []string
	for _, part := range parts {
		if part != nil && *part != "" {
			present = append(present, *part)
		}
	}
	if len(present) == 0 {
		return nil
	}
	display := strings.Join(present, ", ")
	return &display
}

func upsertHouseRules(tx *gorm.DB, propertyID string, input *HouseRulesInput) error {
	rule := models.PropertyHouseRule{PropertyID: propertyID}
	if input.PetsAllowed != nil {
		rule.PetsAllowed = *input.PetsAllowed
	}
	if input.SmokingAllowed != nil {
		rule.SmokingAllowed = *input.SmokingAllowed
	}
	if input.EventsAllowed != nil {
		rule.EventsAllowed = *input.EventsAllowed
	}
	return tx.Clauses(houseRuleUpsert).Create(&rule).Error
}

// replaceAmenityLinks swaps the property's amenity set for the given
// names, creating catalog entries as needed.
func replaceAmenityLinks(tx *gorm.DB, propertyID string, names []string) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyAmenity{}).Error; err != nil {
		return err
	}

	linked := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
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

func replaceRoomDetails(tx *gorm.DB, propertyID string, inputs []RoomDetailInput) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.RoomDetail{}).Error; err != nil {
		return err
	}

	for _, input := range inputs {
		if input.Type == "" {
			continue
		}
		detail := models.RoomDetail{PropertyID: propertyID, Type: input.Type}

		beds := make([]map[string]any, 0, len(input.Beds))
		for _, bed := range input.Beds {
			if bed.Type == "" {
				continue
			}
			beds = append(beds, map[string]any{"type": bed.Type, "quantity": bed.Quantity})
		}
		if len(beds) > 0 {
			if encoded, err := json.Marshal(beds); err == nil {
				detail.Beds = datatypes.JSON(encoded)
			}
		}

		if err := tx.Create(&detail).Error; err != nil {
			return err
		}
	}
	return nil
}

// storePropertyImages fully replaces the gallery. An explicit primary is
// promoted to position 0; duplicate URLs keep their first occurrence.
// Position decides primary after the swap, so the stored set always has
// exactly one primary at order 0.
func storePropertyImages(tx *gorm.DB, propertyID string, images []ImageInput, primary *ImageInput) ([]models.PropertyImage, error) {
	ordered := make([]ImageInput, 0, len(images)+1)
	if primary != nil {
		ordered = append(ordered, *primary)
	}
	for _, img := range images {
		if primary == nil && img.IsPrimary && len(ordered) > 0 && !ordered[0].IsPrimary {
			// Promote the flagged image ahead of the ones already seen.
			ordered = append([]ImageInput{img}, ordered...)
			continue
		}
		ordered = append(ordered, img)
	}

	seen := make(map[string]bool, len(ordered))
	deduped := make([]ImageInput, 0, len(ordered))
	for _, img := range ordered {
		if img.URL == "" || seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		deduped = append(deduped, img)
	}

	if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
		return nil, err
	}

	stored := make([]models.PropertyImage, 0, len(deduped))
	for i, img := range deduped {
		row := models.PropertyImage{
			PropertyID: propertyID,
			URL:        img.URL,
			Caption:    img.Caption,
			Order:      i,
			IsPrimary:  i == 0,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		stored = append(stored, row)
	}
	return stored, nil
}

// ReplacePhotos swaps a property's full gallery for the given set.
func (s *PropertyService) ReplacePhotos(propertyID string, images []ImageInput, primary *ImageInput) ([]models.PropertyImage, error) {
	var stored []models.PropertyImage
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Property{}).Where("id = ?", propertyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		var err error
		stored, err = storePropertyImages(tx, propertyID, images, primary)
		if err != nil {
			return err
		}

		if len(stored) > 0 {
			return tx.Model(&models.Property{}).Where("id = ?", propertyID).
				Update("picture_url", stored[0].URL).Error
		}
		return nil
	})
	return stored, err
}

// DeletePhoto removes one image. When the removed image was the primary,
// the lowest-ordered survivor is promoted so the gallery never loses its
// primary while images remain.
func (s *PropertyService) DeletePhoto(propertyID string, imageID uint) (*models.PropertyImage, error) {
	var deleted models.PropertyImage
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND property_id = ?", imageID, propertyID).
			First(&deleted).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PropertyImage{}, deleted.ID).Error; err != nil {
			return err
		}

		if !deleted.IsPrimary {
			return nil
		}

		var next models.PropertyImage
		err := tx.Where("property_id = ?", propertyID).
			Order("`order` ASC").First(&next).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Model(&models.Property{}).Where("id = ?", propertyID).
					Update("picture_url", nil).Error
			}
			return err
		}

		if err := tx.Model(&models.PropertyImage{}).Where("id = ?", next.ID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Property{}).Where("id = ?", propertyID).
			Update("picture_url", next.URL).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
