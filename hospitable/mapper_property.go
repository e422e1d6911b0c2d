package hospitable

import (
	"encoding/json"
	"strings"

	"rental-backend/models"

	"gorm.io/datatypes"
)

// MapProperty converts one upstream property record into the local row.
// Every field has an explicit default; a missing upstream key never
// produces an error. Only a missing id does (ErrMissingID).
func MapProperty(rec map[string]any) (*models.Property, error) {
	id := stringField(rec, "id")
	if id == "" {
		return nil, ErrMissingID
	}

	address := objField(rec, "address")
	coordinates := objField(address, "coordinates")
	capacity := objField(rec, "capacity")

	// parent_id only when parent_child.parent is present and non-null;
	// a missing key and an explicit null both mean "no parent".
	var parentID *string
	if parentChild := objField(rec, "parent_child"); parentChild != nil {
		if parent := stringField(parentChild, "parent"); parent != "" {
			parentID = &parent
		}
	}

	return &models.Property{
		ID:                 id,
		ParentID:           parentID,
		Name:               stringField(rec, "name"),
		PublicName:         optString(rec, "public_name"),
		PictureURL:         optString(rec, "picture"),
		TimezoneOffset:     optString(rec, "timezone"),
		Listed:             boolField(rec, "listed"),
		Currency:           optString(rec, "currency"),
		Summary:            optString(rec, "summary"),
		Description:        optString(rec, "description"),
		CheckinTime:        parseClockTime(rec["checkin"]),
		CheckoutTime:       parseClockTime(rec["checkout"]),
		PropertyType:       optString(rec, "property_type"),
		RoomType:           optString(rec, "room_type"),
		CalendarRestricted: boolField(rec, "calendar_restricted"),

		AddressNumber:      optString(address, "number"),
		AddressStreet:      optString(address, "street"),
		AddressCity:        optString(address, "city"),
		AddressState:       optString(address, "state"),
		AddressPostcode:    optString(address, "postcode"),
		AddressCountryCode: optString(address, "country"),
		AddressCountryName: optString(address, "country_name"),
		AddressDisplay:     optString(address, "display"),
		Latitude:           optFloat(coordinates, "latitude"),
		Longitude:          optFloat(coordinates, "longitude"),

		CapacityMax:       optInt(capacity, "max"),
		CapacityBedrooms:  optInt(capacity, "bedrooms"),
		CapacityBeds:      optInt(capacity, "beds"),
		CapacityBathrooms: optFloat(capacity, "bathrooms"),
	}, nil
}

// MapHouseRules reads the house_rules block of a property record. Upstream
// null flags are stored as false, never null.
func MapHouseRules(propertyID string, rec map[string]any) *models.PropertyHouseRule {
	rules := objField(rec, "house_rules")
	return &models.PropertyHouseRule{
		PropertyID:     propertyID,
		PetsAllowed:    boolField(rules, "pets_allowed"),
		SmokingAllowed: boolField(rules, "smoking_allowed"),
		EventsAllowed:  boolField(rules, "events_allowed"),
	}
}

// AmenityNames extracts normalized amenity names (lowercase, underscored)
// from a property record, deduplicated in first-seen order. Entries may be
// bare strings or objects carrying name/title/label. The second return
// value reports whether an amenities list was present at all; an empty
// present list still means "replace with nothing".
func AmenityNames(rec map[string]any) ([]string, bool) {
	entries, ok := listField(rec, "amenities")
	if !ok {
		return nil, false
	}

	seen := make(map[string]bool, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		var name string
		switch v := entry.(type) {
		case string:
			name = v
		case map[string]any:
			name = stringField(v, "name")
			if name == "" {
				name = stringField(v, "title")
			}
			if name == "" {
				name = stringField(v, "label")
			}
		}

		name = NormalizeAmenityName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, true
}

// NormalizeAmenityName lowercases and underscores an amenity name so the
// catalog stays deduplicated across differently-cased payloads.
func NormalizeAmenityName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), "_")
	return strings.ReplaceAll(name, "-", "_")
}

// MapRoomDetails converts the room_details block into rows. Entries
// without a type are skipped; bed descriptors are sanitized to
// {type, quantity} pairs.
func MapRoomDetails(propertyID string, rec map[string]any) []models.RoomDetail {
	entries, ok := listField(rec, "room_details")
	if !ok {
		return nil
	}

	details := make([]models.RoomDetail, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		roomType := stringField(obj, "type")
		if roomType == "" {
			continue
		}

		detail := models.RoomDetail{
			PropertyID: propertyID,
			Type:       roomType,
		}

		if rawBeds, ok := listField(obj, "beds"); ok {
			beds := make([]map[string]any, 0, len(rawBeds))
			for _, rawBed := range rawBeds {
				bed, ok := rawBed.(map[string]any)
				if !ok {
					continue
				}
				bedType := stringField(bed, "type")
				if bedType == "" {
					continue
				}
				quantity := 0
				if q := optInt(bed, "quantity"); q != nil {
					quantity = *q
				}
				beds = append(beds, map[string]any{"type": bedType, "quantity": quantity})
			}
			if len(beds) > 0 {
				if encoded, err := json.Marshal(beds); err == nil {
					detail.Beds = datatypes.JSON(encoded)
				}
			}
		}

		details = append(details, detail)
	}
	return details
}
