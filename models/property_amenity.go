package models

import (
	"time"
)

// PropertyAmenity links a property to an amenity. Sync fully replaces the
// links for a property on every run.
type PropertyAmenity struct {
	PropertyID string `gorm:"primaryKey;column:property_id;type:varchar(36)" json:"property_id"`
	AmenityID  string `gorm:"primaryKey;column:amenity_id;type:varchar(36)" json:"amenity_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PropertyAmenity) TableName() string {
	return "property_amenities"
}
