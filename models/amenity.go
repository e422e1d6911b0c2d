package models

import (
	"time"
)

// Amenity is a shared catalog entity keyed by a normalized name
// (lowercase, underscored). Created lazily on first encounter and never
// deleted by property sync.
type Amenity struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string  `gorm:"column:name;size:255;uniqueIndex" json:"name"`
	DisplayName string  `gorm:"column:display_name;size:255" json:"display_name"`
	IconURL     *string `gorm:"column:icon_url;size:255" json:"icon_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
