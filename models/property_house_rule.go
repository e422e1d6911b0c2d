package models

import (
	"time"
)

// PropertyHouseRule is a one-to-one companion of Property; property_id is
// the primary key. Upstream nulls are coerced to false before storage.
type PropertyHouseRule struct {
	PropertyID     string `gorm:"primaryKey;column:property_id;type:varchar(36)" json:"property_id"`
	PetsAllowed    bool   `gorm:"column:pets_allowed;default:false" json:"pets_allowed"`
	SmokingAllowed bool   `gorm:"column:smoking_allowed;default:false" json:"smoking_allowed"`
	EventsAllowed  bool   `gorm:"column:events_allowed;default:false" json:"events_allowed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PropertyHouseRule) TableName() string {
	return "property_house_rules"
}
