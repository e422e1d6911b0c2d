package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoomDetail describes one room of a property (bedroom, full_bathroom,
// kitchen, ...). Beds holds a list of {type, quantity} descriptors.
type RoomDetail struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string         `gorm:"column:property_id;type:varchar(36);index" json:"property_id"`
	Type       string         `gorm:"column:type;size:255" json:"type"`
	Beds       datatypes.JSON `gorm:"column:beds" json:"beds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RoomDetail) TableName() string {
	return "room_details"
}
