package models

import (
	"time"
)

// PropertyImage is one image in a property's ordered gallery. Order is
// 0-based; the image at position 0 carries is_primary.
type PropertyImage struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID string  `gorm:"column:property_id;type:varchar(36);index;index:idx_property_images_order" json:"property_id"`
	URL        string  `gorm:"column:url;size:2048" json:"url"`
	Caption    *string `gorm:"column:caption;size:255" json:"caption"`
	Order      int     `gorm:"column:order;default:0;index:idx_property_images_order" json:"order"`
	IsPrimary  bool    `gorm:"column:is_primary;default:false" json:"is_primary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}
