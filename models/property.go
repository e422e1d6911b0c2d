package models

import (
	"time"
)

// Property is a vacation-rental listing. The ID is issued by the upstream
// hospitality API (UUID string) and acts as the natural key for upserts.
type Property struct {
	ID       string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ParentID *string `gorm:"column:parent_id;type:varchar(36);index" json:"parent_id,omitempty"`

	Name           string  `gorm:"column:name;size:255" json:"name"`
	PublicName     *string `gorm:"column:public_name;size:255" json:"public_name"`
	PictureURL     *string `gorm:"column:picture_url;size:2048" json:"picture_url"`
	TimezoneOffset *string `gorm:"column:timezone_offset;size:10" json:"timezone"`
	Listed         bool    `gorm:"column:listed;default:false;index" json:"listed"`
	Currency       *string `gorm:"column:currency;size:8" json:"currency"`
	Summary        *string `gorm:"column:summary;type:text" json:"summary"`
	Description    *string `gorm:"column:description;type:longtext" json:"description"`

	// Normalized to HH:MM:SS by the sync mapper, or null.
	CheckinTime  *string `gorm:"column:checkin_time;size:8" json:"checkin_time"`
	CheckoutTime *string `gorm:"column:checkout_time;size:8" json:"checkout_time"`

	PropertyType       *string `gorm:"column:property_type;size:255" json:"property_type"`
	RoomType           *string `gorm:"column:room_type;size:255" json:"room_type"`
	CalendarRestricted bool    `gorm:"column:calendar_restricted;default:false" json:"calendar_restricted"`

	AddressNumber      *string  `gorm:"column:address_number;size:255" json:"address_number"`
	AddressStreet      *string  `gorm:"column:address_street;size:255" json:"address_street"`
	AddressCity        *string  `gorm:"column:address_city;size:255;index:idx_properties_city_state" json:"address_city"`
	AddressState       *string  `gorm:"column:address_state;size:64;index:idx_properties_city_state" json:"address_state"`
	AddressPostcode    *string  `gorm:"column:address_postcode;size:32" json:"address_postcode"`
	AddressCountryCode *string  `gorm:"column:address_country_code;size:2" json:"address_country_code"`
	AddressCountryName *string  `gorm:"column:address_country_name;size:128" json:"address_country_name"`
	AddressDisplay     *string  `gorm:"column:address_display;size:255" json:"address_display"`
	Latitude           *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude          *float64 `gorm:"column:longitude" json:"longitude"`

	CapacityMax       *int     `gorm:"column:capacity_max" json:"capacity_max"`
	CapacityBedrooms  *int     `gorm:"column:capacity_bedrooms" json:"capacity_bedrooms"`
	CapacityBeds      *int     `gorm:"column:capacity_beds" json:"capacity_beds"`
	CapacityBathrooms *float64 `gorm:"column:capacity_bathrooms;type:decimal(3,1)" json:"capacity_bathrooms"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	HouseRules  *PropertyHouseRule `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"house_rules,omitempty"`
	Amenities   []Amenity          `gorm:"many2many:property_amenities;joinForeignKey:PropertyID;joinReferences:AmenityID" json:"amenities,omitempty"`
	Images      []PropertyImage    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Reviews     []PropertyReview   `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	RoomDetails []RoomDetail       `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"room_details,omitempty"`
	Parent      *Property          `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []Property         `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
