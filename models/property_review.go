package models

import (
	"time"

	"gorm.io/datatypes"
)

// PropertyReview is a guest review, keyed by the upstream review id so
// re-syncs update in place.
type PropertyReview struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PropertyID string `gorm:"column:property_id;type:varchar(36);index;index:idx_property_reviews_reviewed" json:"property_id"`

	ReviewerName   *string        `gorm:"column:reviewer_name;size:255" json:"reviewer_name"`
	ReviewerAvatar *string        `gorm:"column:reviewer_avatar;size:2048" json:"reviewer_avatar"`
	GuestData      datatypes.JSON `gorm:"column:guest_data" json:"guest_data"`

	Rating                 *int    `gorm:"column:rating;index" json:"rating"`
	RatingPlatformOriginal *string `gorm:"column:rating_platform_original;size:10" json:"rating_platform_original"`
	Comment                *string `gorm:"column:comment;type:text" json:"comment"`

	ReviewedAt  *time.Time `gorm:"column:reviewed_at;index:idx_property_reviews_reviewed" json:"reviewed_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at"`
	CanRespond  bool       `gorm:"column:can_respond;default:false" json:"can_respond"`

	Platform *string `gorm:"column:platform;size:50" json:"platform"`
	Language *string `gorm:"column:language;size:10" json:"language"`

	// List of host-reply objects {text, responded_at}.
	Responses       datatypes.JSON `gorm:"column:responses" json:"responses"`
	PrivateFeedback *string        `gorm:"column:private_feedback;type:text" json:"private_feedback"`
	// List of {type, rating} pairs (cleanliness, accuracy, checkin, ...).
	DetailedRatings datatypes.JSON `gorm:"column:detailed_ratings" json:"detailed_ratings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PropertyReview) TableName() string {
	return "property_reviews"
}
