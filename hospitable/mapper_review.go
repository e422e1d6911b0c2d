package hospitable

import (
	"encoding/json"

	"rental-backend/models"

	"gorm.io/datatypes"
)

// avatar field names tried in order; first non-empty wins.
var avatarFields = []string{"avatar", "avatar_url", "picture", "picture_url", "photo", "photo_url"}

// name fallbacks tried only when first_name and last_name are both empty.
var nameFields = []string{"name", "display_name", "full_name"}

// MapReview converts one upstream review record into the local row. The
// record mixes a public object (rating, comment, host response) and a
// private object (internal feedback, detailed ratings); both flatten into
// the target shape.
func MapReview(propertyID string, rec map[string]any) (*models.PropertyReview, error) {
	id := stringField(rec, "id")
	if id == "" {
		return nil, ErrMissingID
	}

	public := objField(rec, "public")
	private := objField(rec, "private")

	review := &models.PropertyReview{
		ID:                     id,
		PropertyID:             propertyID,
		RatingPlatformOriginal: optString(public, "rating_platform_original"),
		ReviewedAt:             parseTimestamp(rec["reviewed_at"]),
		RespondedAt:            parseTimestamp(rec["responded_at"]),
		CanRespond:             boolField(rec, "can_respond"),
		Platform:               optString(rec, "platform"),
		PrivateFeedback:        optString(private, "feedback"),
	}

	if rating := optInt(public, "rating"); rating != nil && *rating > 0 {
		review.Rating = rating
	} else if rating := optInt(rec, "rating"); rating != nil && *rating > 0 {
		review.Rating = rating
	}

	for _, source := range []struct {
		obj map[string]any
		key string
	}{
		{public, "review"}, {public, "comment"}, {rec, "review"}, {rec, "comment"},
	} {
		if comment := optString(source.obj, source.key); comment != nil {
			review.Comment = comment
			break
		}
	}

	// The API delivers the host response as a bare string; stored form is
	// a single-element list of {text, responded_at} objects.
	if response := stringField(public, "response"); response != "" {
		wrapped := []map[string]any{{
			"text":         response,
			"responded_at": rec["responded_at"],
		}}
		if encoded, err := json.Marshal(wrapped); err == nil {
			review.Responses = datatypes.JSON(encoded)
		}
	}

	if ratings, ok := listField(private, "detailed_ratings"); ok && len(ratings) > 0 {
		if encoded, err := json.Marshal(ratings); err == nil {
			review.DetailedRatings = datatypes.JSON(encoded)
		}
	}

	var guestLanguage *string
	switch guest := rec["guest"].(type) {
	case map[string]any:
		if encoded, err := json.Marshal(guest); err == nil {
			review.GuestData = datatypes.JSON(encoded)
		}
		review.ReviewerName = guestName(guest)
		review.ReviewerAvatar = guestAvatar(guest)
		guestLanguage = optString(guest, "language")
	case string:
		// Bare id reference; keep it so a later enriched sync can fill in.
		if guest != "" {
			if encoded, err := json.Marshal(map[string]string{"id": guest}); err == nil {
				review.GuestData = datatypes.JSON(encoded)
			}
		}
	}

	if guestLanguage != nil {
		review.Language = guestLanguage
	} else if lang := optString(rec, "language"); lang != nil {
		review.Language = lang
	} else {
		review.Language = optString(rec, "lang")
	}

	return review, nil
}

// guestName concatenates first_name and last_name; the alternative name
// fields are consulted only when both parts are empty.
func guestName(guest map[string]any) *string {
	first := stringField(guest, "first_name")
	last := stringField(guest, "last_name")
	if first != "" || last != "" {
		name := first
		if first != "" && last != "" {
			name = first + " " + last
		} else if last != "" {
			name = last
		}
		return &name
	}

	for _, field := range nameFields {
		if name := optString(guest, field); name != nil {
			return name
		}
	}
	return nil
}

func guestAvatar(guest map[string]any) *string {
	for _, field := range avatarFields {
		if avatar := optString(guest, field); avatar != nil {
			return avatar
		}
	}
	return nil
}
