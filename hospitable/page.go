package hospitable

import (
	"encoding/json"
	"errors"
)

// ErrInvalidShape means the response could not be read as a record
// collection after trying every known envelope form.
var ErrInvalidShape = errors.New("hospitable: response is not a record collection")

// Meta mirrors Laravel-style pagination counters. All fields are optional;
// the resolver decides which convention applies.
type Meta struct {
	CurrentPage *int `json:"current_page"`
	LastPage    *int `json:"last_page"`
	Total       *int `json:"total"`
	PerPage     *int `json:"per_page"`
}

// Links mirrors REST-style pagination pointers.
type Links struct {
	Next *string `json:"next"`
}

// Page is the canonical decoded form of one upstream response. Every
// envelope shape the API uses ({data: [...]}, {properties|images|reviews:
// [...]}, or a bare array) normalizes to this before any mapping runs, so
// mappers never branch on response shape.
//
// Records entries are either map[string]any (objects, with any JSON-API
// attributes wrapper already merged) or string (bare image URLs).
type Page struct {
	Records []any
	Meta    *Meta
	Links   *Links

	// Guests indexes the JSON-API "included" section by id for
	// included resources of type "guest".
	Guests map[string]map[string]any
}

// collection keys tried in order when the envelope is an object.
var collectionKeys = []string{"data", "properties", "images", "reviews"}

// DecodePage normalizes a raw response body into a Page.
func DecodePage(body []byte) (*Page, error) {
	// Bare array form first.
	var bare []any
	if err := json.Unmarshal(body, &bare); err == nil {
		return &Page{Records: normalizeRecords(bare)}, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, ErrInvalidShape
	}

	page := &Page{}

	found := false
	for _, key := range collectionKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var records []any
		if err := json.Unmarshal(raw, &records); err != nil {
			// The key exists but is not an array (e.g. {data: {...}}).
			return nil, ErrInvalidShape
		}
		page.Records = normalizeRecords(records)
		found = true
		break
	}
	if !found {
		return nil, ErrInvalidShape
	}

	if raw, ok := envelope["meta"]; ok {
		var meta Meta
		if err := json.Unmarshal(raw, &meta); err == nil {
			page.Meta = &meta
		}
	}
	if raw, ok := envelope["links"]; ok {
		var links Links
		if err := json.Unmarshal(raw, &links); err == nil {
			page.Links = &links
		}
	}
	if raw, ok := envelope["included"]; ok {
		page.Guests = decodeIncludedGuests(raw)
	}

	return page, nil
}

// normalizeRecords merges the JSON-API attributes wrapper into each object
// record. The attributes win on key conflicts; id stays at the top level.
func normalizeRecords(records []any) []any {
	out := make([]any, 0, len(records))
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			out = append(out, rec)
			continue
		}
		attrs, ok := obj["attributes"].(map[string]any)
		if !ok {
			out = append(out, obj)
			continue
		}
		merged := make(map[string]any, len(obj)+len(attrs))
		for k, v := range obj {
			merged[k] = v
		}
		for k, v := range attrs {
			merged[k] = v
		}
		out = append(out, merged)
	}
	return out
}

func decodeIncludedGuests(raw json.RawMessage) map[string]map[string]any {
	var included []map[string]any
	if err := json.Unmarshal(raw, &included); err != nil {
		return nil
	}

	guests := make(map[string]map[string]any)
	for _, item := range included {
		typ, _ := item["type"].(string)
		id, _ := item["id"].(string)
		if typ != "guest" || id == "" {
			continue
		}
		if attrs, ok := item["attributes"].(map[string]any); ok {
			guests[id] = attrs
		} else {
			guests[id] = item
		}
	}
	if len(guests) == 0 {
		return nil
	}
	return guests
}

// GuestRelationshipID extracts the guest id a review points at through the
// JSON-API relationships section, if any.
func GuestRelationshipID(record map[string]any) string {
	relationships, ok := record["relationships"].(map[string]any)
	if !ok {
		return ""
	}
	guest, ok := relationships["guest"].(map[string]any)
	if !ok {
		return ""
	}
	data, ok := guest["data"].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := data["id"].(string)
	return id
}
