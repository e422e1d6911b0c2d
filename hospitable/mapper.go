package hospitable

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMissingID marks a record that cannot be upserted because it carries
// no upstream identifier. The reconciler counts and skips these.
var ErrMissingID = errors.New("hospitable: record id is missing")

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// timestampLayouts tried in order by parseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func objField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]any)
	return obj
}

func listField(m map[string]any, key string) ([]any, bool) {
	if m == nil {
		return nil, false
	}
	list, ok := m[key].([]any)
	return list, ok
}

// stringField coerces a value to string, accepting JSON numbers (upstream
// ids occasionally arrive numeric).
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// optString returns nil for missing, null or empty values.
func optString(m map[string]any, key string) *string {
	s := stringField(m, key)
	if s == "" {
		return nil
	}
	return &s
}

// boolField coerces missing and null to false.
func boolField(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func optFloat(m map[string]any, key string) *float64 {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

func optInt(m map[string]any, key string) *int {
	f := optFloat(m, key)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// parseClockTime normalizes a check-in/check-out value to HH:MM:SS.
// Unparseable input yields nil, never an error.
func parseClockTime(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}

	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		out := fmt.Sprintf("%02d:%02d:%02d", hour, min, sec)
		return &out
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("15:04:05")
			return &out
		}
	}
	return nil
}

// parseTimestamp parses a datetime defensively; failure yields nil.
func parseTimestamp(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
