package hospitable

// ImageRecord is one normalized gallery entry before order assignment.
type ImageRecord struct {
	URL     string
	Caption *string
}

// url field names tried in order for object-form image records.
var imageURLFields = []string{"url", "picture", "image_url", "src"}

// caption field names tried in order.
var imageCaptionFields = []string{"caption", "description", "title"}

// MapImage normalizes one image record, which may be a bare URL string or
// an object. Records without a resolvable URL report ok=false and are
// skipped by the caller.
func MapImage(rec any) (ImageRecord, bool) {
	switch v := rec.(type) {
	case string:
		if v == "" {
			return ImageRecord{}, false
		}
		return ImageRecord{URL: v}, true
	case map[string]any:
		var url string
		for _, field := range imageURLFields {
			if url = stringField(v, field); url != "" {
				break
			}
		}
		if url == "" {
			return ImageRecord{}, false
		}

		var caption *string
		for _, field := range imageCaptionFields {
			if caption = optString(v, field); caption != nil {
				break
			}
		}
		return ImageRecord{URL: url, Caption: caption}, true
	default:
		return ImageRecord{}, false
	}
}

// DedupImages collapses entries with identical URLs, keeping the first
// occurrence (and its caption). Positions after dedup define final order;
// position 0 is the primary image.
func DedupImages(images []ImageRecord) []ImageRecord {
	seen := make(map[string]bool, len(images))
	out := make([]ImageRecord, 0, len(images))
	for _, img := range images {
		if seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		out = append(out, img)
	}
	return out
}
