package hospitable

import "errors"

// MaxPages bounds every pagination loop. If upstream metadata keeps
// claiming more pages past this, the resource sync aborts with
// ErrPageLimitExceeded instead of looping forever.
const MaxPages = 10000

// ErrPageLimitExceeded signals a pagination runaway; fatal for the
// resource being synced, distinct from normal completion.
var ErrPageLimitExceeded = errors.New("hospitable: pagination limit reached")

// NextPage decides whether more pages exist after the one just fetched and
// which page number comes next. The next page is always currentPage+1:
// the counter advances monotonically regardless of what the server
// reports, so a pagination loop always reaches MaxPages even against
// inconsistent metadata (a server stuck reporting current_page=1 must not
// pin the loop to page 2 forever). meta.current_page is trusted only for
// the has-more comparison. Rules, first applicable wins:
//
//  1. meta.last_page: more iff current_page < last_page
//  2. meta.total + per_page: compare against ceil(total / per_page)
//  3. links.next: more iff present and non-null
//  4. no metadata: a full page is assumed to imply more data
func NextPage(page *Page, currentPage, requestedPerPage int) (bool, int) {
	next := currentPage + 1

	reported := currentPage
	if page.Meta != nil && page.Meta.CurrentPage != nil {
		reported = *page.Meta.CurrentPage
	}

	if page.Meta != nil && page.Meta.LastPage != nil {
		if reported < *page.Meta.LastPage {
			return true, next
		}
		return false, currentPage
	}

	if page.Meta != nil && page.Meta.Total != nil {
		perPage := requestedPerPage
		if page.Meta.PerPage != nil && *page.Meta.PerPage > 0 {
			perPage = *page.Meta.PerPage
		}
		if perPage > 0 {
			lastPage := (*page.Meta.Total + perPage - 1) / perPage
			if reported < lastPage {
				return true, next
			}
		}
		return false, currentPage
	}

	if page.Links != nil {
		if page.Links.Next != nil && *page.Links.Next != "" {
			return true, next
		}
		return false, currentPage
	}

	// Heuristic fallback: a full page may mean more data. This can
	// overshoot by one empty fetch when the final page is exactly full.
	if requestedPerPage > 0 && len(page.Records) >= requestedPerPage {
		return true, next
	}
	return false, currentPage
}
