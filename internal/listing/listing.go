// Package listing filters fetched resume and activity lists in memory.
// Filtering is pure: it never mutates the input and preserves order.
package listing

import (
	"strings"
	"time"

	"github.com/jonathan/resume-studio/internal/types"
)

// Filters narrows a resume list. Zero values disable the corresponding
// predicate: empty Query matches everything, Status "" or "all" matches
// every status, a zero Date skips the date check.
type Filters struct {
	Query  string
	Status string
	Date   time.Time
}

// FilterResumes returns the subsequence of items matching every active
// predicate. The query is matched case-insensitively against fileName and
// jobTitle; the date is compared by calendar day, not by instant.
func FilterResumes(items []types.Resume, f Filters) []types.Resume {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]types.Resume, 0, len(items))
	for _, r := range items {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.FileName), query) &&
			!strings.Contains(strings.ToLower(r.JobTitle), query) {
			continue
		}
		if f.Status != "" && f.Status != types.StatusFilterAll && r.Status() != f.Status {
			continue
		}
		if !f.Date.IsZero() && !sameDay(r.CreatedAt, f.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterActivities narrows an activity list by a text query over action,
// detail and user email, and by calendar date.
func FilterActivities(items []types.Activity, query string, date time.Time) []types.Activity {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]types.Activity, 0, len(items))
	for _, a := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Action), q) &&
			!strings.Contains(strings.ToLower(a.Detail), q) &&
			!strings.Contains(strings.ToLower(a.UserEmail), q) {
			continue
		}
		if !date.IsZero() && !sameDay(a.CreatedAt, date) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	a, b = a.Local(), b.Local()
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
