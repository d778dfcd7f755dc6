package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"imsdash/internal/domain"
)

// SortKey selects the comparator for the candidate view.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByDepartment SortKey = "department"
)

// View derives the filtered, sorted, paginated rows from the committed
// records and the three independently-timed inputs: debounced query, sort
// key, and page. The derivation is synchronous and deterministic; Rows always
// reflects exactly the latest committed inputs.
type View struct {
	records  []domain.CandidateRecord
	query    string // echoed back to the input control immediately
	debounce DebounceSlot
	dq       string // debouncedQuery, the only input used for filtering
	sortKey  SortKey
	page     int
	pageSize int

	collator *collate.Collator
}

// NewView returns an empty view with the given page size.
func NewView(pageSize int) *View {
	if pageSize < 1 {
		pageSize = 1
	}
	return &View{
		sortKey:  SortByName,
		page:     1,
		pageSize: pageSize,
		collator: collate.New(language.English, collate.Loose),
	}
}

// SetRecords replaces the backing collection, keeping the fetch order as the
// tiebreak order for stable sorting. The page is re-clamped against the new
// filtered size.
func (v *View) SetRecords(records []domain.CandidateRecord) {
	v.records = records
	v.clampPage()
}

// Query returns the raw query text, for echoing into the search input.
func (v *View) Query() string { return v.query }

// DebouncedQuery returns the query value currently applied to filtering.
func (v *View) DebouncedQuery() string { return v.dq }

// SetQuery records a keystroke: the raw query updates immediately, the page
// resets to 1, and the debounce slot is re-armed. The returned generation
// must be delivered back via ApplyDebounced after the quiet period.
func (v *View) SetQuery(q string) uint64 {
	v.query = q
	v.page = 1
	return v.debounce.Arm(q)
}

// ApplyDebounced applies the pending query edit if gen is still the newest
// one. Returns whether the debounced query changed.
func (v *View) ApplyDebounced(gen uint64) bool {
	value, ok := v.debounce.Fire(gen)
	if !ok || value == v.dq {
		return false
	}
	v.dq = value
	v.page = 1
	v.clampPage()
	return true
}

// SortKey returns the active sort key.
func (v *View) SortKey() SortKey { return v.sortKey }

// SetSortKey changes the comparator and resets the page, since a changed
// criterion invalidates the prior page position.
func (v *View) SetSortKey(key SortKey) {
	if key != SortByName && key != SortByDepartment {
		return
	}
	if key == v.sortKey {
		return
	}
	v.sortKey = key
	v.page = 1
}

// Page returns the current 1-based page index.
func (v *View) Page() int { return v.page }

// SetPage moves to page n, clamped into [1, TotalPages]. Out-of-bounds
// navigation is a no-op at the edges, never an error.
func (v *View) SetPage(n int) {
	v.page = n
	v.clampPage()
}

// NextPage advances one page, clamped at the last page.
func (v *View) NextPage() { v.SetPage(v.page + 1) }

// PrevPage goes back one page, clamped at the first page.
func (v *View) PrevPage() { v.SetPage(v.page - 1) }

// Filtered returns the records matching the debounced query, in fetch order.
// A record matches when the query is empty, or is a case-insensitive
// substring of "firstName lastName" or of the username.
func (v *View) Filtered() []domain.CandidateRecord {
	needle := strings.ToLower(strings.TrimSpace(v.dq))
	out := make([]domain.CandidateRecord, 0, len(v.records))
	for _, r := range v.records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.FullName()), needle) ||
			strings.Contains(strings.ToLower(r.Username), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sorted returns the filtered records ordered by the active sort key. The
// sort is stable: records with equal keys keep their relative fetch order.
func (v *View) Sorted() []domain.CandidateRecord {
	out := v.Filtered()
	switch v.sortKey {
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return v.collator.CompareString(out[i].FullName(), out[j].FullName()) < 0
		})
	case SortByDepartment:
		// Absent department is the empty string and sorts first.
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Department < out[j].Department
		})
	}
	return out
}

// TotalPages returns max(1, ceil(filteredCount / pageSize)).
func (v *View) TotalPages() int {
	n := len(v.Filtered())
	pages := (n + v.pageSize - 1) / v.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Rows returns the current page of the sorted, filtered records.
func (v *View) Rows() []domain.CandidateRecord {
	sorted := v.Sorted()
	start := (v.page - 1) * v.pageSize
	if start >= len(sorted) {
		return nil
	}
	end := start + v.pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}

// FilteredCount returns the number of records matching the debounced query.
func (v *View) FilteredCount() int { return len(v.Filtered()) }

func (v *View) clampPage() {
	if v.page < 1 {
		v.page = 1
	}
	if max := v.TotalPages(); v.page > max {
		v.page = max
	}
}
