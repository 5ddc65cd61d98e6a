// Package filter computes the presented view of a result set. It is a pure
// function of (base set, predicates): every change recomputes from scratch.
// Result sets are small (a few hundred records at most), so correctness from
// simplicity beats incremental updates here.
package filter

import (
	"sort"
	"strings"

	"leadgen-suite-be/internal/entity"
)

// Predicates maps result fields to case-insensitive substring patterns.
// Empty patterns are ignored. Company/Source/Location apply to contact
// records; Address/Category are the place-record equivalents, and Source/
// Location apply to both shapes.
type Predicates struct {
	Company  string `json:"company,omitempty"`
	Source   string `json:"source,omitempty"`
	Location string `json:"location,omitempty"`
	Address  string `json:"address,omitempty"`
	Category string `json:"category,omitempty"`
}

// Empty reports whether no predicate is active.
func (p Predicates) Empty() bool {
	return p.Company == "" && p.Source == "" && p.Location == "" &&
		p.Address == "" && p.Category == ""
}

// Apply returns the records passing every active predicate, in base order.
// The base slice is never mutated. A record with an absent field fails any
// non-empty predicate on that field.
func Apply(records []entity.ResultRecord, p Predicates) []entity.ResultRecord {
	if p.Empty() {
		view := make([]entity.ResultRecord, len(records))
		copy(view, records)
		return view
	}

	view := make([]entity.ResultRecord, 0, len(records))
	for _, r := range records {
		if !matches(r.Company, p.Company) {
			continue
		}
		if !matches(r.Source, p.Source) {
			continue
		}
		if !matches(r.Location, p.Location) {
			continue
		}
		if !matches(r.Address, p.Address) {
			continue
		}
		if !matches(r.Category, p.Category) {
			continue
		}
		view = append(view, r)
	}
	return view
}

// SortByRatingDesc orders a view by rating, highest first, records without
// a rating last. This is a display-only default for place sets, not a
// correctness contract; the sort is stable and works on a copy.
func SortByRatingDesc(view []entity.ResultRecord) []entity.ResultRecord {
	sorted := make([]entity.ResultRecord, len(view))
	copy(sorted, view)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Rating, sorted[j].Rating
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri > *rj
	})
	return sorted
}

func matches(field, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(pattern))
}
