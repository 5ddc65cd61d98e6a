package entity

import "time"

// RecordKind discriminates the two result shapes a search can produce.
// Adapters set it explicitly at creation time; StructuralKind exists only
// as a fallback for untyped inputs.
type RecordKind string

const (
	KindContact RecordKind = "contact"
	KindPlace   RecordKind = "place"
)

// ResultRecord is one normalized search result. Which fields are populated
// depends on Kind: contact records carry Title/Company/Email, place records
// carry Address/Website/Rating/Category. Optional fields stay zero-valued
// when the backend omitted them; rendering maps absence to a placeholder
// instead of failing.
type ResultRecord struct {
	ID   int        `json:"id"`
	Kind RecordKind `json:"kind"`

	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Source   string `json:"source,omitempty"`
	Location string `json:"location,omitempty"`

	Address     string   `json:"address,omitempty"`
	Website     string   `json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// StructuralKind guesses the record shape from field presence. Only used
// when a record arrives without its discriminator (legacy payloads); the
// adapter-assigned Kind always wins.
func StructuralKind(r ResultRecord) RecordKind {
	if r.Kind != "" {
		return r.Kind
	}
	if r.Address != "" && r.Company == "" && r.Email == "" {
		return KindPlace
	}
	return KindContact
}

// ResultSet is the full, unfiltered output of one completed search. All
// records share the same Kind because a single adapter produced them.
type ResultSet struct {
	Query       string         `json:"query"`
	Source      string         `json:"source"`
	Kind        RecordKind     `json:"kind"`
	Records     []ResultRecord `json:"records"`
	CompletedAt time.Time      `json:"completed_at"`
}

// Len is a nil-safe record count.
func (s *ResultSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
