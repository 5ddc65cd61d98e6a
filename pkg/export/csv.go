// Package export turns a result set into a portable CSV artifact with a
// deterministic field order. Missing fields render as empty strings, never
// as a "null" literal.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"leadgen-suite-be/internal/entity"
)

// ErrNoRecordsToExport is returned when an export is requested for zero
// records. Exporting nothing is a user error, not a silent empty file.
var ErrNoRecordsToExport = errors.New("no records to export")

var whitespace = regexp.MustCompile(`\s+`)

var contactHeaders = []string{"Name", "Title", "Company", "Email", "Phone", "Source", "Location"}
var placeHeaders = []string{"Name", "Address", "Phone", "Website", "Rating", "RatingCount", "Category"}

// Artifact is one produced CSV download.
type Artifact struct {
	Filename    string
	Content     string
	RecordCount int
}

// Build renders records (already filtered, if applicable) into an Artifact.
// The label is the originating query string and only influences the
// filename; now supplies the timestamp suffix so tests can fix the clock.
func Build(records []entity.ResultRecord, kind entity.RecordKind, label string, now time.Time) (*Artifact, error) {
	if len(records) == 0 {
		return nil, ErrNoRecordsToExport
	}

	return &Artifact{
		Filename:    Filename(label, now),
		Content:     Content(records, kind),
		RecordCount: len(records),
	}, nil
}

// Filename derives `leads_<label>_<epoch-millis>.csv` with whitespace runs
// replaced by underscores. No other sanitizing: remaining characters pass
// through as-is.
func Filename(label string, now time.Time) string {
	return fmt.Sprintf("leads_%s_%d.csv", whitespace.ReplaceAllString(label, "_"), now.UnixMilli())
}

// Content renders the CSV text: a header row for the record kind, then one
// row per record with every field double-quoted.
func Content(records []entity.ResultRecord, kind entity.RecordKind) string {
	headers := contactHeaders
	if kind == entity.KindPlace {
		headers = placeHeaders
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))

	for _, r := range records {
		var fields []string
		if kind == entity.KindPlace {
			fields = []string{r.Name, r.Address, r.Phone, r.Website, formatRating(r.Rating), formatCount(r.RatingCount), r.Category}
		} else {
			fields = []string{r.Name, r.Title, r.Company, r.Email, r.Phone, r.Source, r.Location}
		}
		lines = append(lines, joinQuoted(fields))
	}

	return strings.Join(lines, "\n")
}

func joinQuoted(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func formatRating(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func formatCount(c *int) string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(*c)
}
