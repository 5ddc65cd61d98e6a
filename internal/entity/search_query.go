package entity

// SearchQuery is a single user submission. It is consumed once by the
// orchestrator; only its string form ends up in search history.
type SearchQuery struct {
	Query    string
	Location string
	// Timeframe is the backend's time-window token (e.g. "qdr:y" for the
	// maps family). Empty means backend default.
	Timeframe string
}
