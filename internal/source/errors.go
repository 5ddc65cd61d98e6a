package source

import "errors"

// ErrSourceUnavailable covers transport failures and non-2xx responses
// from a search backend. Never retried automatically.
var ErrSourceUnavailable = errors.New("search backend unavailable")

// ErrMalformedResponse means the backend answered but the top-level
// envelope did not match expectations. Treated like an unavailable source
// from the user's perspective, but logged with the raw payload.
var ErrMalformedResponse = errors.New("search backend returned malformed response")
