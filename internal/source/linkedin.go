package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/pkg/logger"
)

// linkedInAdapter talks to the professional-network search family:
// POST {query, location?} -> {results: [{name, title, organization, email,
// phone, url, location}]}.
type linkedInAdapter struct {
	baseURL string
	client  *http.Client
	logger  logger.ILogger
}

func NewLinkedInAdapter(baseURL string, log logger.ILogger) Adapter {
	return &linkedInAdapter{
		baseURL: baseURL,
		client:  defaultHTTPClient,
		logger:  log,
	}
}

func (a *linkedInAdapter) Name() string            { return "LinkedIn" }
func (a *linkedInAdapter) Kind() entity.RecordKind { return entity.KindContact }

func (a *linkedInAdapter) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
	body := map[string]string{"query": q.Query}
	if q.Location != "" {
		body["location"] = q.Location
	}

	raw, err := postJSON(ctx, a.client, a.baseURL+"/search-leads/", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Results []struct {
			Name         string `json:"name"`
			Title        string `json:"title"`
			Organization string `json:"organization"`
			Email        string `json:"email"`
			Phone        string `json:"phone"`
			URL          string `json:"url"`
			Location     string `json:"location"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		a.logger.Error("LinkedInAdapter", "Unparseable envelope", map[string]interface{}{
			"error": err.Error(),
			"raw":   string(raw),
		})
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// organization -> company and url -> source are the user-visible
	// schema; ids are 1-based payload positions.
	records := make([]entity.ResultRecord, 0, len(envelope.Results))
	for i, r := range envelope.Results {
		records = append(records, entity.ResultRecord{
			ID:       i + 1,
			Kind:     entity.KindContact,
			Name:     r.Name,
			Title:    r.Title,
			Company:  r.Organization,
			Email:    r.Email,
			Phone:    r.Phone,
			Source:   r.URL,
			Location: r.Location,
		})
	}
	return records, nil
}
