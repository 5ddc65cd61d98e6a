package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/pkg/logger"
)

// aggregatorAdapter talks to the generic lead aggregator family. The
// backend already returns contact-shaped objects under a {leads: [...]}
// envelope (older deployments use {results: [...]}); fields pass through
// unchanged, with anything missing defaulting to empty.
type aggregatorAdapter struct {
	name    string
	baseURL string
	client  *http.Client
	logger  logger.ILogger
}

func NewAggregatorAdapter(name, baseURL string, log logger.ILogger) Adapter {
	return &aggregatorAdapter{
		name:    name,
		baseURL: baseURL,
		client:  defaultHTTPClient,
		logger:  log,
	}
}

func (a *aggregatorAdapter) Name() string            { return a.name }
func (a *aggregatorAdapter) Kind() entity.RecordKind { return entity.KindContact }

func (a *aggregatorAdapter) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
	raw, err := postJSON(ctx, a.client, a.baseURL+"/search/", map[string]string{"query": q.Query})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Leads   []aggregatorLead `json:"leads"`
		Results []aggregatorLead `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		a.logger.Error("AggregatorAdapter", "Unparseable envelope", map[string]interface{}{
			"error": err.Error(),
			"raw":   string(raw),
		})
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	leads := envelope.Leads
	if len(leads) == 0 {
		leads = envelope.Results
	}

	records := make([]entity.ResultRecord, 0, len(leads))
	for i, l := range leads {
		src := l.Source
		if src == "" {
			src = a.name
		}
		records = append(records, entity.ResultRecord{
			ID:       i + 1,
			Kind:     entity.KindContact,
			Name:     l.Name,
			Title:    l.Title,
			Company:  l.Company,
			Email:    l.Email,
			Phone:    l.Phone,
			Source:   src,
			Location: l.Location,
		})
	}
	return records, nil
}

type aggregatorLead struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
	Location string `json:"location"`
}
