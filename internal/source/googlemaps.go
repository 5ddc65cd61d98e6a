package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/pkg/logger"
)

// googleMapsAdapter talks to the maps-places search family:
// POST {query, location, tbs?} -> {places: [{title, address, phoneNumber,
// website, rating, ratingCount, category}]}. Some deployments send
// "phone" and a "categories" array instead; both are tolerated.
type googleMapsAdapter struct {
	baseURL string
	client  *http.Client
	logger  logger.ILogger
}

func NewGoogleMapsAdapter(baseURL string, log logger.ILogger) Adapter {
	return &googleMapsAdapter{
		baseURL: baseURL,
		client:  defaultHTTPClient,
		logger:  log,
	}
}

func (a *googleMapsAdapter) Name() string            { return "Google Maps" }
func (a *googleMapsAdapter) Kind() entity.RecordKind { return entity.KindPlace }

func (a *googleMapsAdapter) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
	body := map[string]string{
		"query":    q.Query,
		"location": q.Location,
	}
	if q.Timeframe != "" {
		body["tbs"] = q.Timeframe
	}

	raw, err := postJSON(ctx, a.client, a.baseURL+"/search-places/", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Places []struct {
			Title       string   `json:"title"`
			Address     string   `json:"address"`
			PhoneNumber string   `json:"phoneNumber"`
			Phone       string   `json:"phone"`
			Website     string   `json:"website"`
			Rating      *float64 `json:"rating"`
			RatingCount *int     `json:"ratingCount"`
			Category    string   `json:"category"`
			Categories  []string `json:"categories"`
		} `json:"places"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		a.logger.Error("GoogleMapsAdapter", "Unparseable envelope", map[string]interface{}{
			"error": err.Error(),
			"raw":   string(raw),
		})
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	records := make([]entity.ResultRecord, 0, len(envelope.Places))
	for i, p := range envelope.Places {
		phone := p.PhoneNumber
		if phone == "" {
			phone = p.Phone
		}
		category := p.Category
		if category == "" && len(p.Categories) > 0 {
			category = strings.Join(p.Categories, ", ")
		}
		records = append(records, entity.ResultRecord{
			ID:          i + 1,
			Kind:        entity.KindPlace,
			Name:        p.Title,
			Address:     p.Address,
			Phone:       phone,
			Website:     p.Website,
			Rating:      p.Rating,
			RatingCount: p.RatingCount,
			Category:    category,
			Source:      a.Name(),
			Location:    q.Location,
		})
	}
	return records, nil
}
