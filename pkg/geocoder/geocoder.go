package geocoder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/studyforge/studyforge/pkg/config"
	"github.com/studyforge/studyforge/pkg/errcodes"
)

// Result is a resolved address.
type Result struct {
	PlaceID   string
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-form address to coordinates. Implementations are
// best-effort; the sync pipeline treats failures as warnings, never as import
// errors.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Client talks to a Nominatim-compatible HTTP geocoding service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.GeocoderBaseURL,
		httpClient: &http.Client{Timeout: cfg.GeocoderTimeout},
		userAgent:  "studyforge/" + cfg.Hostname,
	}
}

type searchResponse struct {
	PlaceID   int64  `json:"place_id"`
	Latitude  string `json:"lat"`
	Longitude string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, errors.Wrap(err, "failed to decode geocoder response")
	}
	if len(results) == 0 {
		return nil, errcodes.NotFound("Address")
	}

	result := &Result{PlaceID: fmt.Sprintf("%d", results[0].PlaceID)}
	if _, err := fmt.Sscanf(results[0].Latitude, "%f", &result.Latitude); err != nil {
		return nil, errors.Wrap(err, "failed to parse latitude")
	}
	if _, err := fmt.Sscanf(results[0].Longitude, "%f", &result.Longitude); err != nil {
		return nil, errors.Wrap(err, "failed to parse longitude")
	}
	return result, nil
}
