package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// GeocodeResult is the opaque shape the zone creation UI consumes when
// turning a free-form query into an address plus coordinates.
type GeocodeResult struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a free-form location query. The app treats it as an
// external collaborator; nothing in the zone or activity paths depends on it.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*GeocodeResult, error)
}

// GoogleGeocoder backs Geocoder with the Google Maps Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleGeocoder returns nil when GOOGLE_MAPS_API_KEY is not set;
// geocoding is simply unavailable in that case.
func NewGoogleGeocoder() *GoogleGeocoder {
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		return nil
	}
	return &GoogleGeocoder{
		apiKey: key,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type googleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (*GeocodeResult, error) {
	u := fmt.Sprintf("https://maps.googleapis.com/maps/api/geocode/json?address=%s&key=%s",
		url.QueryEscape(query), g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	var body googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding geocode response: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q (status %s)", query, body.Status)
	}

	first := body.Results[0]
	return &GeocodeResult{
		Address:   first.FormattedAddress,
		Latitude:  first.Geometry.Location.Lat,
		Longitude: first.Geometry.Location.Lng,
	}, nil
}
