package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinefront/dinefront/internal/pkg/env"
)

const (
	defaultDistanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	defaultGeocodeURL        = "https://maps.googleapis.com/maps/api/geocode/json"
)

// GoogleClient calls the Google Distance Matrix and Geocoding APIs. It is
// the production DistanceProvider implementation.
type GoogleClient struct {
	APIKey string

	DistanceMatrixURL string
	GeocodeURL        string

	HTTPClient *http.Client
}

func NewGoogleClientFromEnv() *GoogleClient {
	return &GoogleClient{
		APIKey:            strings.TrimSpace(env.GetEnv("GOOGLE_MAPS_API_KEY", "")),
		DistanceMatrixURL: strings.TrimSpace(env.GetEnv("GOOGLE_DISTANCE_MATRIX_URL", defaultDistanceMatrixURL)),
		GeocodeURL:        strings.TrimSpace(env.GetEnv("GOOGLE_GEOCODE_URL", defaultGeocodeURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"` // meters
				Text  string  `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Route returns the driving route between two coordinates.
func (c *GoogleClient) Route(ctx context.Context, from, to Coordinates) (Route, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return Route{}, errors.New("GOOGLE_MAPS_API_KEY is not configured")
	}

	q := url.Values{}
	q.Set("origins", fmt.Sprintf("%f,%f", from.Lat, from.Lng))
	q.Set("destinations", fmt.Sprintf("%f,%f", to.Lat, to.Lng))
	q.Set("mode", "driving")
	q.Set("key", c.APIKey)

	body, err := c.get(ctx, c.DistanceMatrixURL, q)
	if err != nil {
		return Route{}, err
	}

	var out distanceMatrixResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Route{}, err
	}
	if out.Status != "OK" {
		return Route{}, fmt.Errorf("distance matrix request failed: status=%s", out.Status)
	}
	if len(out.Rows) == 0 || len(out.Rows[0].Elements) == 0 {
		return Route{}, errors.New("distance matrix response contained no elements")
	}
	el := out.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Route{}, fmt.Errorf("no route between coordinates: status=%s", el.Status)
	}

	return Route{
		Distance: Meters(el.Distance.Value),
		Duration: time.Duration(el.Duration.Value * float64(time.Second)),
	}, nil
}

// Geocode resolves a postcode to coordinates, biased to GB.
func (c *GoogleClient) Geocode(ctx context.Context, postcode string) (Coordinates, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return Coordinates{}, errors.New("GOOGLE_MAPS_API_KEY is not configured")
	}
	if strings.TrimSpace(postcode) == "" {
		return Coordinates{}, errors.New("postcode is required")
	}

	q := url.Values{}
	q.Set("components", fmt.Sprintf("postal_code:%s|country:GB", NormalizePostcode(postcode)))
	q.Set("key", c.APIKey)

	body, err := c.get(ctx, c.GeocodeURL, q)
	if err != nil {
		return Coordinates{}, err
	}

	var out geocodeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Coordinates{}, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return Coordinates{}, fmt.Errorf("geocoding failed for %q: status=%s", postcode, out.Status)
	}

	loc := out.Results[0].Geometry.Location
	return Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (c *GoogleClient) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("maps request failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	return body, nil
}
