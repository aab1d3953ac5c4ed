package measure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"instaquote/models"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

var ErrGeocoderNotConfigured = errors.New("measure: geocoder api key missing")

// GoogleGeocoder resolves addresses with the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocoder returns a geocoder with a 10 second request timeout.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		apiKey:     apiKey,
		baseURL:    googleGeocodeURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the geocoder at another endpoint, e.g. a test server.
func (g *GoogleGeocoder) WithBaseURL(u string) *GoogleGeocoder {
	g.baseURL = u
	return g
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (GeocodeResult, error) {
	if g.apiKey == "" {
		return GeocodeResult{}, ErrGeocoderNotConfigured
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return GeocodeResult{}, ErrAddressRequired
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("build geocode request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return GeocodeResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GeocodeResult{}, fmt.Errorf("geocode returned %s", resp.Status)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}
	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return GeocodeResult{}, ErrAddressNotFound
	default:
		return GeocodeResult{}, fmt.Errorf("geocode status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return GeocodeResult{}, ErrAddressNotFound
	}

	first := body.Results[0]
	return GeocodeResult{
		Location:         models.LatLng{Lat: first.Geometry.Location.Lat, Lng: first.Geometry.Location.Lng},
		FormattedAddress: first.FormattedAddress,
	}, nil
}

type geocodeResponse struct {
	Results      []geocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}
