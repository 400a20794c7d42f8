package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
)

var (
	ErrLocationNotFound = fmt.Errorf("location not found")
)

type LocationIQClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey, baseURL string, timeout time.Duration) *LocationIQClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LocationIQClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type AddressPayload struct {
	Address string `json:"display_name"`
}

// GetAddress resolves a coordinate to a display address (reverse geocode).
func (c *LocationIQClient) GetAddress(ctx context.Context, coord models.GeoCoordinate) (string, error) {
	const op = "LocationIQClient.GetAddress"

	reqURL := fmt.Sprintf("%s/reverse?key=%s&lat=%f&lon=%f&format=json",
		c.baseURL, c.apiKey, coord.Latitude, coord.Longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload AddressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to decode LocationIQ response: %w", op, err))
	}

	return payload.Address, nil
}

// GetLocation resolves an address to a coordinate (forward geocode).
func (c *LocationIQClient) GetLocation(ctx context.Context, address string) (models.GeoCoordinate, error) {
	const op = "LocationIQClient.GetLocation"
	ctx = wrap.WithAction(ctx, "locationiq_get_location")

	reqURL := fmt.Sprintf("%s/search?key=%s&q=%s&format=json",
		c.baseURL, c.apiKey, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to decode LocationIQ response: %w", op, err))
	}

	if len(results) == 0 {
		return models.GeoCoordinate{}, wrap.Error(ctx, ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.GeoCoordinate{}, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return models.GeoCoordinate{Latitude: lat, Longitude: lon}, nil
}
