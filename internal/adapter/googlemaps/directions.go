package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
)

// DirectionsClient talks to the directions provider over raw HTTP.
type DirectionsClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewDirections(apiKey, baseURL string, timeout time.Duration) *DirectionsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DirectionsClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"legs"`
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
	} `json:"routes"`
}

// Directions requests one route between origin and destination.
// A non-OK provider status or an empty route list yields (nil, nil):
// callers degrade to a straight line, never treat it as fatal.
func (c *DirectionsClient) Directions(ctx context.Context, origin, dest models.GeoCoordinate) (*models.RouteResult, error) {
	const op = "DirectionsClient.Directions"

	reqURL := fmt.Sprintf("%s?origin=%f,%f&destination=%f,%f&key=%s",
		c.baseURL,
		origin.Latitude, origin.Longitude,
		dest.Latitude, dest.Longitude,
		c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if payload.Status != "OK" || len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return nil, nil
	}

	route := payload.Routes[0]
	points, err := DecodePolyline(route.OverviewPolyline.Points)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: failed to decode polyline: %w", op, err))
	}

	return &models.RouteResult{
		Points:          points,
		DistanceMeters:  route.Legs[0].Distance.Value,
		DurationSeconds: route.Legs[0].Duration.Value,
	}, nil
}
