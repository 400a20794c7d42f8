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

var ErrNoMatrixResult = fmt.Errorf("distance matrix returned no usable element")

// MatrixClient talks to the distance-matrix provider over raw HTTP.
type MatrixClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewMatrix(apiKey, baseURL string, timeout time.Duration) *MatrixClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MatrixClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// RoadDistanceMeters returns the driving distance between two points.
func (c *MatrixClient) RoadDistanceMeters(ctx context.Context, origin, dest models.GeoCoordinate) (int, error) {
	const op = "MatrixClient.RoadDistanceMeters"

	reqURL := fmt.Sprintf("%s?origins=%f,%f&destinations=%f,%f&key=%s",
		c.baseURL,
		origin.Latitude, origin.Longitude,
		dest.Latitude, dest.Longitude,
		c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("%s: request failed: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: failed to decode response: %w", op, err))
	}

	if payload.Status != "OK" || len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w", op, ErrNoMatrixResult))
	}

	element := payload.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w: element status %s", op, ErrNoMatrixResult, element.Status))
	}

	return element.Distance.Value, nil
}
