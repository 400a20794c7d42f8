package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
)

type StoreQueries interface {
	NearbyStores(ctx context.Context, point models.GeoCoordinate, radiusKm float64) ([]models.StoreWithDistance, error)
}

type Geocoder interface {
	ForwardGeocode(ctx context.Context, address string) *models.GeoCoordinate
}

type Store struct {
	queries  StoreQueries
	geocoder Geocoder
	log      logger.Logger
}

func NewStore(queries StoreQueries, geocoder Geocoder, log logger.Logger) *Store {
	return &Store{queries: queries, geocoder: geocoder, log: log}
}

// Nearby godoc
// @Summary      Open stores near a point
// @Description  Accepts either lat/lng or a free-form address, ranks open stores by distance
// @Tags         Stores
// @Produce      json
// @Param        lat        query     number  false  "Latitude"
// @Param        lng        query     number  false  "Longitude"
// @Param        address    query     string  false  "Address, geocoded when lat/lng are absent"
// @Param        radius_km  query     number  false  "Search radius in km"
// @Success      200        {object}  map[string]any
// @Failure      422        {object}  map[string]any
// @Router       /stores/nearby [get]
func (h *Store) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_nearby_stores")

	point, ok := h.resolvePoint(ctx, w, r)
	if !ok {
		return
	}

	radiusKm := 0.0
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			badRequestResponse(w, "radius_km must be a positive number")
			return
		}
		radiusKm = parsed
	}

	stores, err := h.queries.NearbyStores(ctx, point, radiusKm)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to rank nearby stores", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"stores": stores}, nil)
}

// resolvePoint reads the query point from lat/lng, or geocodes the
// address parameter when coordinates are absent.
func (h *Store) resolvePoint(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.GeoCoordinate, bool) {
	q := r.URL.Query()

	if q.Get("lat") != "" || q.Get("lng") != "" {
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)

		v := validator.New()
		v.Check(latErr == nil, "lat", "must be a number")
		v.Check(lngErr == nil, "lng", "must be a number")
		if v.Valid() {
			v.Check(lat >= -90 && lat <= 90, "lat", "must be between -90 and 90")
			v.Check(lng >= -180 && lng <= 180, "lng", "must be between -180 and 180")
		}
		if !v.Valid() {
			failedValidationResponse(w, v.Errors)
			return models.GeoCoordinate{}, false
		}
		return models.GeoCoordinate{Latitude: lat, Longitude: lng}, true
	}

	address := q.Get("address")
	if address == "" {
		badRequestResponse(w, "either lat/lng or address must be provided")
		return models.GeoCoordinate{}, false
	}

	coord := h.geocoder.ForwardGeocode(ctx, address)
	if coord == nil {
		errorResponse(w, http.StatusNotFound, "address could not be resolved")
		return models.GeoCoordinate{}, false
	}
	return *coord, true
}
