package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/handler/dto"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	"github.com/google/uuid"
)

type TrackerService interface {
	IngestFix(ctx context.Context, msg models.DriverFixMessage) error
	ReportPermissionDenied(ctx context.Context, driverID uuid.UUID) error
	SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error
	DailyRoute(ctx context.Context, driverID uuid.UUID, day time.Time) (*models.DailyRoute, error)
}

type LocationService interface {
	CurrentPosition(ctx context.Context, driverID uuid.UUID) (models.GeoCoordinate, error)
	ReverseGeocode(ctx context.Context, coord models.GeoCoordinate) string
}

type Driver struct {
	tracker  TrackerService
	location LocationService
	log      logger.Logger
}

func NewDriver(tracker TrackerService, location LocationService, log logger.Logger) *Driver {
	return &Driver{
		tracker:  tracker,
		location: location,
		log:      log,
	}
}

// IngestFix godoc
// @Summary      Report a position fix
// @Description  Accepts one courier position report
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        id   path      string                true  "Driver ID"
// @Param        fix  body      dto.DriverFixRequest  true  "Position fix"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /drivers/{id}/fixes [post]
func (h *Driver) IngestFix(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_ingest_fix")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	var req dto.DriverFixRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	if err := h.tracker.IngestFix(ctx, req.ToMessage(driverID)); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to ingest fix", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, envelope{"status": "accepted"}, nil)
}

// SetAvailability godoc
// @Summary      Set driver availability
// @Tags         Drivers
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Driver ID"
// @Param        body  body      dto.AvailabilityRequest  true  "Availability"
// @Success      200   {object}  map[string]bool
// @Router       /drivers/{id}/availability [post]
func (h *Driver) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_set_availability")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	var req dto.AvailabilityRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	if err := h.tracker.SetAvailability(ctx, driverID, *req.IsAvailable); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to set availability", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"is_available": *req.IsAvailable}, nil)
}

// ReportPermissionDenied godoc
// @Summary      Report a location permission refusal
// @Description  Marks the courier device as having refused location access
// @Tags         Drivers
// @Produce      json
// @Param        id  path      string  true  "Driver ID"
// @Success      200 {object}  map[string]string
// @Router       /drivers/{id}/location-denied [post]
func (h *Driver) ReportPermissionDenied(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_permission_denied")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	if err := h.tracker.ReportPermissionDenied(ctx, driverID); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to record permission refusal", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"status": "recorded"}, nil)
}

// CurrentPosition godoc
// @Summary      Latest known position
// @Description  Returns the freshest fix for a courier with a reverse geocoded address
// @Tags         Drivers
// @Produce      json
// @Param        id  path      string  true  "Driver ID"
// @Success      200 {object}  dto.PositionResponse
// @Failure      403 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Failure      504 {object}  map[string]string
// @Router       /drivers/{id}/position [get]
func (h *Driver) CurrentPosition(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_current_position")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	coord, err := h.location.CurrentPosition(ctx, driverID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	resp := dto.PositionResponse{
		DriverID:   driverID,
		Coordinate: coord,
		Address:    h.location.ReverseGeocode(ctx, coord),
	}
	writeJSON(w, http.StatusOK, envelope{"position": resp}, nil)
}

// DailyRoute godoc
// @Summary      Historical route for one day
// @Tags         Drivers
// @Produce      json
// @Param        id    path      string  true   "Driver ID"
// @Param        date  query     string  false  "Day in YYYY-MM-DD, defaults to today"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  map[string]string
// @Router       /drivers/{id}/route [get]
func (h *Driver) DailyRoute(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_daily_route")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver id")
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			badRequestResponse(w, "date must be in YYYY-MM-DD format")
			return
		}
	}

	route, err := h.tracker.DailyRoute(ctx, driverID, day)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"route": route}, nil)
}
