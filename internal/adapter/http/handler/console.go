package handler

import (
	"context"
	"net/http"

	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/handler/dto"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	"github.com/google/uuid"
)

type MonitorService interface {
	Focus(ctx context.Context, kind types.MarkerKind, id uuid.UUID) error
	Unfocus(ctx context.Context) error
	Scene() models.Scene
}

// Console serves the operator map: selection commands and the scene
// snapshot. Live frames go over the websocket hub instead.
type Console struct {
	monitor MonitorService
	log     logger.Logger
}

func NewConsole(monitor MonitorService, log logger.Logger) *Console {
	return &Console{monitor: monitor, log: log}
}

// Focus godoc
// @Summary      Focus a driver or order
// @Description  Disables auto-follow and renders the selected entity's route
// @Tags         Console
// @Accept       json
// @Produce      json
// @Param        body  body      dto.FocusRequest  true  "Selection"
// @Success      200   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /console/focus [post]
func (h *Console) Focus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_focus")

	var req dto.FocusRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	if err := h.monitor.Focus(ctx, types.MarkerKind(req.Kind), req.ID); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to apply focus", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"status": "focused"}, nil)
}

// Unfocus godoc
// @Summary      Clear the selection
// @Description  Restores auto-follow over the whole fleet
// @Tags         Console
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /console/unfocus [post]
func (h *Console) Unfocus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_unfocus")

	if err := h.monitor.Unfocus(ctx); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to clear focus", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"status": "following"}, nil)
}

// Scene godoc
// @Summary      Current console frame
// @Description  The most recently rendered scene, also pushed live over the websocket
// @Tags         Console
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /console/scene [get]
func (h *Console) Scene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"scene": h.monitor.Scene()}, nil)
}
