package handler

import (
	"context"
	"net/http"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/google/uuid"
)

type OrderQueries interface {
	OrderETA(ctx context.Context, orderID uuid.UUID) (*models.ETAResult, error)
	CandidateDriver(ctx context.Context, orderID uuid.UUID) (*models.DriverWithDistance, error)
}

type Order struct {
	queries OrderQueries
	log     logger.Logger
}

func NewOrder(queries OrderQueries, log logger.Logger) *Order {
	return &Order{queries: queries, log: log}
}

// ETA godoc
// @Summary      Arrival estimate for an order
// @Description  Preparation plus traffic-adjusted travel time with a safety buffer
// @Tags         Orders
// @Produce      json
// @Param        id  path      string  true  "Order ID"
// @Success      200 {object}  map[string]any
// @Failure      400 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Router       /orders/{id}/eta [get]
func (h *Order) ETA(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_order_eta")

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid order id")
		return
	}

	eta, err := h.queries.OrderETA(ctx, orderID)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to compute order eta", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"eta": eta}, nil)
}

// CandidateDriver godoc
// @Summary      Nearest available courier for an order
// @Tags         Orders
// @Produce      json
// @Param        id  path      string  true  "Order ID"
// @Success      200 {object}  map[string]any
// @Failure      404 {object}  map[string]string
// @Router       /orders/{id}/candidate-driver [get]
func (h *Order) CandidateDriver(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "http_candidate_driver")

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid order id")
		return
	}

	candidate, err := h.queries.CandidateDriver(ctx, orderID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, envelope{"candidate": candidate}, nil)
}
