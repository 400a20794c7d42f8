package wshandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/acucaradas/delivery-tracking-system/internal/adapter/http/ws/dto"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	ws "github.com/acucaradas/delivery-tracking-system/pkg/wsHub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type FixIngester interface {
	IngestFix(ctx context.Context, msg models.DriverFixMessage) error
}

// DriverSocket is the streaming ingest path: one long-lived websocket
// per courier device, each frame a position fix.
type DriverSocket struct {
	hub         *ws.ConnectionHub
	tracker     FixIngester
	serviceName string
	log         logger.Logger

	upgrader websocket.Upgrader
}

func NewDriverSocket(hub *ws.ConnectionHub, tracker FixIngester, serviceName string, log logger.Logger) *DriverSocket {
	return &DriverSocket{
		hub:         hub,
		tracker:     tracker,
		serviceName: serviceName,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve godoc
// @Summary      Courier fix stream
// @Description  Upgrades to a websocket carrying location_update frames
// @Tags         Drivers
// @Param        id  path  string  true  "Driver ID"
// @Router       /drivers/{id}/stream [get]
func (h *DriverSocket) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_driver_stream")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid driver id", http.StatusBadRequest)
		return
	}
	ctx = wrap.WithDriverID(ctx, driverID.String())

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "websocket upgrade failed", err)
		return
	}

	conn := ws.NewConn(ctx, driverID, socket)
	if err := h.hub.Add(conn); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to register connection", err)
		conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()

	defer func() {
		h.hub.Delete(driverID)
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()
	}()

	err = conn.Listen(func(msg map[string]any) error {
		return h.handleFrame(ctx, conn, driverID, msg)
	})
	if err != nil {
		h.log.Debug(ctx, "courier stream closed", "err", err.Error())
	}
}

func (h *DriverSocket) handleFrame(ctx context.Context, conn *ws.Conn, driverID uuid.UUID, msg map[string]any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return errorResponse(conn, "malformed frame")
	}

	var fix dto.FixMessage
	if err := json.Unmarshal(raw, &fix); err != nil {
		return errorResponse(conn, "malformed frame")
	}

	v := validator.New()
	if fix.Validate(v); !v.Valid() {
		return failedValidationResponse(conn, v.Errors)
	}

	if err := h.tracker.IngestFix(ctx, fix.ToMessage(driverID)); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to ingest streamed fix", err)
		return errorResponse(conn, err.Error())
	}
	return nil
}
