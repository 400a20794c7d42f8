package wshandler

import (
	"net/http"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/acucaradas/delivery-tracking-system/pkg/metrics"
	ws "github.com/acucaradas/delivery-tracking-system/pkg/wsHub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type SceneSource interface {
	Scene() models.Scene
}

// ConsoleSocket pushes rendered scenes to operator consoles. Every
// rebuild is broadcast through the hub; a freshly connected console
// gets the current frame immediately so it never starts blank.
type ConsoleSocket struct {
	hub         *ws.ConnectionHub
	scenes      SceneSource
	serviceName string
	log         logger.Logger

	upgrader websocket.Upgrader
}

func NewConsoleSocket(hub *ws.ConnectionHub, scenes SceneSource, serviceName string, log logger.Logger) *ConsoleSocket {
	return &ConsoleSocket{
		hub:         hub,
		scenes:      scenes,
		serviceName: serviceName,
		log:         log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Serve godoc
// @Summary      Live console scene stream
// @Description  Upgrades to a websocket receiving every scene rebuild
// @Tags         Console
// @Router       /console/stream [get]
func (h *ConsoleSocket) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_console_stream")

	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "websocket upgrade failed", err)
		return
	}

	// consoles are anonymous peers, each keyed by a fresh id
	conn := ws.NewConn(ctx, uuid.New(), socket)
	if err := h.hub.Add(conn); err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to register console", err)
		conn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Inc()

	defer func() {
		h.hub.Delete(conn.EntityID())
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName).Dec()
	}()

	if err := conn.Send(models.SceneUpdateDTO{Type: models.MsgTypeScene, Scene: h.scenes.Scene()}); err != nil {
		h.log.Debug(ctx, "failed to send initial scene", "err", err.Error())
		return
	}

	// consoles only listen; the read loop just detects disconnects
	conn.Listen(func(msg map[string]any) error { return nil })
}
