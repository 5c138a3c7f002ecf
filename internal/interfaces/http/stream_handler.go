package http

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	appsync "github.com/jhoicas/Pedidos-api/internal/application/sync"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// heartbeatInterval cadencia del comentario keep-alive del stream SSE; también
// es la forma de detectar la desconexión del cliente y liberar el feed.
const heartbeatInterval = 15 * time.Second

// StreamHandler expone los feeds en vivo como Server-Sent Events: el tablero
// admin (snapshot + notificaciones) y el tracker del cliente. Cada stream es
// un suscriptor independiente del motor con su propia contabilidad.
type StreamHandler struct {
	engine *appsync.Engine
	log    *logger.Logger

	mu        sync.Mutex
	notifiers map[string]notifierEntry // streamID -> notificador (para el ack de foco/clic)
}

// notifierEntry ata el notificador al tenant que abrió el stream: el ack solo
// es válido desde una sesión admin del mismo tenant.
type notifierEntry struct {
	tenantID string
	notifier *appsync.Notifier
}

// NewStreamHandler construye el handler.
func NewStreamHandler(engine *appsync.Engine, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		engine:    engine,
		log:       log,
		notifiers: make(map[string]notifierEntry),
	}
}

// CustomerStream godoc
// @Summary      Feed SSE del tracker del cliente
// @Description  Filtra el conjunto vivo a los IDs que el cliente guardó localmente
//
//	(no hay identidad del lado del servidor). Emite eventos "tracking".
//
// @Tags         stream
// @Produce      text/event-stream
// @Param        ids  query  string  true  "IDs de pedido separados por coma"
// @Router       /api/orders/stream [get]
func (h *StreamHandler) CustomerStream(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "restaurante no resuelto"})
	}
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids requerido"})
	}

	setSSEHeaders(c)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tracker, err := appsync.NewTracker(ctx, h.engine, tenantID, ids)
		if err != nil {
			h.log.Error().Err(err).Msg("abrir tracker")
			return
		}
		defer tracker.Close()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()
		for {
			select {
			case updates := <-tracker.Updates():
				if writeSSE(w, "tracking", updates) != nil {
					return
				}
			case <-heartbeat.C:
				if writePing(w) != nil {
					return
				}
			}
		}
	}))
	return nil
}

// AdminStream godoc
// @Summary      Feed SSE del tablero admin
// @Description  Primer evento "stream" con el ID de la sesión (para el ack),
//
//	luego eventos "snapshot" con el conjunto vivo completo y eventos
//	"notification" con los avisos de pedidos nuevos.
//
// @Tags         stream
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/admin/orders/stream [get]
func (h *StreamHandler) AdminStream(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	streamID := uuid.New().String()

	setSSEHeaders(c)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		snapshots := make(chan []entity.Order, 4)
		sub, err := h.engine.Subscribe(ctx, tenantID, func(orders []entity.Order) {
			select {
			case snapshots <- orders:
			default:
				// El siguiente broadcast trae el estado completo de nuevo.
			}
		})
		if err != nil {
			h.log.Error().Err(err).Msg("abrir stream admin")
			return
		}
		defer sub.Unsubscribe()

		notifier, err := appsync.NewNotifier(ctx, h.engine, tenantID)
		if err != nil {
			h.log.Error().Err(err).Msg("abrir notificador admin")
			return
		}
		defer notifier.Close()

		h.register(streamID, tenantID, notifier)
		defer h.deregister(streamID)

		if writeSSE(w, "stream", fiber.Map{"stream_id": streamID}) != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()
		for {
			select {
			case orders := <-snapshots:
				if writeSSE(w, "snapshot", dto.FromOrders(orders)) != nil {
					return
				}
			case ev := <-notifier.Events():
				if writeSSE(w, "notification", ev) != nil {
					return
				}
			case <-heartbeat.C:
				if writePing(w) != nil {
					return
				}
			}
		}
	}))
	return nil
}

// AckStream registra la interacción del usuario (foco o clic) de una sesión
// admin y limpia su cola de no-leídos completa. Un stream de otro tenant se
// responde igual que uno inexistente.
func (h *StreamHandler) AckStream(c *fiber.Ctx) error {
	h.mu.Lock()
	entry, ok := h.notifiers[c.Params("id")]
	h.mu.Unlock()
	if !ok || entry.tenantID != GetTenantID(c) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "stream no activo"})
	}
	entry.notifier.Ack()
	return c.JSON(fiber.Map{"message": "notificaciones leídas"})
}

func (h *StreamHandler) register(streamID, tenantID string, n *appsync.Notifier) {
	h.mu.Lock()
	h.notifiers[streamID] = notifierEntry{tenantID: tenantID, notifier: n}
	h.mu.Unlock()
}

func (h *StreamHandler) deregister(streamID string) {
	h.mu.Lock()
	delete(h.notifiers, streamID)
	h.mu.Unlock()
}

func setSSEHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
}

// writeSSE serializa el payload como un evento SSE y lo envía. El error de
// Flush es la señal de que el cliente se desconectó.
func writeSSE(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: " + event + "\ndata: " + string(data) + "\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

func writePing(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
