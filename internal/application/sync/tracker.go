package sync

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// refreshInterval cadencia del re-sorteo cosmético de mensajes del tracker,
// independiente de los cambios reales de datos.
const refreshInterval = 8 * time.Second

// TrackerUpdate estado visible de un pedido seguido por el cliente.
type TrackerUpdate struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Tracker política de suscriptor del widget del cliente: filtra cada snapshot
// a los IDs que el cliente guardó localmente (no hay identidad del lado del
// servidor, la membresía la define la lista de IDs que trae el cliente) y
// muestra un mensaje legible por pedido. El mensaje se re-sortea cada 8
// segundos y de inmediato cuando cambia el estado de un pedido seguido.
type Tracker struct {
	sub     *Subscription
	updates chan []TrackerUpdate
	done    chan struct{}
	closeFn sync.Once

	mu       sync.Mutex
	rng      *rand.Rand
	tracked  map[string]entity.OrderStatus // ID seguido -> último estado visto
	current  map[string]entity.Order       // pedidos seguidos presentes en el último snapshot
	messages map[string]string             // ID -> mensaje vigente
}

// NewTracker abre la suscripción del tracker para los IDs guardados por el
// cliente. El caller debe llamar Close al desconectarse.
func NewTracker(ctx context.Context, engine *Engine, tenantID string, trackedIDs []string) (*Tracker, error) {
	t := &Tracker{
		updates:  make(chan []TrackerUpdate, 16),
		done:     make(chan struct{}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		tracked:  make(map[string]entity.OrderStatus, len(trackedIDs)),
		current:  make(map[string]entity.Order),
		messages: make(map[string]string),
	}
	ids := make(map[string]struct{}, len(trackedIDs))
	for _, id := range trackedIDs {
		ids[id] = struct{}{}
	}
	sub, err := engine.Subscribe(ctx, tenantID, func(orders []entity.Order) {
		t.handleSnapshot(ids, orders)
	})
	if err != nil {
		return nil, fmt.Errorf("suscribir tracker: %w", err)
	}
	t.sub = sub
	go t.refreshLoop()
	return t, nil
}

// Updates canal con el estado visible de los pedidos seguidos.
func (t *Tracker) Updates() <-chan []TrackerUpdate {
	return t.updates
}

// Close libera la suscripción y detiene el re-sorteo periódico.
func (t *Tracker) Close() {
	t.closeFn.Do(func() {
		t.sub.Unsubscribe()
		close(t.done)
	})
}

// handleSnapshot filtra el snapshot a los IDs seguidos. Si el estado de un
// pedido cambió (o es la primera vez que aparece) se re-sortea su mensaje de
// inmediato; las entregas redundantes sin cambios no emiten nada nuevo salvo
// el snapshot filtrado completo.
func (t *Tracker) handleSnapshot(ids map[string]struct{}, orders []entity.Order) {
	t.mu.Lock()
	t.current = make(map[string]entity.Order)
	for _, o := range orders {
		if _, ok := ids[o.ID]; !ok {
			continue
		}
		t.current[o.ID] = o
		last, seen := t.tracked[o.ID]
		if !seen || last != o.Status {
			t.tracked[o.ID] = o.Status
			t.messages[o.ID] = messageFor(t.rng, o)
		}
	}
	out := t.buildUpdates()
	t.mu.Unlock()

	t.emit(out)
}

// refreshLoop re-sortea los mensajes en el timer cosmético de 8 segundos.
func (t *Tracker) refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			for id, o := range t.current {
				t.messages[id] = messageFor(t.rng, o)
			}
			out := t.buildUpdates()
			t.mu.Unlock()
			t.emit(out)
		}
	}
}

// buildUpdates arma la vista vigente; llamar con t.mu tomado.
func (t *Tracker) buildUpdates() []TrackerUpdate {
	out := make([]TrackerUpdate, 0, len(t.current))
	for id, o := range t.current {
		out = append(out, TrackerUpdate{
			OrderID: id,
			Status:  string(o.Status),
			Message: t.messages[id],
		})
	}
	return out
}

// emit publica sin bloquear; si el consumidor se atrasa, el siguiente snapshot
// o tick trae la vista completa de nuevo.
func (t *Tracker) emit(out []TrackerUpdate) {
	select {
	case t.updates <- out:
	default:
	}
}
