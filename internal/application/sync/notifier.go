package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Notification aviso de pedidos nuevos para una sesión del admin.
// Si Aggregated es true llegó más de un pedido sin leer y se muestra un solo
// aviso agregado; si no, el aviso es individual y trae el ID del pedido.
type Notification struct {
	Aggregated bool   `json:"aggregated"`
	Count      int    `json:"count"`
	OrderID    string `json:"order_id,omitempty"`
	Message    string `json:"message"`
}

// Notifier política de suscriptor del tablero admin: mantiene un conjunto
// local de IDs conocidos por sesión (nunca estado global del proceso) y
// encola como no-leído todo ID presente en un snapshot que no conozca.
// La cola de no-leídos se limpia completa con Ack (foco o clic del usuario),
// no aviso por aviso.
type Notifier struct {
	sub    *Subscription
	events chan Notification

	mu     sync.Mutex
	primed bool
	known  map[string]struct{}
	unread []string
}

// NewNotifier abre la suscripción del admin sobre el motor. El snapshot
// inicial solo siembra el conjunto conocido: el tablero ya muestra esos
// pedidos, no hay nada que avisar.
func NewNotifier(ctx context.Context, engine *Engine, tenantID string) (*Notifier, error) {
	n := &Notifier{
		events: make(chan Notification, 16),
		known:  make(map[string]struct{}),
	}
	sub, err := engine.Subscribe(ctx, tenantID, n.handleSnapshot)
	if err != nil {
		return nil, fmt.Errorf("suscribir notificador: %w", err)
	}
	n.sub = sub
	return n, nil
}

// Events canal de avisos para la sesión. Si el consumidor se atrasa los avisos
// nuevos se descartan: el snapshot siguiente los vuelve a derivar.
func (n *Notifier) Events() <-chan Notification {
	return n.events
}

// Ack registra la interacción del usuario (foco de ventana o clic) y vacía la
// cola de no-leídos entera.
func (n *Notifier) Ack() {
	n.mu.Lock()
	n.unread = n.unread[:0]
	n.mu.Unlock()
}

// Close libera la suscripción del feed.
func (n *Notifier) Close() {
	n.sub.Unsubscribe()
}

// handleSnapshot deriva "qué hay de nuevo" comparando el snapshot contra el
// conjunto local de conocidos. Las entregas redundantes (reconexión del feed)
// terminan aquí en no-op: los IDs ya están en known.
func (n *Notifier) handleSnapshot(orders []entity.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.primed {
		for _, o := range orders {
			n.known[o.ID] = struct{}{}
		}
		n.primed = true
		return
	}

	arrived := false
	for _, o := range orders {
		if _, ok := n.known[o.ID]; ok {
			continue
		}
		n.known[o.ID] = struct{}{}
		n.unread = append(n.unread, o.ID)
		arrived = true
	}
	if !arrived {
		return
	}

	var ev Notification
	if len(n.unread) > 1 {
		ev = Notification{
			Aggregated: true,
			Count:      len(n.unread),
			Message:    fmt.Sprintf("Tienes %d pedidos nuevos", len(n.unread)),
		}
	} else {
		ev = Notification{
			Count:   1,
			OrderID: n.unread[0],
			Message: fmt.Sprintf("Nuevo pedido %s", n.unread[0]),
		}
	}
	select {
	case n.events <- ev:
	default:
	}
}
