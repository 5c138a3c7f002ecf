// Package sync mantiene suscripciones vivas sobre el conjunto de pedidos de un
// tenant y reparte cada cambio a cualquier número de observadores
// independientes (tablero admin, tracker del cliente). El motor no guarda
// cursores compartidos: cada suscriptor lleva su propia contabilidad de "visto".
package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// SnapshotSource provee el conjunto completo de pedidos vivos de un tenant.
// Lo implementa el repositorio de pedidos.
type SnapshotSource interface {
	ListLive(ctx context.Context, tenantID string) ([]entity.Order, error)
}

// Engine reparte snapshots completos (no diffs) a los suscriptores de cada
// tenant. La entrega es al-menos-una-vez: tras una reconexión del feed se
// reenvía el estado completo, y los suscriptores deben tolerar detecciones
// redundantes de "nuevo" contra su propio conjunto de IDs conocidos.
type Engine struct {
	source SnapshotSource

	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{} // tenantID -> suscripciones activas
}

// NewEngine construye el motor sobre la fuente de snapshots.
func NewEngine(source SnapshotSource) *Engine {
	return &Engine{
		source: source,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Subscription handle de una suscripción viva. Cancelar es sincrónico:
// después de Unsubscribe no se entrega ningún snapshot más.
type Subscription struct {
	engine   *Engine
	tenantID string
	onChange func([]entity.Order)

	mu     sync.Mutex
	closed bool
}

// Subscribe abre un feed push del conjunto vivo del tenant. onChange recibe el
// conjunto completo actual en la suscripción inicial y en cada cambio
// posterior. El caller debe liberar el feed con Unsubscribe al terminar.
func (e *Engine) Subscribe(ctx context.Context, tenantID string, onChange func([]entity.Order)) (*Subscription, error) {
	sub := &Subscription{engine: e, tenantID: tenantID, onChange: onChange}

	e.mu.Lock()
	if e.subs[tenantID] == nil {
		e.subs[tenantID] = make(map[*Subscription]struct{})
	}
	e.subs[tenantID][sub] = struct{}{}
	e.mu.Unlock()

	snapshot, err := e.source.ListLive(ctx, tenantID)
	if err != nil {
		sub.Unsubscribe()
		return nil, fmt.Errorf("snapshot inicial: %w", err)
	}
	sub.deliver(snapshot)
	return sub, nil
}

// Broadcast consulta el conjunto vivo actual del tenant una sola vez y lo
// entrega a cada suscriptor. No garantiza orden global entre suscriptores.
func (e *Engine) Broadcast(ctx context.Context, tenantID string) error {
	targets := e.snapshotSubs(tenantID)
	if len(targets) == 0 {
		return nil
	}
	snapshot, err := e.source.ListLive(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("snapshot de %s: %w", tenantID, err)
	}
	for _, sub := range targets {
		sub.deliver(snapshot)
	}
	return nil
}

// BroadcastAll reemite el estado completo a todos los tenants con suscriptores
// activos. Es el camino de reconexión del feed subyacente: la entrega
// redundante es parte del contrato al-menos-una-vez.
func (e *Engine) BroadcastAll(ctx context.Context) error {
	e.mu.Lock()
	tenants := make([]string, 0, len(e.subs))
	for tenantID, set := range e.subs {
		if len(set) > 0 {
			tenants = append(tenants, tenantID)
		}
	}
	e.mu.Unlock()

	for _, tenantID := range tenants {
		if err := e.Broadcast(ctx, tenantID); err != nil {
			return err
		}
	}
	return nil
}

// snapshotSubs copia la lista de suscriptores bajo lock para entregar fuera de él.
func (e *Engine) snapshotSubs(tenantID string) []*Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	set := e.subs[tenantID]
	out := make([]*Subscription, 0, len(set))
	for sub := range set {
		out = append(out, sub)
	}
	return out
}

// Unsubscribe libera el feed. Es seguro llamarlo más de una vez y desde
// cualquier goroutine; al retornar no habrá más entregas. Espera a que
// termine cualquier onChange en vuelo, así que onChange no debe llamar
// Unsubscribe sobre su propia suscripción.
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.engine.mu.Lock()
	if set := s.engine.subs[s.tenantID]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(s.engine.subs, s.tenantID)
		}
	}
	s.engine.mu.Unlock()
}

// deliver entrega bajo el lock de la suscripción para que la cancelación sea
// sincrónica: nunca se invoca onChange después de Unsubscribe. El mismo lock
// impone la restricción documentada en Unsubscribe.
func (s *Subscription) deliver(orders []entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.onChange(orders)
}
