package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implementación de CounterRepository (usable con pool o tx).
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar la tx del checkout para
// que la reserva confirme junto con el pedido.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// NextSequence incrementa y devuelve el consecutivo del tenant+año en una
// sola sentencia atómica. El contador se crea perezosamente en uno; el valor
// devuelto es siempre el posterior al incremento, así que bajo concurrencia
// los consecutivos salen únicos y sin huecos.
func (r *CounterRepo) NextSequence(ctx context.Context, tenantID string, year int) (int, error) {
	query := `
		INSERT INTO order_counters (tenant_id, year, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year)
		DO UPDATE SET count = order_counters.count + 1
		RETURNING count`
	var seq int
	if err := r.q.QueryRow(ctx, query, tenantID, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("incrementar consecutivo: %w", err)
	}
	return seq, nil
}
