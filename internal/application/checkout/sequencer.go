package checkout

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// maxSequence el formato del ID rellena el consecutivo a 4 dígitos; pasado
// 9999 no hay política de truncado ni de reinicio: se rechaza explícitamente.
const maxSequence = 9999

// OrderSequencer reserva el siguiente consecutivo de pedido contra el contador
// del tenant+año. Debe usarse con un CounterRepository atado a la transacción
// del checkout para que la reserva y el pedido confirmen juntos.
type OrderSequencer struct {
	counters repository.CounterRepository
}

// NewOrderSequencer construye el secuenciador sobre el repositorio de contadores.
func NewOrderSequencer(counters repository.CounterRepository) *OrderSequencer {
	return &OrderSequencer{counters: counters}
}

// Reserve incrementa el contador y devuelve el consecutivo reservado. Bajo N
// checkouts concurrentes del mismo tenant+año los valores devueltos son
// exactamente {count₀+1 … count₀+N}, sin duplicados ni huecos.
func (s *OrderSequencer) Reserve(ctx context.Context, tenantID string, year int) (int, error) {
	seq, err := s.counters.NextSequence(ctx, tenantID, year)
	if err != nil {
		return 0, fmt.Errorf("reservar consecutivo: %w", err)
	}
	if seq > maxSequence {
		return 0, domain.ErrSequenceExhausted
	}
	return seq, nil
}
