package checkout

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La reserva del consecutivo y la escritura del
// pedido comparten la misma transacción: ambas confirman juntas o ninguna.
// El runner reintenta internamente los conflictos de serialización; agotado el
// presupuesto de reintentos el error aflora al caller como fallo de checkout.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		counterRepo repository.CounterRepository,
	) error) error
}
