package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia de la partición viva
// (tenant/{tenantId}/orders/{orderId}). Cada mutación dispara la notificación
// de cambio del tenant para que el motor de sincronización reparta el snapshot.
type OrderRepository interface {
	// Create inserta el pedido con el ID ya reservado. Falla con violación de
	// unicidad si el ID ya existe (el consecutivo garantiza que no ocurre).
	Create(ctx context.Context, o *entity.Order) error
	// GetByID devuelve nil, nil si el pedido no existe en la partición viva.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	// ListLive devuelve el conjunto completo de pedidos vivos del tenant,
	// ordenado por fecha de creación.
	ListLive(ctx context.Context, tenantID string) ([]entity.Order, error)
	// ListCreatedBefore devuelve los pedidos vivos anteriores al corte,
	// sin importar su estado (entrada del barrido de archivado).
	ListCreatedBefore(ctx context.Context, tenantID string, cutoff time.Time) ([]entity.Order, error)
	// UpdateStatus escribe el nuevo estado (last-write-wins, sin bloqueo).
	UpdateStatus(ctx context.Context, tenantID, id string, st entity.OrderStatus) error
	// Delete elimina el pedido de la partición viva. Borrar un ID ausente no es error.
	Delete(ctx context.Context, tenantID, id string) error
}

// CounterRepository puerto del consecutivo por tenant y año
// (tenant/{tenantId}/counters/{year}).
type CounterRepository interface {
	// NextSequence incrementa y devuelve el consecutivo en una sola operación
	// atómica. Crea el contador en cero de forma perezosa la primera vez.
	NextSequence(ctx context.Context, tenantID string, year int) (int, error)
}
