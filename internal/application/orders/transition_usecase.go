// Package orders contiene los casos de uso de administración del tablero:
// listar el conjunto vivo y mover pedidos entre columnas de estado.
package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TransitionUseCase aplica transiciones de estado validadas en la frontera de
// mutación. Las escrituras son last-write-wins: dos admins editando el mismo
// pedido a la vez quedan con la última escritura, sin detección de conflicto.
type TransitionUseCase struct {
	orderRepo repository.OrderRepository
}

// NewTransitionUseCase construye el caso de uso.
func NewTransitionUseCase(orderRepo repository.OrderRepository) *TransitionUseCase {
	return &TransitionUseCase{orderRepo: orderRepo}
}

// Transition mueve el pedido al estado destino. Mover un pedido a la columna
// en la que ya está es un no-op (idempotente), sin importar el evento visual
// de arrastre. Una transición ilegal se rechaza y deja el estado intacto.
func (uc *TransitionUseCase) Transition(ctx context.Context, tenantID, orderID, target string) (*entity.Order, error) {
	st, err := entity.ParseOrderStatus(target)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	o, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer pedido: %w", err)
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.Status == st {
		return o, nil
	}
	if !orderdomain.CanTransition(o.Status, st, o.PaymentMethod) {
		return nil, domain.ErrIllegalTransition
	}
	if err := uc.orderRepo.UpdateStatus(ctx, tenantID, orderID, st); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	o.Status = st
	return o, nil
}

// ListLive devuelve el conjunto completo de pedidos vivos del tenant (el
// tablero kanban del admin).
func (uc *TransitionUseCase) ListLive(ctx context.Context, tenantID string) ([]entity.Order, error) {
	return uc.orderRepo.ListLive(ctx, tenantID)
}
