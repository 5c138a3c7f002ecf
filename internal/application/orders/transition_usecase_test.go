package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de pedidos vivos
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*entity.Order
}

func newFakeOrderRepo(os ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range os {
		r.orders[o.TenantID+"/"+o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.orders[o.TenantID+"/"+o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	o, ok := r.orders[tenantID+"/"+id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListLive(_ context.Context, tenantID string) ([]entity.Order, error) {
	out := make([]entity.Order, 0)
	for _, o := range r.orders {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListCreatedBefore(_ context.Context, tenantID string, cutoff time.Time) ([]entity.Order, error) {
	out := make([]entity.Order, 0)
	for _, o := range r.orders {
		if o.TenantID == tenantID && o.CreatedAt.Before(cutoff) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, tenantID, id string, st entity.OrderStatus) error {
	r.orders[tenantID+"/"+id].Status = st
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, tenantID, id string) error {
	delete(r.orders, tenantID+"/"+id)
	return nil
}

func pedido(id string, st entity.OrderStatus, pm entity.PaymentMethod) *entity.Order {
	return &entity.Order{
		ID:            id,
		TenantID:      "t1",
		Status:        st,
		PaymentMethod: pm,
		OrderType:     entity.OrderTypeDomicilio,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestTransition_FlujoNormal(t *testing.T) {
	repo := newFakeOrderRepo(pedido("20250001", entity.StatusPendiente, entity.PaymentEfectivo))
	uc := orders.NewTransitionUseCase(repo)

	o, err := uc.Transition(context.Background(), "t1", "20250001", "en_preparacion")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusEnPreparacion, o.Status)

	o, err = uc.Transition(context.Background(), "t1", "20250001", "lista")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLista, o.Status)
}

func TestTransition_MismoEstadoEsNoOp(t *testing.T) {
	repo := newFakeOrderRepo(pedido("20250001", entity.StatusEnPreparacion, entity.PaymentEfectivo))
	uc := orders.NewTransitionUseCase(repo)

	o, err := uc.Transition(context.Background(), "t1", "20250001", "en_preparacion")
	require.NoError(t, err, "soltar el pedido en su propia columna no es un error")
	assert.Equal(t, entity.StatusEnPreparacion, o.Status)
}

func TestTransition_IlegalDejaEstadoIntacto(t *testing.T) {
	repo := newFakeOrderRepo(pedido("20250001", entity.StatusEnPreparacion, entity.PaymentEfectivo))
	uc := orders.NewTransitionUseCase(repo)

	_, err := uc.Transition(context.Background(), "t1", "20250001", "pendiente")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	o, getErr := repo.GetByID(context.Background(), "t1", "20250001")
	require.NoError(t, getErr)
	assert.Equal(t, entity.StatusEnPreparacion, o.Status, "el rechazo no debe tocar el estado")
}

func TestTransition_EfectivoNoVuelveAPorPagar(t *testing.T) {
	repo := newFakeOrderRepo(pedido("20250001", entity.StatusPendiente, entity.PaymentEfectivo))
	uc := orders.NewTransitionUseCase(repo)

	_, err := uc.Transition(context.Background(), "t1", "20250001", "por_pagar")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition,
		"un pedido en efectivo no puede desmarcarse como no pagado")
}

func TestTransition_PedidoInexistente(t *testing.T) {
	uc := orders.NewTransitionUseCase(newFakeOrderRepo())

	_, err := uc.Transition(context.Background(), "t1", "20259999", "lista")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransition_EstadoDestinoInvalido(t *testing.T) {
	repo := newFakeOrderRepo(pedido("20250001", entity.StatusPendiente, entity.PaymentEfectivo))
	uc := orders.NewTransitionUseCase(repo)

	_, err := uc.Transition(context.Background(), "t1", "20250001", "entregada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
