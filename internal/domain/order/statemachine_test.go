package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/order"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

// Las transiciones del flujo normal del tablero deben ser legales.
func TestCanTransition_FlujoNormal(t *testing.T) {
	cases := []struct {
		name string
		from entity.OrderStatus
		to   entity.OrderStatus
		pm   entity.PaymentMethod
	}{
		{"pago confirmado", entity.StatusPorPagar, entity.StatusPendiente, entity.PaymentTransferencia},
		{"cocina inicia", entity.StatusPendiente, entity.StatusEnPreparacion, entity.PaymentEfectivo},
		{"cocina termina", entity.StatusEnPreparacion, entity.StatusLista, entity.PaymentDatafono},
		{"pago desmarcado (transferencia)", entity.StatusPendiente, entity.StatusPorPagar, entity.PaymentTransferencia},
		{"pago desmarcado (datafono)", entity.StatusPendiente, entity.StatusPorPagar, entity.PaymentDatafono},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, order.CanTransition(tc.from, tc.to, tc.pm),
				"%s -> %s debe ser legal", tc.from, tc.to)
		})
	}
}

// Ninguna transición fuera de la tabla es legal: ni saltos hacia adelante ni
// retrocesos del flujo de cocina.
func TestCanTransition_TransicionesIlegales(t *testing.T) {
	cases := []struct {
		name string
		from entity.OrderStatus
		to   entity.OrderStatus
	}{
		{"salto directo a lista", entity.StatusPorPagar, entity.StatusLista},
		{"salto directo a preparación", entity.StatusPorPagar, entity.StatusEnPreparacion},
		{"retroceso desde preparación", entity.StatusEnPreparacion, entity.StatusPendiente},
		{"retroceso desde lista", entity.StatusLista, entity.StatusEnPreparacion},
		{"lista a pendiente", entity.StatusLista, entity.StatusPendiente},
		{"pendiente a lista", entity.StatusPendiente, entity.StatusLista},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, order.CanTransition(tc.from, tc.to, entity.PaymentTransferencia),
				"%s -> %s no debe ser legal", tc.from, tc.to)
		})
	}
}

// Desmarcar el pago de un pedido en efectivo no aplica: nunca estuvo por pagar.
func TestCanTransition_EfectivoNoDesmarca(t *testing.T) {
	assert.False(t, order.CanTransition(entity.StatusPendiente, entity.StatusPorPagar, entity.PaymentEfectivo),
		"pendiente -> por_pagar debe rechazarse cuando el método es Efectivo")
}

// Mover un pedido a la columna en la que ya está es un no-op legal.
func TestCanTransition_MismoEstadoEsIdempotente(t *testing.T) {
	for _, st := range []entity.OrderStatus{
		entity.StatusPorPagar, entity.StatusPendiente, entity.StatusEnPreparacion, entity.StatusLista,
	} {
		assert.True(t, order.CanTransition(st, st, entity.PaymentEfectivo),
			"%s -> %s debe tratarse como no-op legal", st, st)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Archivado y estado inicial
// ──────────────────────────────────────────────────────────────────────────────

// Solo un pedido en lista sale del tablero por la acción de archivar.
func TestCanArchive_SoloDesdeLista(t *testing.T) {
	assert.True(t, order.CanArchive(entity.StatusLista))
	assert.False(t, order.CanArchive(entity.StatusPorPagar))
	assert.False(t, order.CanArchive(entity.StatusPendiente))
	assert.False(t, order.CanArchive(entity.StatusEnPreparacion))
}

// Las transferencias quedan por pagar hasta confirmación manual; efectivo y
// datáfono entran directo al tablero.
func TestInitialStatus_SegunMetodoDePago(t *testing.T) {
	assert.Equal(t, entity.StatusPorPagar, order.InitialStatus(entity.PaymentTransferencia))
	assert.Equal(t, entity.StatusPendiente, order.InitialStatus(entity.PaymentEfectivo))
	assert.Equal(t, entity.StatusPendiente, order.InitialStatus(entity.PaymentDatafono))
}
