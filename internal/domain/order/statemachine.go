// Package order contiene la máquina de estados del ciclo de vida de un pedido.
// Lógica pura, sin I/O: la validación ocurre en la frontera de mutación y los
// strings del caller nunca se confían sin parsear al enum cerrado.
package order

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// Transiciones legales del tablero:
//
//	por_pagar      -> pendiente       (pago confirmado, toggle manual)
//	pendiente      -> por_pagar       (pago desmarcado; solo si el método no es Efectivo)
//	pendiente      -> en_preparacion  (cocina inicia)
//	en_preparacion -> lista           (cocina termina)
//
// Archivar no es una transición de estado: el pedido sale de la partición viva
// y solo es legal desde lista (ver CanArchive). No existe estado de cancelación.
var transitions = map[entity.OrderStatus]map[entity.OrderStatus]bool{
	entity.StatusPorPagar: {
		entity.StatusPendiente: true,
	},
	entity.StatusPendiente: {
		entity.StatusPorPagar:      true,
		entity.StatusEnPreparacion: true,
	},
	entity.StatusEnPreparacion: {
		entity.StatusLista: true,
	},
	entity.StatusLista: {},
}

// CanTransition indica si el paso from -> to es legal para el método de pago
// dado. Una transición al estado actual se considera legal (no-op idempotente);
// el caller decide no escribir nada en ese caso.
func CanTransition(from, to entity.OrderStatus, pm entity.PaymentMethod) bool {
	if from == to {
		return true
	}
	// Desmarcar el pago no aplica a pedidos en efectivo: nunca estuvieron
	// marcados como por pagar.
	if from == entity.StatusPendiente && to == entity.StatusPorPagar && pm == entity.PaymentEfectivo {
		return false
	}
	return transitions[from][to]
}

// CanArchive indica si el pedido puede archivarse individualmente.
// Solo los pedidos listos salen del tablero por la acción explícita de archivar.
func CanArchive(st entity.OrderStatus) bool {
	return st == entity.StatusLista
}

// InitialStatus estado inicial de un pedido recién creado: las transferencias
// quedan por pagar hasta confirmación manual, el resto entra directo al tablero.
func InitialStatus(pm entity.PaymentMethod) entity.OrderStatus {
	if pm == entity.PaymentTransferencia {
		return entity.StatusPorPagar
	}
	return entity.StatusPendiente
}
