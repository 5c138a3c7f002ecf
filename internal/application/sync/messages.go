package sync

import (
	"math/rand"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// messageKey clave del catálogo de mensajes de estado del tracker.
type messageKey struct {
	Status        entity.OrderStatus
	OrderType     entity.OrderType
	PaymentMethod entity.PaymentMethod
}

// catalog mensajes legibles por (estado, tipo de pedido, método de pago).
// El tracker elige uno al azar: es un gesto de "vida" puramente cosmético,
// no una señal de corrección.
var catalog = map[messageKey][]string{
	{entity.StatusPorPagar, entity.OrderTypeDomicilio, entity.PaymentTransferencia}: {
		"Estamos esperando la confirmación de tu transferencia",
		"Envíanos el comprobante de tu transferencia para empezar",
	},
	{entity.StatusPorPagar, entity.OrderTypeRecoger, entity.PaymentTransferencia}: {
		"Confirma tu transferencia y empezamos a preparar tu pedido",
		"Esperando tu comprobante de pago para ponernos manos a la obra",
	},
	{entity.StatusPendiente, entity.OrderTypeDomicilio, entity.PaymentEfectivo}: {
		"Recibimos tu pedido, ten el efectivo listo para el domiciliario",
		"Tu pedido está en la fila de la cocina",
	},
	{entity.StatusPendiente, entity.OrderTypeRecoger, entity.PaymentEfectivo}: {
		"Recibimos tu pedido, pagas al recogerlo en la sede",
		"Tu pedido entró a la fila, te avisamos cuando esté listo",
	},
	{entity.StatusEnPreparacion, entity.OrderTypeDomicilio, entity.PaymentEfectivo}: {
		"La cocina ya está con tu pedido",
		"Tu pedido se está preparando, el domiciliario sale pronto",
	},
	{entity.StatusEnPreparacion, entity.OrderTypeRecoger, entity.PaymentEfectivo}: {
		"Tu pedido está en la plancha, casi listo para recoger",
		"La cocina está preparando tu pedido",
	},
	{entity.StatusLista, entity.OrderTypeDomicilio, entity.PaymentEfectivo}: {
		"Tu pedido salió en camino",
		"El domiciliario va hacia tu dirección",
	},
	{entity.StatusLista, entity.OrderTypeRecoger, entity.PaymentEfectivo}: {
		"¡Tu pedido está listo! Pasa por él a la sede",
		"Pedido listo para recoger",
	},
}

// fallback mensajes por estado cuando la combinación exacta no está en el catálogo.
var fallback = map[entity.OrderStatus][]string{
	entity.StatusPorPagar: {
		"Tu pedido quedó registrado, esperando confirmación de pago",
	},
	entity.StatusPendiente: {
		"Recibimos tu pedido",
		"Tu pedido está en la fila de la cocina",
	},
	entity.StatusEnPreparacion: {
		"Tu pedido se está preparando",
		"La cocina ya está con tu pedido",
	},
	entity.StatusLista: {
		"¡Tu pedido está listo!",
	},
}

// messageFor elige pseudoaleatoriamente un mensaje del catálogo para el
// pedido. Siempre devuelve algo: la combinación exacta, el fallback por
// estado, o el estado crudo como último recurso.
func messageFor(rng *rand.Rand, o entity.Order) string {
	key := messageKey{Status: o.Status, OrderType: o.OrderType, PaymentMethod: o.PaymentMethod}
	if msgs, ok := catalog[key]; ok && len(msgs) > 0 {
		return msgs[rng.Intn(len(msgs))]
	}
	if msgs, ok := fallback[o.Status]; ok && len(msgs) > 0 {
		return msgs[rng.Intn(len(msgs))]
	}
	return string(o.Status)
}
