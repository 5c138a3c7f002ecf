package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType tipo de entrega del pedido.
type OrderType string

const (
	OrderTypeDomicilio OrderType = "Domicilio" // Entrega a domicilio (requiere dirección y barrio)
	OrderTypeRecoger   OrderType = "Recoger"   // Recogida en sede (requiere sede)
)

// PaymentMethod método de pago del pedido.
type PaymentMethod string

const (
	PaymentEfectivo      PaymentMethod = "Efectivo"
	PaymentDatafono      PaymentMethod = "Datafono"
	PaymentTransferencia PaymentMethod = "Transferencia"
)

// OrderStatus estado de un pedido vivo. "archivado" no es un estado:
// el pedido archivado sale de la partición viva (ver ArchivedOrder).
type OrderStatus string

const (
	StatusPorPagar      OrderStatus = "por_pagar"
	StatusPendiente     OrderStatus = "pendiente"
	StatusEnPreparacion OrderStatus = "en_preparacion"
	StatusLista         OrderStatus = "lista"
)

// ParseOrderType valida el string recibido del cliente contra el enum cerrado.
func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderTypeDomicilio, OrderTypeRecoger:
		return OrderType(s), nil
	}
	return "", fmt.Errorf("tipo de pedido desconocido: %q", s)
}

// ParsePaymentMethod valida el string recibido del cliente contra el enum cerrado.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentEfectivo, PaymentDatafono, PaymentTransferencia:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("método de pago desconocido: %q", s)
}

// ParseOrderStatus valida el string recibido del cliente contra el enum cerrado.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPorPagar, StatusPendiente, StatusEnPreparacion, StatusLista:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("estado de pedido desconocido: %q", s)
}

// OrderItem línea del pedido. Variation es opcional (ej. "sin cebolla", "grande").
type OrderItem struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variation string          `json:"variation,omitempty"`
}

// Order representa una compra de un cliente en la partición viva.
// El ID tiene formato <año><consecutivo de 4 dígitos>: 20250001.
type Order struct {
	ID            string
	TenantID      string
	CreatedAt     time.Time
	BuyerName     string
	BuyerPhone    string
	OrderType     OrderType
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Items         []OrderItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal

	// Campos de entrega excluyentes: Address y Neighborhood aplican a
	// OrderTypeDomicilio, Sede a OrderTypeRecoger.
	Address      string
	Neighborhood string
	Sede         string
}

// ArchivedOrder pedido movido a la partición histórica. No conserva estado
// vivo; SoftDeleted marca borrado lógico reversible.
type ArchivedOrder struct {
	Order
	Year        int
	SoftDeleted bool
	ArchivedAt  time.Time
}

// FormatOrderID arma el ID del pedido: año + consecutivo con padding a 4 dígitos.
func FormatOrderID(year, seq int) string {
	return fmt.Sprintf("%d%04d", year, seq)
}
