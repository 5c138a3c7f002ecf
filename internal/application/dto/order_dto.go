package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// OrderItemDTO línea del carrito tal como llega del checkout.
type OrderItemDTO struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Variation string          `json:"variation,omitempty"`
}

// CheckoutRequest payload del carrito armado por la UI de checkout.
type CheckoutRequest struct {
	BuyerName     string          `json:"buyer_name"`
	BuyerPhone    string          `json:"buyer_phone"`
	OrderType     string          `json:"order_type"`      // Domicilio | Recoger
	PaymentMethod string          `json:"payment_method"`  // Efectivo | Datafono | Transferencia
	Items         []OrderItemDTO  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	Address       string          `json:"address,omitempty"`
	Neighborhood  string          `json:"neighborhood,omitempty"`
	Sede          string          `json:"sede,omitempty"`
}

// OrderResponse representación HTTP de un pedido vivo.
type OrderResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	CreatedAt     time.Time       `json:"created_at"`
	BuyerName     string          `json:"buyer_name"`
	BuyerPhone    string          `json:"buyer_phone"`
	OrderType     string          `json:"order_type"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Items         []OrderItemDTO  `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	Address       string          `json:"address,omitempty"`
	Neighborhood  string          `json:"neighborhood,omitempty"`
	Sede          string          `json:"sede,omitempty"`
}

// ArchivedOrderResponse representación HTTP de un pedido histórico.
type ArchivedOrderResponse struct {
	OrderResponse
	Year        int       `json:"year"`
	SoftDeleted bool      `json:"soft_deleted"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// FromOrder convierte la entidad al DTO de respuesta.
func FromOrder(o entity.Order) OrderResponse {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Variation: it.Variation,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		TenantID:      o.TenantID,
		CreatedAt:     o.CreatedAt,
		BuyerName:     o.BuyerName,
		BuyerPhone:    o.BuyerPhone,
		OrderType:     string(o.OrderType),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Items:         items,
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		Address:       o.Address,
		Neighborhood:  o.Neighborhood,
		Sede:          o.Sede,
	}
}

// FromOrders convierte un snapshot completo de pedidos vivos.
func FromOrders(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

// FromArchivedOrder convierte la entidad histórica al DTO de respuesta.
// El estado vivo no forma parte del esquema archivado.
func FromArchivedOrder(a entity.ArchivedOrder) ArchivedOrderResponse {
	resp := FromOrder(a.Order)
	resp.Status = ""
	return ArchivedOrderResponse{
		OrderResponse: resp,
		Year:          a.Year,
		SoftDeleted:   a.SoftDeleted,
		ArchivedAt:    a.ArchivedAt,
	}
}
