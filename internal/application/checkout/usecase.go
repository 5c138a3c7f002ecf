package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// CheckoutUseCase crea pedidos de forma atómica: reserva el consecutivo y
// escribe el documento del pedido en una sola transacción. No existe estado
// donde un consecutivo reservado quede sin pedido, ni al revés.
type CheckoutUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(txRunner TxRunner) *CheckoutUseCase {
	return &CheckoutUseCase{txRunner: txRunner, now: time.Now}
}

// CheckoutInput entrada del checkout tras resolver el tenant.
type CheckoutInput struct {
	TenantID      string
	BuyerName     string
	BuyerPhone    string
	OrderType     string
	PaymentMethod string
	Items         []entity.OrderItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	Address       string
	Neighborhood  string
	Sede          string
}

// FromRequest adapta el request HTTP a CheckoutInput. Usar desde el handler
// una vez el middleware resolvió el tenant.
func FromRequest(tenantID string, in dto.CheckoutRequest) CheckoutInput {
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Variation: it.Variation,
		})
	}
	return CheckoutInput{
		TenantID:      tenantID,
		BuyerName:     in.BuyerName,
		BuyerPhone:    in.BuyerPhone,
		OrderType:     in.OrderType,
		PaymentMethod: in.PaymentMethod,
		Items:         items,
		Subtotal:      in.Subtotal,
		Tax:           in.Tax,
		DeliveryFee:   in.DeliveryFee,
		Total:         in.Total,
		Address:       in.Address,
		Neighborhood:  in.Neighborhood,
		Sede:          in.Sede,
	}
}

// CreateOrder valida los campos del comprador y la entrega antes de cualquier
// llamada remota; luego abre una transacción que reserva el consecutivo y
// persiste el pedido con su estado inicial (por_pagar para Transferencia,
// pendiente para el resto).
func (uc *CheckoutUseCase) CreateOrder(ctx context.Context, input CheckoutInput) (*entity.Order, error) {
	orderType, paymentMethod, err := validate(input)
	if err != nil {
		return nil, err
	}

	createdAt := uc.now()
	year := createdAt.Year()

	var created *entity.Order
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		counterRepo repository.CounterRepository,
	) error {
		seq, err := NewOrderSequencer(counterRepo).Reserve(ctx, input.TenantID, year)
		if err != nil {
			return err
		}
		o := &entity.Order{
			ID:            entity.FormatOrderID(year, seq),
			TenantID:      input.TenantID,
			CreatedAt:     createdAt,
			BuyerName:     input.BuyerName,
			BuyerPhone:    input.BuyerPhone,
			OrderType:     orderType,
			PaymentMethod: paymentMethod,
			Status:        orderdomain.InitialStatus(paymentMethod),
			Items:         input.Items,
			Subtotal:      input.Subtotal,
			Tax:           input.Tax,
			DeliveryFee:   input.DeliveryFee,
			Total:         input.Total,
			Address:       input.Address,
			Neighborhood:  input.Neighborhood,
			Sede:          input.Sede,
		}
		if err := orderRepo.Create(ctx, o); err != nil {
			return fmt.Errorf("crear pedido: %w", err)
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// validate revisa los campos obligatorios del comprador y la entrega.
// Los campos de domicilio y sede son excluyentes según el tipo de pedido.
func validate(input CheckoutInput) (entity.OrderType, entity.PaymentMethod, error) {
	if input.TenantID == "" || input.BuyerName == "" || input.BuyerPhone == "" {
		return "", "", domain.ErrInvalidInput
	}
	orderType, err := entity.ParseOrderType(input.OrderType)
	if err != nil {
		return "", "", domain.ErrInvalidInput
	}
	paymentMethod, err := entity.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", "", domain.ErrInvalidInput
	}
	switch orderType {
	case entity.OrderTypeDomicilio:
		if input.Address == "" || input.Neighborhood == "" || input.Sede != "" {
			return "", "", domain.ErrInvalidInput
		}
	case entity.OrderTypeRecoger:
		if input.Sede == "" || input.Address != "" || input.Neighborhood != "" {
			return "", "", domain.ErrInvalidInput
		}
	}
	if len(input.Items) == 0 {
		return "", "", domain.ErrInvalidInput
	}
	for _, it := range input.Items {
		if it.Name == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return "", "", domain.ErrInvalidInput
		}
	}
	for _, amount := range []decimal.Decimal{input.Subtotal, input.Tax, input.DeliveryFee, input.Total} {
		if amount.IsNegative() {
			return "", "", domain.ErrInvalidInput
		}
	}
	return orderType, paymentMethod, nil
}
