package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/application/sync"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// changeChannel canal de pg_notify para el feed de cambios. El payload es el
// tenantID; la notificación se emite dentro de la misma transacción de la
// mutación, así que solo se publica al hacer commit.
const changeChannel = "orders_changed"

var _ repository.OrderRepository = (*OrderRepo)(nil)
var _ sync.SnapshotSource = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre la partición viva
// (usable con pool o tx). Los items viajan como JSONB: el pedido es un solo
// documento direccionable y el archivado lo copia verbatim.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `tenant_id, id, created_at, buyer_name, buyer_phone, order_type, payment_method,
	       status, items, subtotal, tax, delivery_fee, total, address, neighborhood, sede`

// Create inserta el pedido y notifica el cambio del tenant.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	query := `
		INSERT INTO orders (tenant_id, id, created_at, buyer_name, buyer_phone, order_type, payment_method,
		                    status, items, subtotal, tax, delivery_fee, total, address, neighborhood, sede)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(ctx, query,
		o.TenantID, o.ID, o.CreatedAt, o.BuyerName, o.BuyerPhone, string(o.OrderType), string(o.PaymentMethod),
		string(o.Status), items, o.Subtotal, o.Tax, o.DeliveryFee, o.Total,
		nullIfEmpty(o.Address), nullIfEmpty(o.Neighborhood), nullIfEmpty(o.Sede),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("el pedido %s ya existe: %w", o.ID, err)
		}
		return fmt.Errorf("insert pedido: %w", err)
	}
	return r.notify(ctx, o.TenantID)
}

// GetByID devuelve nil, nil si el pedido no está en la partición viva.
func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND id = $2`
	o, err := scanOrder(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return o, nil
}

// ListLive devuelve el conjunto completo de pedidos vivos del tenant.
func (r *OrderRepo) ListLive(ctx context.Context, tenantID string) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos vivos: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListCreatedBefore devuelve los pedidos vivos anteriores al corte, sin
// importar su estado.
func (r *OrderRepo) ListCreatedBefore(ctx context.Context, tenantID string, cutoff time.Time) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND created_at < $2 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos viejos: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// UpdateStatus escribe el nuevo estado (last-write-wins) y notifica el cambio.
func (r *OrderRepo) UpdateStatus(ctx context.Context, tenantID, id string, st entity.OrderStatus) error {
	query := `UPDATE orders SET status = $3 WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id, string(st))
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	return r.notify(ctx, tenantID)
}

// Delete elimina el pedido de la partición viva y notifica el cambio.
// Borrar un ID ausente no es error.
func (r *OrderRepo) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM orders WHERE tenant_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	return r.notify(ctx, tenantID)
}

// notify publica el cambio del tenant en el canal del feed.
func (r *OrderRepo) notify(ctx context.Context, tenantID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, tenantID); err != nil {
		return fmt.Errorf("notificar cambio: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var orderType, paymentMethod, status string
	var items []byte
	var address, neighborhood, sede *string
	err := row.Scan(
		&o.TenantID, &o.ID, &o.CreatedAt, &o.BuyerName, &o.BuyerPhone, &orderType, &paymentMethod,
		&status, &items, &o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&address, &neighborhood, &sede,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("deserializar items: %w", err)
	}
	o.OrderType = entity.OrderType(orderType)
	o.PaymentMethod = entity.PaymentMethod(paymentMethod)
	o.Status = entity.OrderStatus(status)
	o.Address = derefStr(address)
	o.Neighborhood = derefStr(neighborhood)
	o.Sede = derefStr(sede)
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]entity.Order, error) {
	orders := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar pedidos: %w", err)
	}
	return orders, nil
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
