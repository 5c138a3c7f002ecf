package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo implementación de ArchiveRepository sobre la partición histórica
// (usable con pool o tx).
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

const archivedColumns = `tenant_id, id, year, created_at, buyer_name, buyer_phone, order_type, payment_method,
	       items, subtotal, tax, delivery_fee, total, address, neighborhood, sede, soft_deleted, archived_at`

// Upsert copia el documento del pedido al histórico. La clave es el mismo ID
// vivo: repetir la copia sobrescribe siempre de forma segura, lo que hace el
// archivado idempotente por ID.
func (r *ArchiveRepo) Upsert(ctx context.Context, a *entity.ArchivedOrder) error {
	items, err := json.Marshal(a.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	query := `
		INSERT INTO archived_orders (tenant_id, id, year, created_at, buyer_name, buyer_phone, order_type,
		                             payment_method, items, subtotal, tax, delivery_fee, total,
		                             address, neighborhood, sede, soft_deleted, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			year = EXCLUDED.year, created_at = EXCLUDED.created_at,
			buyer_name = EXCLUDED.buyer_name, buyer_phone = EXCLUDED.buyer_phone,
			order_type = EXCLUDED.order_type, payment_method = EXCLUDED.payment_method,
			items = EXCLUDED.items, subtotal = EXCLUDED.subtotal, tax = EXCLUDED.tax,
			delivery_fee = EXCLUDED.delivery_fee, total = EXCLUDED.total,
			address = EXCLUDED.address, neighborhood = EXCLUDED.neighborhood, sede = EXCLUDED.sede,
			archived_at = EXCLUDED.archived_at`
	_, err = r.q.Exec(ctx, query,
		a.TenantID, a.ID, a.Year, a.CreatedAt, a.BuyerName, a.BuyerPhone, string(a.OrderType),
		string(a.PaymentMethod), items, a.Subtotal, a.Tax, a.DeliveryFee, a.Total,
		nullIfEmpty(a.Address), nullIfEmpty(a.Neighborhood), nullIfEmpty(a.Sede), a.SoftDeleted, a.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert histórico: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si el pedido no está en el histórico.
func (r *ArchiveRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ArchivedOrder, error) {
	query := `SELECT ` + archivedColumns + ` FROM archived_orders WHERE tenant_id = $1 AND id = $2`
	a, err := scanArchived(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get histórico: %w", err)
	}
	return a, nil
}

// ListByYear devuelve el histórico de un año, incluyendo soft-deleted.
func (r *ArchiveRepo) ListByYear(ctx context.Context, tenantID string, year int) ([]entity.ArchivedOrder, error) {
	query := `SELECT ` + archivedColumns + ` FROM archived_orders WHERE tenant_id = $1 AND year = $2 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, year)
	if err != nil {
		return nil, fmt.Errorf("listar histórico: %w", err)
	}
	defer rows.Close()

	archived := make([]entity.ArchivedOrder, 0)
	for rows.Next() {
		a, err := scanArchived(rows)
		if err != nil {
			return nil, fmt.Errorf("scan histórico: %w", err)
		}
		archived = append(archived, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar histórico: %w", err)
	}
	return archived, nil
}

// SetSoftDeleted fija la marca de borrado lógico (reversible).
func (r *ArchiveRepo) SetSoftDeleted(ctx context.Context, tenantID, id string, deleted bool) error {
	query := `UPDATE archived_orders SET soft_deleted = $3 WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, tenantID, id, deleted)
	if err != nil {
		return fmt.Errorf("update soft-delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pedido archivado %s no existe", id)
	}
	return nil
}

func scanArchived(row pgx.Row) (*entity.ArchivedOrder, error) {
	var a entity.ArchivedOrder
	var orderType, paymentMethod string
	var items []byte
	var address, neighborhood, sede *string
	err := row.Scan(
		&a.TenantID, &a.ID, &a.Year, &a.CreatedAt, &a.BuyerName, &a.BuyerPhone, &orderType, &paymentMethod,
		&items, &a.Subtotal, &a.Tax, &a.DeliveryFee, &a.Total,
		&address, &neighborhood, &sede, &a.SoftDeleted, &a.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &a.Items); err != nil {
		return nil, fmt.Errorf("deserializar items: %w", err)
	}
	a.OrderType = entity.OrderType(orderType)
	a.PaymentMethod = entity.PaymentMethod(paymentMethod)
	a.Address = derefStr(address)
	a.Neighborhood = derefStr(neighborhood)
	a.Sede = derefStr(sede)
	return &a, nil
}
