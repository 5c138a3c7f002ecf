package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ArchiveRepository puerto de la partición histórica
// (tenant/{tenantId}/history/{year}/orders/{orderId}).
type ArchiveRepository interface {
	// Upsert copia el documento del pedido. La clave del archivo es el mismo ID
	// vivo, así que repetir la copia siempre es sobrescritura segura.
	Upsert(ctx context.Context, a *entity.ArchivedOrder) error
	// GetByID devuelve nil, nil si el pedido no está en el histórico.
	GetByID(ctx context.Context, tenantID, id string) (*entity.ArchivedOrder, error)
	// ListByYear devuelve el histórico de un año, incluyendo los soft-deleted
	// (las vistas de reporte los muestran tachados, no los ocultan).
	ListByYear(ctx context.Context, tenantID string, year int) ([]entity.ArchivedOrder, error)
	// SetSoftDeleted fija la marca de borrado lógico (reversible).
	SetSoftDeleted(ctx context.Context, tenantID, id string, deleted bool) error
}
