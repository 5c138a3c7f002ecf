package repository

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// TenantRepository puerto de los restaurantes registrados.
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	// GetByID devuelve nil, nil si el tenant no existe.
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	// GetByHostname resuelve el tenant por el hostname del sitio público.
	GetByHostname(ctx context.Context, hostname string) (*entity.Tenant, error)
}
