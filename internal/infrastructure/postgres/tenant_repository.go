package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository (usable con pool o tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create registra el restaurante.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO tenants (id, name, hostname, admin_password_hash, delete_secret_hash, timezone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Hostname, t.AdminPasswordHash, t.DeleteSecretHash, t.Timezone, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("el hostname %s ya está registrado: %w", t.Hostname, err)
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si el tenant no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `
		SELECT id, name, hostname, admin_password_hash, delete_secret_hash, timezone, created_at
		FROM tenants WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByHostname resuelve el tenant por el hostname del sitio público.
func (r *TenantRepo) GetByHostname(ctx context.Context, hostname string) (*entity.Tenant, error) {
	query := `
		SELECT id, name, hostname, admin_password_hash, delete_secret_hash, timezone, created_at
		FROM tenants WHERE hostname = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, hostname))
}

func (r *TenantRepo) scanOne(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Hostname, &t.AdminPasswordHash, &t.DeleteSecretHash, &t.Timezone, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}
