// Package archive mueve pedidos terminales a la partición histórica y maneja
// el borrado lógico reversible sobre el histórico.
package archive

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	orderdomain "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// DefaultTimezone zona de referencia para el corte del barrido cuando el
// tenant no configura una propia.
const DefaultTimezone = "America/Bogota"

// ArchiveUseCase mueve pedidos de la partición viva al histórico.
//
// El archivado es copia y luego borrado: dos operaciones separadas, sin
// transacción entre particiones. Una falla entre ambas puede dejar un
// duplicado (la copia existe y el original sigue vivo); como la clave del
// archivo es el mismo ID vivo, repetir la copia siempre sobrescribe de forma
// segura y la operación es idempotente por ID.
type ArchiveUseCase struct {
	orderRepo   repository.OrderRepository
	archiveRepo repository.ArchiveRepository
	tenantRepo  repository.TenantRepository
	now         func() time.Time
}

// NewArchiveUseCase construye el caso de uso.
func NewArchiveUseCase(
	orderRepo repository.OrderRepository,
	archiveRepo repository.ArchiveRepository,
	tenantRepo repository.TenantRepository,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		orderRepo:   orderRepo,
		archiveRepo: archiveRepo,
		tenantRepo:  tenantRepo,
		now:         time.Now,
	}
}

// ArchiveOne archiva un pedido individual. A diferencia del barrido, esta
// acción está condicionada al estado: solo un pedido en lista puede salir del
// tablero. Repetir la llamada sobre un ID ya archivado es un no-op.
func (uc *ArchiveUseCase) ArchiveOne(ctx context.Context, tenantID, orderID string) error {
	o, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return fmt.Errorf("leer pedido: %w", err)
	}
	if o == nil {
		archived, err := uc.archiveRepo.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return fmt.Errorf("leer histórico: %w", err)
		}
		if archived != nil {
			// Ya salió de la partición viva: segunda llamada no-op.
			return nil
		}
		return domain.ErrNotFound
	}
	if !orderdomain.CanArchive(o.Status) {
		return domain.ErrIllegalTransition
	}
	return uc.moveToHistory(ctx, o)
}

// SweepOlderThan archiva todo pedido vivo con fecha de creación anterior al
// corte, sin importar su estado. Es la operación burda de "mover lo viejo",
// distinta del archivado individual. Re-ejecutarla con el mismo corte produce
// el mismo conjunto archivado (idempotente por ID). Devuelve cuántos pedidos
// se movieron.
func (uc *ArchiveUseCase) SweepOlderThan(ctx context.Context, tenantID string, cutoff time.Time) (int, error) {
	stale, err := uc.orderRepo.ListCreatedBefore(ctx, tenantID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("listar pedidos viejos: %w", err)
	}
	moved := 0
	for i := range stale {
		if err := uc.moveToHistory(ctx, &stale[i]); err != nil {
			// La operación se abandona; lo ya movido queda movido y el
			// siguiente barrido retoma donde falló.
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// CutoffAtMidnight calcula el corte del barrido: la medianoche local de hace
// daysOld días en la zona de referencia del tenant.
func (uc *ArchiveUseCase) CutoffAtMidnight(ctx context.Context, tenantID string, daysOld int) (time.Time, error) {
	tz := DefaultTimezone
	t, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return time.Time{}, fmt.Errorf("leer tenant: %w", err)
	}
	if t != nil && t.Timezone != "" {
		tz = t.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("zona horaria %q: %w", tz, err)
	}
	local := uc.now().In(loc).AddDate(0, 0, -daysOld)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), nil
}

// ToggleSoftDelete invierte la marca de borrado lógico de un pedido ya
// archivado, solo si el secreto coincide con el configurado por el tenant.
// Un secreto errado se rechaza sin mutar nada.
func (uc *ArchiveUseCase) ToggleSoftDelete(ctx context.Context, tenantID, orderID, secret string) (*entity.ArchivedOrder, error) {
	t, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("leer tenant: %w", err)
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(t.DeleteSecretHash), []byte(secret)) != nil {
		return nil, domain.ErrUnauthorized
	}

	a, err := uc.archiveRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer histórico: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.archiveRepo.SetSoftDeleted(ctx, tenantID, orderID, !a.SoftDeleted); err != nil {
		return nil, fmt.Errorf("marcar soft-delete: %w", err)
	}
	a.SoftDeleted = !a.SoftDeleted
	return a, nil
}

// ListHistory devuelve el histórico de un año, incluyendo soft-deleted.
func (uc *ArchiveUseCase) ListHistory(ctx context.Context, tenantID string, year int) ([]entity.ArchivedOrder, error) {
	return uc.archiveRepo.ListByYear(ctx, tenantID, year)
}

// moveToHistory copia el documento del pedido al histórico y luego lo borra de
// la partición viva. Dos pasos separados a propósito (ver doc del tipo).
func (uc *ArchiveUseCase) moveToHistory(ctx context.Context, o *entity.Order) error {
	a := &entity.ArchivedOrder{
		Order:      *o,
		Year:       yearOf(o),
		ArchivedAt: uc.now(),
	}
	if err := uc.archiveRepo.Upsert(ctx, a); err != nil {
		return fmt.Errorf("copiar al histórico: %w", err)
	}
	if err := uc.orderRepo.Delete(ctx, o.TenantID, o.ID); err != nil {
		return fmt.Errorf("borrar de la partición viva: %w", err)
	}
	return nil
}

// yearOf obtiene el año del pedido desde el prefijo del ID; si el ID no trae
// un prefijo parseable cae al año de creación.
func yearOf(o *entity.Order) int {
	if len(o.ID) > 4 {
		if y, err := strconv.Atoi(o.ID[:len(o.ID)-4]); err == nil {
			return y
		}
	}
	return o.CreatedAt.Year()
}
