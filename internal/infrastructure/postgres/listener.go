package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	appsync "github.com/jhoicas/Pedidos-api/internal/application/sync"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// reconnectDelay espera entre reintentos cuando se cae la conexión del feed.
const reconnectDelay = 2 * time.Second

// Listener mantiene una conexión dedicada en LISTEN sobre el canal de cambios
// y alimenta al motor de sincronización. Tras cada (re)conexión reemite el
// estado completo a todos los tenants con suscriptores: la entrega
// al-menos-una-vez cubre las notificaciones perdidas durante la caída.
type Listener struct {
	pool   *pgxpool.Pool
	engine *appsync.Engine
	log    *logger.Logger
}

// NewListener construye el listener del feed de cambios.
func NewListener(pool *pgxpool.Pool, engine *appsync.Engine, log *logger.Logger) *Listener {
	return &Listener{pool: pool, engine: engine, log: log}
}

// Run bloquea escuchando notificaciones hasta que el contexto se cancele.
// Correr en su propia goroutine.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listenOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn().Err(err).Msg("feed de cambios caído, reconectando")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// listenOnce toma una conexión del pool, entra en LISTEN y despacha
// notificaciones hasta que la conexión falle o el contexto se cancele.
func (l *Listener) listenOnce(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return err
	}

	// Reemisión completa tras (re)conectar: los suscriptores deben tolerar
	// snapshots redundantes.
	if err := l.engine.BroadcastAll(ctx); err != nil {
		l.log.Warn().Err(err).Msg("reemisión tras reconexión")
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		tenantID := notification.Payload
		if err := l.engine.Broadcast(ctx, tenantID); err != nil {
			l.log.WithTenant(tenantID).Warn().Err(err).Msg("fan-out de cambio")
		}
	}
}
