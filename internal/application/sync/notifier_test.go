package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainOne(t *testing.T, n *Notifier) Notification {
	t.Helper()
	select {
	case ev := <-n.Events():
		return ev
	default:
		t.Fatal("se esperaba un aviso pendiente en el canal")
		return Notification{}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Siembra inicial y detección de nuevos
// ──────────────────────────────────────────────────────────────────────────────

func TestNotifier_SnapshotInicialNoAvisa(t *testing.T) {
	source := newFakeSource()
	source.set("t1", ordenVivo("20250001"), ordenVivo("20250002"))
	engine := NewEngine(source)

	n, err := NewNotifier(context.Background(), engine, "t1")
	require.NoError(t, err)
	defer n.Close()

	assert.Empty(t, n.Events(), "el tablero ya muestra esos pedidos, no hay nada que avisar")
}

func TestNotifier_PedidoNuevoIndividual(t *testing.T) {
	source := newFakeSource()
	source.set("t1", ordenVivo("20250001"))
	engine := NewEngine(source)

	n, err := NewNotifier(context.Background(), engine, "t1")
	require.NoError(t, err)
	defer n.Close()

	source.set("t1", ordenVivo("20250001"), ordenVivo("20250002"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))

	ev := drainOne(t, n)
	assert.False(t, ev.Aggregated)
	assert.Equal(t, 1, ev.Count)
	assert.Equal(t, "20250002", ev.OrderID)
	assert.Equal(t, "Nuevo pedido 20250002", ev.Message)
}

func TestNotifier_VariosSinLeerSeAgregan(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	n, err := NewNotifier(context.Background(), engine, "t1")
	require.NoError(t, err)
	defer n.Close()

	source.set("t1", ordenVivo("20250001"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))
	drainOne(t, n)

	source.set("t1", ordenVivo("20250001"), ordenVivo("20250002"), ordenVivo("20250003"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))

	ev := drainOne(t, n)
	assert.True(t, ev.Aggregated, "con más de un no-leído el aviso es agregado")
	assert.Equal(t, 3, ev.Count)
	assert.Equal(t, "Tienes 3 pedidos nuevos", ev.Message)
	assert.Empty(t, ev.OrderID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ack y entregas redundantes
// ──────────────────────────────────────────────────────────────────────────────

func TestNotifier_AckVaciaLaColaCompleta(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	n, err := NewNotifier(context.Background(), engine, "t1")
	require.NoError(t, err)
	defer n.Close()

	source.set("t1", ordenVivo("20250001"), ordenVivo("20250002"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))
	drainOne(t, n)

	n.Ack()

	// Tras el Ack el siguiente pedido vuelve a avisar individual: la cola
	// arrancó vacía de nuevo, no acumulada.
	source.set("t1", ordenVivo("20250001"), ordenVivo("20250002"), ordenVivo("20250003"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))

	ev := drainOne(t, n)
	assert.False(t, ev.Aggregated)
	assert.Equal(t, "20250003", ev.OrderID)
}

func TestNotifier_EntregaRedundanteNoDuplicaAvisos(t *testing.T) {
	source := newFakeSource()
	engine := NewEngine(source)

	n, err := NewNotifier(context.Background(), engine, "t1")
	require.NoError(t, err)
	defer n.Close()

	source.set("t1", ordenVivo("20250001"))
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))
	drainOne(t, n)

	// Reconexión del feed: mismo estado reemitido completo.
	require.NoError(t, engine.BroadcastAll(context.Background()))

	assert.Empty(t, n.Events(), "los IDs ya conocidos no generan un segundo aviso")
}
