package sync

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func receiveUpdates(t *testing.T, tr *Tracker) []TrackerUpdate {
	t.Helper()
	select {
	case u := <-tr.Updates():
		return u
	default:
		t.Fatal("se esperaba una actualización pendiente del tracker")
		return nil
	}
}

func byID(updates []TrackerUpdate) map[string]TrackerUpdate {
	out := make(map[string]TrackerUpdate, len(updates))
	for _, u := range updates {
		out[u.OrderID] = u
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtrado por IDs guardados en el cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestTracker_FiltraALosIDsSeguidos(t *testing.T) {
	source := newFakeSource()
	source.set("t1",
		ordenVivo("20250001"),
		ordenVivo("20250002"),
		ordenVivo("20250003"),
	)
	engine := NewEngine(source)

	tr, err := NewTracker(context.Background(), engine, "t1", []string{"20250001", "20250003"})
	require.NoError(t, err)
	defer tr.Close()

	got := byID(receiveUpdates(t, tr))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "20250001")
	assert.Contains(t, got, "20250003")
	assert.NotContains(t, got, "20250002", "lo que el cliente no guardó no se muestra")
}

func TestTracker_IDDesconocidoProduceVistaVacia(t *testing.T) {
	source := newFakeSource()
	source.set("t1", ordenVivo("20250001"))
	engine := NewEngine(source)

	tr, err := NewTracker(context.Background(), engine, "t1", []string{"20249999"})
	require.NoError(t, err)
	defer tr.Close()

	assert.Empty(t, receiveUpdates(t, tr),
		"un ID ya archivado o inexistente simplemente desaparece de la vista")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mensajes: re-sorteo inmediato al cambiar el estado
// ──────────────────────────────────────────────────────────────────────────────

func TestTracker_CambioDeEstadoActualizaMensaje(t *testing.T) {
	source := newFakeSource()
	o := ordenVivo("20250001")
	o.OrderType = entity.OrderTypeDomicilio
	o.PaymentMethod = entity.PaymentEfectivo
	source.set("t1", o)
	engine := NewEngine(source)

	tr, err := NewTracker(context.Background(), engine, "t1", []string{"20250001"})
	require.NoError(t, err)
	defer tr.Close()

	first := byID(receiveUpdates(t, tr))["20250001"]
	assert.Equal(t, "pendiente", first.Status)
	assert.NotEmpty(t, first.Message)

	o.Status = entity.StatusEnPreparacion
	source.set("t1", o)
	require.NoError(t, engine.Broadcast(context.Background(), "t1"))

	second := byID(receiveUpdates(t, tr))["20250001"]
	assert.Equal(t, "en_preparacion", second.Status)
	assert.Contains(t, catalog[messageKey{
		Status:        entity.StatusEnPreparacion,
		OrderType:     entity.OrderTypeDomicilio,
		PaymentMethod: entity.PaymentEfectivo,
	}], second.Message, "el mensaje se re-sortea de inmediato para el estado nuevo")
}

func TestTracker_EntregaRedundanteConservaElMensaje(t *testing.T) {
	source := newFakeSource()
	o := ordenVivo("20250001")
	o.OrderType = entity.OrderTypeDomicilio
	o.PaymentMethod = entity.PaymentEfectivo
	source.set("t1", o)
	engine := NewEngine(source)

	tr, err := NewTracker(context.Background(), engine, "t1", []string{"20250001"})
	require.NoError(t, err)
	defer tr.Close()

	first := byID(receiveUpdates(t, tr))["20250001"]

	// Reconexión: mismo estado reemitido. Sin cambio de estado y sin tick del
	// timer, el mensaje vigente no se re-sortea.
	require.NoError(t, engine.BroadcastAll(context.Background()))
	second := byID(receiveUpdates(t, tr))["20250001"]
	assert.Equal(t, first.Message, second.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de mensajes
// ──────────────────────────────────────────────────────────────────────────────

func TestMessageFor_CombinacionExactaYFallback(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	exacta := entity.Order{
		Status:        entity.StatusLista,
		OrderType:     entity.OrderTypeRecoger,
		PaymentMethod: entity.PaymentEfectivo,
	}
	assert.Contains(t, catalog[messageKey{
		Status:        entity.StatusLista,
		OrderType:     entity.OrderTypeRecoger,
		PaymentMethod: entity.PaymentEfectivo,
	}], messageFor(rng, exacta))

	// Combinación fuera del catálogo: ej. lista pagada por datáfono.
	sinEntrada := entity.Order{
		Status:        entity.StatusLista,
		OrderType:     entity.OrderTypeDomicilio,
		PaymentMethod: entity.PaymentDatafono,
	}
	assert.Contains(t, fallback[entity.StatusLista], messageFor(rng, sinEntrada),
		"sin combinación exacta se cae al mensaje por estado")
}
