package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/zonegrid/internal/collision"
	"github.com/annel0/zonegrid/internal/eventbus"
	"github.com/annel0/zonegrid/internal/room"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRooms []room.Info

func (s staticRooms) List() []room.Info { return s }

func TestRoomExporter_Collect(t *testing.T) {
	rooms := staticRooms{
		{ID: "a", Layout: "village", Stats: collision.Stats{ColliderCount: 4, TriggerCount: 1, GridCellCount: 5, AvgCollidersPerCell: 1.25}},
		{ID: "b", Layout: "arena", Stats: collision.Stats{ColliderCount: 10}},
	}

	reg := prometheus.NewRegistry()
	re := NewRoomExporter(rooms, reg, time.Hour)
	re.collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(re.rooms))
	assert.Equal(t, 4.0, testutil.ToFloat64(re.colliders.WithLabelValues("a", "village")))
	assert.Equal(t, 1.25, testutil.ToFloat64(re.avgPerCell.WithLabelValues("a", "village")))
	assert.Equal(t, 10.0, testutil.ToFloat64(re.colliders.WithLabelValues("b", "arena")))

	// Комната закрыта: её серии пропадают
	re.source = rooms[:1]
	re.collect()
	assert.Equal(t, 1.0, testutil.ToFloat64(re.rooms))
	assert.Equal(t, 1, testutil.CollectAndCount(re.colliders))

	re.Start()
	re.Stop()
}

func TestRoomExporter_CountTriggerEvents(t *testing.T) {
	bus := eventbus.NewMemoryBus(8)
	defer bus.Close()
	ctx := context.Background()

	re := NewRoomExporter(staticRooms{}, prometheus.NewRegistry(), time.Hour)
	_, err := re.CountTriggerEvents(ctx, bus)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventTriggerEnter, "a", nil)))
	require.NoError(t, bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventRoomSpawned, "a", nil)))
	require.NoError(t, bus.Publish(ctx, eventbus.NewEnvelope("test", eventbus.EventTriggerExit, "a", nil)))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(re.triggerEvents.WithLabelValues(eventbus.EventTriggerExit)) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(re.triggerEvents.WithLabelValues(eventbus.EventTriggerEnter)))
}
