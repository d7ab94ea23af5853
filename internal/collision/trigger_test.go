package collision

import (
	"testing"

	"github.com/annel0/zonegrid/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []TriggerEvent
}

func (h *recordingHandler) OnTriggerEvent(ev TriggerEvent) {
	h.events = append(h.events, ev)
}

func (h *recordingHandler) count(kind EventKind) int {
	n := 0
	for _, ev := range h.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestCheckTriggers_EdgeExactlyOnce(t *testing.T) {
	e := NewEngine(DefaultOptions())
	h := &recordingHandler{}
	id := e.AddTrigger(20, 20, physics.NewCircle(2, 0), h, "shop")

	const radius = 0.5

	assert.Empty(t, e.CheckTriggers(15, 20, radius), "снаружи событий нет")

	events := e.CheckTriggers(17.6, 20, radius)
	require.Len(t, events, 1, "вход даёт одно событие")
	assert.Equal(t, EventEnter, events[0].Kind)
	assert.Equal(t, id, events[0].Trigger.ID)
	assert.Equal(t, "shop", events[0].Trigger.Data)
	assert.True(t, events[0].Trigger.WasInside)
	assert.Equal(t, 17.6, events[0].PlayerX)

	assert.Empty(t, e.CheckTriggers(18.5, 20, radius), "внутри событий нет")
	assert.Empty(t, e.CheckTriggers(20, 20, radius), "внутри событий нет")

	events = e.CheckTriggers(25, 20, radius)
	require.Len(t, events, 1, "выход даёт одно событие")
	assert.Equal(t, EventExit, events[0].Kind)
	assert.False(t, events[0].Trigger.WasInside)

	assert.Empty(t, e.CheckTriggers(30, 20, radius))

	assert.Equal(t, 1, h.count(EventEnter))
	assert.Equal(t, 1, h.count(EventExit))
	assert.Len(t, h.events, 2, "обработчик вызывается ровно на каждое событие")
}

func TestCheckTriggers_NilHandlerAndBoxZone(t *testing.T) {
	e := NewEngine(DefaultOptions())
	e.AddTrigger(0, 0, physics.NewBox(physics.Size3{X: 4, Z: 4}), nil, nil)

	events := e.CheckTriggers(2.2, 0, 0.5)
	require.Len(t, events, 1)
	assert.Equal(t, EventEnter, events[0].Kind)
	assert.Equal(t, "enter", events[0].Kind.String())
}

func TestGetActiveTriggers_IsPure(t *testing.T) {
	e := NewEngine(DefaultOptions())
	h := &recordingHandler{}
	a := e.AddTrigger(0, 0, physics.NewCircle(3, 0), h, nil)
	b := e.AddTrigger(1, 0, physics.NewCircle(3, 0), h, nil)
	e.AddTrigger(50, 50, physics.NewCircle(3, 0), h, nil)

	active := e.GetActiveTriggers(0.5, 0, 0.5)
	require.Len(t, active, 2)
	assert.Equal(t, a, active[0].ID)
	assert.Equal(t, b, active[1].ID)

	for _, tr := range e.Triggers() {
		assert.False(t, tr.WasInside, "GetActiveTriggers не меняет состояние")
	}
	assert.Empty(t, h.events, "GetActiveTriggers не вызывает обработчики")

	assert.Len(t, e.CheckTriggers(0.5, 0, 0.5), 2, "после чистого запроса вход всё ещё фиксируется")
}

func TestCheckTriggers_HandlerMutatesEngine(t *testing.T) {
	e := NewEngine(DefaultOptions())

	var victim ID
	var added ID
	victimHandler := &recordingHandler{}

	first := TriggerHandlerFunc(func(ev TriggerEvent) {
		if ev.Kind != EventEnter {
			return
		}
		// Обработчик перестраивает комнату прямо во время обхода
		assert.True(t, e.RemoveTrigger(victim))
		added = e.AddTrigger(0, 0, physics.NewCircle(5, 0), nil, nil)
		e.AddCollider(0, 0, physics.NewCircle(1, 0), TypeSolid, nil)
	})

	e.AddTrigger(0, 0, physics.NewCircle(5, 0), first, nil)
	victim = e.AddTrigger(0, 0, physics.NewCircle(5, 0), victimHandler, nil)

	events := e.CheckTriggers(0, 0, 0.5)
	require.Len(t, events, 1, "удалённый обработчиком триггер пропускается")
	assert.Empty(t, victimHandler.events)
	assert.Equal(t, 1, e.GetStats().ColliderCount)

	// Триггер, добавленный во время обхода, проверяется со следующего вызова
	events = e.CheckTriggers(0, 0, 0.5)
	require.Len(t, events, 1)
	assert.Equal(t, added, events[0].Trigger.ID)
}

func TestRemoveTrigger(t *testing.T) {
	e := NewEngine(DefaultOptions())
	id := e.AddTrigger(0, 0, physics.NewCircle(1, 0), nil, nil)

	_, ok := e.Trigger(id)
	assert.True(t, ok)
	assert.True(t, e.RemoveTrigger(id))
	assert.False(t, e.RemoveTrigger(id))
	assert.Empty(t, e.CheckTriggers(0, 0, 1))
	assert.Equal(t, 0, e.GetStats().GridCellCount, "триггеры не индексируются сеткой")
}
