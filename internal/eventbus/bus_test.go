package eventbus

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

func newTestBus(buffer int) *Bus {
	return New(buffer, zerolog.Nop())
}

func drain(ch <-chan domain.RealtimeEvent) []domain.RealtimeEvent {
	var out []domain.RealtimeEvent
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestBroadcast_ChannelScoping(t *testing.T) {
	bus := newTestBus(8)
	onX, _ := bus.Subscribe("X")
	onY, _ := bus.Subscribe("Y")

	bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, "for-x"), "X")

	gotX := drain(onX)
	require.Len(t, gotX, 1)
	assert.Equal(t, "for-x", gotX[0].Data)
	assert.Empty(t, drain(onY), "listener on Y must not see events broadcast solely to X")
}

func TestBroadcast_AllChannelReceivesEverything(t *testing.T) {
	bus := newTestBus(8)
	onAll, _ := bus.Subscribe(domain.ChannelAll)
	onX, _ := bus.Subscribe("X")

	bus.Broadcast(domain.NewRealtimeEvent(domain.EventVehicleUpdate, 1), "X")
	bus.Broadcast(domain.NewRealtimeEvent(domain.EventStatsUpdate, 2), "Y")

	assert.Len(t, drain(onAll), 2, `"all" subscriber must see every broadcast`)
	assert.Len(t, drain(onX), 1)
}

func TestBroadcast_MultiChannelDeliversOnce(t *testing.T) {
	bus := newTestBus(8)
	onAll, _ := bus.Subscribe(domain.ChannelAll)

	// A subscriber reachable through several target channels still gets
	// exactly one copy.
	bus.Broadcast(domain.NewRealtimeEvent(domain.EventNewShipment, nil), domain.ChannelShipments, domain.ChannelVehicles)

	assert.Len(t, drain(onAll), 1)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	bus := newTestBus(8)
	ch, unsubscribe := bus.Subscribe("X")

	bus.Broadcast(domain.NewRealtimeEvent(domain.EventPing, nil), "X")
	unsubscribe()
	bus.Broadcast(domain.NewRealtimeEvent(domain.EventPing, nil), "X")

	// One event before unsubscribe, then a closed stream.
	events := drain(ch)
	assert.Len(t, events, 1)
	assert.Equal(t, 0, bus.SubscriberCount("X"))

	// Idempotent.
	assert.NotPanics(t, unsubscribe)
}

func TestBroadcast_SlowSubscriberDroppedOthersSurvive(t *testing.T) {
	// The slow subscriber registers first so that dropping it compacts the
	// listener list in front of its neighbors mid-broadcast; every healthy
	// subscriber behind it must still receive the event.
	bus := newTestBus(1)
	slow, _ := bus.Subscribe("X")
	second, _ := bus.Subscribe("X")
	third, _ := bus.Subscribe("X")

	// Fill the slow subscriber's buffer, then keep publishing.
	bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, 1), "X")
	_ = drain(second)
	_ = drain(third)
	bus.Broadcast(domain.NewRealtimeEvent(domain.EventShipmentUpdate, 2), "X")

	// slow had buffer 1 and never read: second broadcast drops it.
	require.Equal(t, 2, bus.SubscriberCount("X"))

	got := drain(slow)
	assert.Len(t, got, 1, "dropped subscriber keeps only what fit its buffer")
	assert.Len(t, drain(second), 1, "subscriber registered right after the dropped one must still be served")
	assert.Len(t, drain(third), 1, "later subscribers must not be blocked by the slow one")
}

func TestBroadcast_RegistrationOrder(t *testing.T) {
	bus := newTestBus(8)
	first, _ := bus.Subscribe("X")
	second, _ := bus.Subscribe("X")

	bus.Broadcast(domain.NewRealtimeEvent(domain.EventStatsUpdate, "v"), "X")

	// Both receive; order within a synchronous broadcast follows
	// registration, which surfaces as first's event queued before second's
	// delivery completes. With buffered channels we can only assert both
	// deliveries happened.
	assert.Len(t, drain(first), 1)
	assert.Len(t, drain(second), 1)
}

func TestClose_DropsEveryone(t *testing.T) {
	bus := newTestBus(8)
	a, _ := bus.Subscribe("X")
	b, _ := bus.Subscribe(domain.ChannelAll)

	bus.Close()

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Equal(t, 0, bus.SubscriberCount("X"))
}
