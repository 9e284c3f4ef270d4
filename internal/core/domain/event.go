package domain

import "time"

// RealtimeEventType enumerates the event kinds pushed to live subscribers.
type RealtimeEventType string

const (
	EventShipmentUpdate   RealtimeEventType = "shipment_update"
	EventVehicleUpdate    RealtimeEventType = "vehicle_update"
	EventNewShipment      RealtimeEventType = "new_shipment"
	EventAssignmentUpdate RealtimeEventType = "assignment_update"
	EventStatsUpdate      RealtimeEventType = "stats_update"
	EventPing             RealtimeEventType = "ping"
	EventConnected        RealtimeEventType = "connected"
)

// Broadcast channels. ChannelAll is reserved: subscribers on it receive
// every event regardless of the channels it was published to.
const (
	ChannelAll       = "all"
	ChannelShipments = "shipments"
	ChannelVehicles  = "vehicles"
	ChannelJobs      = "jobs"
)

// RealtimeEvent is ephemeral: it exists only on the wire to subscribers and
// is never persisted.
type RealtimeEvent struct {
	Type      RealtimeEventType `json:"type"`
	Data      any               `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewRealtimeEvent stamps an event with the current time.
func NewRealtimeEvent(t RealtimeEventType, data any) RealtimeEvent {
	return RealtimeEvent{Type: t, Data: data, Timestamp: time.Now().UTC()}
}
