package ports

import "github.com/fleetline/logistics-platform/internal/core/domain"

// Broadcaster fans an event out to live subscribers on the named channels
// (plus the reserved "all" channel). Delivery is best-effort, at most once,
// and must never block the publisher.
type Broadcaster interface {
	Broadcast(event domain.RealtimeEvent, channels ...string)
}
