package redisx

import "time"

const (
	// Read cache for a committed order: order:{order_id} -> order JSON.
	// Orders are immutable after commit, so the cached value never goes stale.
	KeyOrder = "order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 15 * time.Minute
	TTLDedup      = 48 * time.Hour
)
