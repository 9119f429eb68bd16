// Package ordercache warms the Redis order read cache from order.placed
// events so the first reads after placement skip Postgres.
package ordercache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-bookstore-orders.git/internal/kafka"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/orders"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/redisx"
)

type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
}

// Cache is the slice of Redis the warmer needs; RedisCache is the real one.
type Cache interface {
	// SeenEvent marks eventID as processed and reports whether it already was.
	SeenEvent(ctx context.Context, eventID string) (bool, error)
	StoreOrder(ctx context.Context, orderID string, data []byte) error
}

type RedisCache struct {
	R       *redis.Client
	Service string
}

func (c *RedisCache) SeenEvent(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyDedup, c.Service, eventID)
	seen, err := redisx.Exists(ctx, c.R, key)
	if err != nil {
		return false, err
	}
	if !seen {
		err = c.R.Set(ctx, key, "1", redisx.TTLDedup).Err()
	}
	return seen, err
}

func (c *RedisCache) StoreOrder(ctx context.Context, orderID string, data []byte) error {
	return c.R.Set(ctx, fmt.Sprintf(redisx.KeyOrder, orderID), data, redisx.TTLOrderCache).Err()
}

type Service struct {
	Orders OrderGetter // Postgres-backed, not the cached read path
	Cache  Cache
}

// HandleOrderPlaced is the consumer handler. Returning nil commits the
// offset, so only transient failures (store/cache errors) propagate.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	seen, err := s.Cache.SeenEvent(ctx, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	o, err := s.Orders.GetOrder(ctx, p.OrderID)
	if catalog.IsNotFound(err) {
		// event for an order this store cannot see; nothing to warm
		log.Printf("ordercache: order %s not found, skipping", p.OrderID)
		return nil
	}
	if err != nil {
		return err
	}

	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.Cache.StoreOrder(ctx, o.ID, b)
}
