package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/kafka"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/pagination"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/redisx"
)

// EventPublisher is satisfied by kafka.Producer.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service orchestrates placement and serves the read side. Events and
// Redis are optional: when nil the service simply skips publishing and
// caching.
type Service struct {
	Store       Store
	Events      EventPublisher
	Redis       *redis.Client
	ServiceName string
}

// PlaceOrder runs the whole placement sequence in one storage transaction.
// On success the committed order is published and cached; both are
// post-commit side effects and never fail the call.
func (s *Service) PlaceOrder(ctx context.Context, userID string, items []ItemInput) (*Order, error) {
	var placed *Order
	err := s.Store.InTx(ctx, func(tx TxStore) error {
		o, err := placeOrder(ctx, tx, userID, items)
		if err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishPlaced(ctx, placed)
	s.cacheOrder(ctx, placed)
	return placed, nil
}

func (s *Service) ListOrders(ctx context.Context, page, limit int) ([]Order, pagination.Result, error) {
	return s.Store.ListOrders(ctx, page, limit)
}

// GetOrder reads through the cache. Safe because committed orders never
// change.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if s.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if b, err := s.Redis.Get(ctx, key).Bytes(); err == nil {
			var o Order
			if json.Unmarshal(b, &o) == nil {
				return &o, nil
			}
		}
	}

	o, err := s.Store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheOrder(ctx, o)
	return o, nil
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.Store.Statistics(ctx)
}

func (s *Service) publishPlaced(ctx context.Context, o *Order) {
	if s.Events == nil {
		return
	}
	items := make([]PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PlacedItem{BookID: it.BookID, Qty: it.Qty, UnitPriceCents: it.UnitPriceCents})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: o.ID,
		Payload: kafka.MustMarshal(OrderPlacedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			Items:      items,
			TotalCents: o.TotalCents,
		}),
	}
	s.Events.Publish(PartitionKey(o.ID), kafka.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) cacheOrder(ctx context.Context, o *Order) {
	if s.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrder, o.ID), b, redisx.TTLOrderCache).Err()
}
