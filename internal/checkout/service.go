package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/tambeaditya101/next-ecom-api/internal/kafka"
	"github.com/tambeaditya101/next-ecom-api/internal/orders"
	"github.com/tambeaditya101/next-ecom-api/internal/redisx"
)

// Service runs the checkout pipeline: validate -> snapshot -> availability
// pre-check -> commit transaction -> assemble. A failure at any stage
// returns before anything is written; only CommitOrder has side effects,
// and those are all-or-nothing inside the transaction.
type Service struct {
	Store       Store
	Producer    *kafkax.Producer // optional, order.placed
	Redis       *redis.Client    // optional, stale-cache eviction + status cache
	ServiceName string
}

func (s *Service) PlaceOrder(ctx context.Context, req CartRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.Store.Snapshot(ctx, req.ProductIDs())
	if err != nil {
		return nil, err
	}
	if err := CheckAvailability(req.Lines, snap); err != nil {
		return nil, err
	}

	order, levels, err := s.Store.CommitOrder(ctx, req.UserID, req.Lines)
	if err != nil {
		return nil, err
	}

	// Post-commit fan-out is best effort: the order is durable either way.
	s.publishPlaced(order)
	s.refreshCaches(ctx, order, levels)

	return assemble(order, levels), nil
}

func (s *Service) publishPlaced(o *orders.Order) {
	if s.Producer == nil {
		return
	}
	items := make([]orders.ItemLine, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orders.ItemLine{ProductID: it.ProductID, Qty: it.Qty, PriceCents: it.PriceCents})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: fmt.Sprint(o.ID),
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:    o.ID,
			UserID:     o.UserID,
			Status:     string(o.Status),
			TotalCents: o.TotalCents,
			Items:      items,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) refreshCaches(ctx context.Context, o *orders.Order, levels []StockLevel) {
	if s.Redis == nil {
		return
	}
	// Cached product rows now carry stale stock; drop them.
	for _, lv := range levels {
		_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, lv.ProductID)).Err()
	}
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = s.Redis.Set(ctx, statusKey, `{"status":"`+string(o.Status)+`"}`, redisx.TTLStatusCache).Err()
}
