package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/tambeaditya101/next-ecom-api/internal/kafka"
	"github.com/tambeaditya101/next-ecom-api/internal/orders"
	"github.com/tambeaditya101/next-ecom-api/internal/redisx"
)

// Service consumes order.placed and handles the confirmation side: status
// cache for fast GETs plus the confirmation log line. Orders are already
// durable before any event exists, so losing or replaying events is safe.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}

	// dedup via Redis on event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	_ = s.Redis.Set(ctx, statusKey, fmt.Sprintf(`{"status":%q}`, p.Status), redisx.TTLStatusCache).Err()

	log.Printf("order placed: id=%d user=%d total_cents=%d items=%d",
		p.OrderID, p.UserID, p.TotalCents, len(p.Items))
	return nil
}
