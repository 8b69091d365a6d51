package tradepublisherv1

import (
	"context"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
)

// TradePublisher publishes executed trades to downstream consumers.
type TradePublisher interface {
	Publish(ctx context.Context, trades []orderv1.Trade) error
	Close() error
}
