package bookv1

import orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"

// Book defines the interface of the matching engine's order book.
type Book interface {
	Submit(inst orderv1.Instruction) (*orderv1.Result, error)
	BestBid() *orderv1.Order
	BestAsk() *orderv1.Order
	BidTotalVolume() int64
	AskTotalVolume() int64
	PendingStopCount() int
	OrderCount() int
}
