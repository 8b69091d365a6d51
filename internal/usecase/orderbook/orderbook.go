package orderbook

import (
	"fmt"
	"time"

	bookv1 "github.com/HuangeChen/OrderBook/internal/domain/book/v1"
	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Orderbook is the matching engine for one instrument. It owns one price-time
// queue per side, the order index shared with those queues, and the pool of
// pending stop orders. Processing is single-threaded: Submit fully handles an
// instruction, including any stop-trigger cascade, before returning.
type Orderbook struct {
	bids *bookv1.SideQueue
	asks *bookv1.SideQueue

	// orders is the single source of truth for live orders: resting limits
	// and pending stops. Queue and index are mutated together.
	orders map[int64]*orderv1.Order
	stops  map[int64]*orderv1.Order

	sequence int64
	tradeSeq int64

	// trade price band for the current round, drives stop triggering
	maxTradePrice decimal.Decimal
	minTradePrice decimal.Decimal
	traded        bool
}

// NewOrderbook creates an empty order book.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		bids:   bookv1.NewSideQueue(orderv1.SideBuy),
		asks:   bookv1.NewSideQueue(orderv1.SideSell),
		orders: make(map[int64]*orderv1.Order),
		stops:  make(map[int64]*orderv1.Order),
	}
}

// Submit processes one instruction: match, rest, trigger or cancel. The
// returned result carries every trade the instruction produced, cascade
// included. Validation failures are returned synchronously; nothing is
// retried.
func (ob *Orderbook) Submit(inst orderv1.Instruction) (*orderv1.Result, error) {
	ob.sequence++
	res := &orderv1.Result{}

	switch inst.Type {
	case orderv1.TypeMarket:
		order, err := ob.newOrder(inst, false)
		if err != nil {
			return nil, err
		}
		ob.match(order, false, res)
		if order.IsFilled() {
			order.Status = orderv1.StatusFilled
		} else {
			// unmatched market remainder is discarded, never rested
			order.Status = orderv1.StatusDiscarded
		}
		ob.triggerStops(res)

	case orderv1.TypeLimit:
		order, err := ob.newOrder(inst, true)
		if err != nil {
			return nil, err
		}
		ob.match(order, true, res)
		if order.IsFilled() {
			order.Status = orderv1.StatusFilled
		} else {
			ob.rest(order)
			res.Rested = order
		}
		ob.triggerStops(res)

	case orderv1.TypeStop:
		order, err := ob.newOrder(inst, true)
		if err != nil {
			return nil, err
		}
		// never matched at submission; held until the trigger coordinator
		// converts it
		order.Status = orderv1.StatusPending
		ob.orders[order.ID] = order
		ob.stops[order.ID] = order
		res.Rested = order

	case orderv1.TypeCancel:
		res.Cancelled = ob.cancel(inst.ID)

	default:
		return nil, fmt.Errorf("%w: unknown order type %q", orderv1.ErrInvalidInstruction, inst.Type)
	}

	return res, nil
}

// newOrder validates an instruction and builds the live order for it.
func (ob *Orderbook) newOrder(inst orderv1.Instruction, needsPrice bool) (*orderv1.Order, error) {
	if inst.Side != orderv1.SideBuy && inst.Side != orderv1.SideSell {
		return nil, fmt.Errorf("%w: order %d has no side", orderv1.ErrInvalidInstruction, inst.ID)
	}
	if inst.Quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", orderv1.ErrInvalidQuantity, inst.Quantity)
	}
	if needsPrice && !inst.Price.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", orderv1.ErrInvalidPrice, inst.Price)
	}
	if inst.Type != orderv1.TypeMarket {
		if _, exists := ob.orders[inst.ID]; exists {
			return nil, fmt.Errorf("%w: id %d", orderv1.ErrDuplicateOrder, inst.ID)
		}
	}

	return &orderv1.Order{
		ID:       inst.ID,
		Type:     inst.Type,
		Side:     inst.Side,
		Price:    inst.Price,
		Quantity: inst.Quantity,
		Sequence: ob.sequence,
	}, nil
}

// match runs the aggressor against the opposite queue. With bounded true the
// loop stops once the best resting price is no longer acceptable to the
// aggressor's limit price. Trades execute at the resting order's price.
func (ob *Orderbook) match(aggressor *orderv1.Order, bounded bool, res *orderv1.Result) {
	counter := ob.asks
	if !aggressor.IsBid() {
		counter = ob.bids
	}

	for aggressor.Quantity > 0 {
		resting := counter.PeekBest()
		if resting == nil {
			break
		}
		if bounded && !acceptable(aggressor, resting.Price) {
			break
		}

		volume := min(aggressor.Quantity, resting.Quantity)
		aggressor.Quantity -= volume
		resting.Quantity -= volume
		ob.recordTradePrice(resting.Price)

		ob.tradeSeq++
		res.Trades = append(res.Trades, orderv1.Trade{
			ID:        ulid.Make().String(),
			Price:     resting.Price,
			Volume:    volume,
			MakerID:   resting.ID,
			TakerID:   aggressor.ID,
			Sequence:  ob.tradeSeq,
			Timestamp: time.Now().UnixNano(),
		})

		if resting.IsFilled() {
			resting.Status = orderv1.StatusFilled
			// queue and index leave together
			counter.PopBest()
			delete(ob.orders, resting.ID)
		}
	}
}

// acceptable reports whether a resting price satisfies the aggressor's limit:
// buys accept resting asks at or below their limit, sells accept resting bids
// at or above it.
func acceptable(aggressor *orderv1.Order, restingPrice decimal.Decimal) bool {
	if aggressor.IsBid() {
		return restingPrice.Cmp(aggressor.Price) <= 0
	}
	return restingPrice.Cmp(aggressor.Price) >= 0
}

// rest puts an unfilled limit remainder on its own side of the book. Queue
// and index are updated together.
func (ob *Orderbook) rest(order *orderv1.Order) {
	order.Status = orderv1.StatusResting
	if order.IsBid() {
		ob.bids.Insert(order)
	} else {
		ob.asks.Insert(order)
	}
	ob.orders[order.ID] = order
}

// cancel removes the target order if it is still live. A missing id means the
// order already filled or was cancelled; that is a no-op, not an error.
func (ob *Orderbook) cancel(id int64) *orderv1.Order {
	target, exists := ob.orders[id]
	if !exists {
		return nil
	}

	switch target.Type {
	case orderv1.TypeLimit:
		if target.IsBid() {
			ob.bids.Remove(id)
		} else {
			ob.asks.Remove(id)
		}
	case orderv1.TypeStop:
		delete(ob.stops, id)
	}
	delete(ob.orders, id)
	target.Status = orderv1.StatusCancelled
	return target
}

// recordTradePrice widens the current round's trade price band.
func (ob *Orderbook) recordTradePrice(price decimal.Decimal) {
	if !ob.traded {
		ob.maxTradePrice = price
		ob.minTradePrice = price
		ob.traded = true
		return
	}
	if price.Cmp(ob.maxTradePrice) > 0 {
		ob.maxTradePrice = price
	}
	if price.Cmp(ob.minTradePrice) < 0 {
		ob.minTradePrice = price
	}
}

// BestBid returns the best resting bid, or nil.
func (ob *Orderbook) BestBid() *orderv1.Order {
	return ob.bids.PeekBest()
}

// BestAsk returns the best resting ask, or nil.
func (ob *Orderbook) BestAsk() *orderv1.Order {
	return ob.asks.PeekBest()
}

// BidTotalVolume returns the total resting bid quantity.
func (ob *Orderbook) BidTotalVolume() int64 {
	return ob.bids.TotalVolume()
}

// AskTotalVolume returns the total resting ask quantity.
func (ob *Orderbook) AskTotalVolume() int64 {
	return ob.asks.TotalVolume()
}

// PendingStopCount returns the number of stop orders waiting for a trigger.
func (ob *Orderbook) PendingStopCount() int {
	return len(ob.stops)
}

// OrderCount returns the number of live orders the book tracks.
func (ob *Orderbook) OrderCount() int {
	return len(ob.orders)
}

// Order returns the live order with the given id, or nil.
func (ob *Orderbook) Order(id int64) *orderv1.Order {
	return ob.orders[id]
}
