package orderbook

import (
	"sort"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
)

// triggerStops is the stop-trigger coordinator. After a round of matching
// that traded, it re-scans the pending stops and converts triggered ones
// into unbounded (market-like) orders against the opposite queue. Those
// conversions can trade and widen the price band, so passes repeat until one
// triggers nothing. A stop triggers at most once per cascade, which bounds
// the loop by the number of pending stops. The price band resets afterwards.
//
// Trigger rule: a buy stop triggers when the round's max trade price reached
// its trigger price or above; a sell stop when the min trade price reached
// its trigger price or below. Stops fire in arrival order within a pass.
func (ob *Orderbook) triggerStops(res *orderv1.Result) {
	defer func() {
		ob.traded = false
	}()
	if !ob.traded {
		return
	}

	triggered := make(map[int64]bool)
	for {
		fired := false
		for _, stop := range ob.pendingBySequence() {
			if triggered[stop.ID] || !ob.shouldTrigger(stop) {
				continue
			}
			triggered[stop.ID] = true
			fired = true

			// leaves the pending pool before matching so the cascade can
			// never re-trigger it
			delete(ob.stops, stop.ID)
			delete(ob.orders, stop.ID)

			ob.match(stop, false, res)
			if stop.IsFilled() {
				stop.Status = orderv1.StatusFilled
			} else {
				stop.Status = orderv1.StatusDiscarded
			}
		}
		if !fired {
			break
		}
	}
}

func (ob *Orderbook) shouldTrigger(stop *orderv1.Order) bool {
	if stop.IsBid() {
		return ob.maxTradePrice.Cmp(stop.Price) >= 0
	}
	return ob.minTradePrice.Cmp(stop.Price) <= 0
}

// pendingBySequence snapshots the pending stops in arrival order so each
// pass is deterministic.
func (ob *Orderbook) pendingBySequence() []*orderv1.Order {
	pending := make([]*orderv1.Order, 0, len(ob.stops))
	for _, stop := range ob.stops {
		pending = append(pending, stop)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Sequence < pending[j].Sequence
	})
	return pending
}
