package bookv1

import (
	"container/heap"
	"errors"
	"fmt"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
)

var (
	// ErrNilOrder indicates an attempt to insert a nil order.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrWrongSide indicates an order inserted into the queue of the other side.
	ErrWrongSide = errors.New("order side does not match queue side")
	// ErrDuplicateOrder indicates an order id already present in the queue.
	ErrDuplicateOrder = errors.New("order already in queue")
)

// SideQueue holds the resting orders of one side of the book in price-time
// priority: best price first (highest for bids, lowest for asks), ties broken
// by earliest sequence. A locator index keyed by order id makes arbitrary
// removal for cancellation O(log n); it is updated on every heap mutation.
type SideQueue struct {
	h *orderHeap
}

// NewSideQueue creates an empty queue for the given side.
func NewSideQueue(side orderv1.Side) *SideQueue {
	return &SideQueue{
		h: &orderHeap{
			side:    side,
			locator: make(map[int64]int),
		},
	}
}

// Len returns the number of resting orders.
func (q *SideQueue) Len() int {
	return q.h.Len()
}

// PeekBest returns the best resting order without removing it, or nil when
// the queue is empty.
func (q *SideQueue) PeekBest() *orderv1.Order {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h.orders[0]
}

// Insert adds an order to the queue.
func (q *SideQueue) Insert(o *orderv1.Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.Side != q.h.side {
		return fmt.Errorf("%w: order %d is %s, queue is %s", ErrWrongSide, o.ID, o.Side, q.h.side)
	}
	if _, exists := q.h.locator[o.ID]; exists {
		return fmt.Errorf("%w: id %d", ErrDuplicateOrder, o.ID)
	}
	heap.Push(q.h, o)
	return nil
}

// PopBest removes and returns the best resting order, or nil when empty.
func (q *SideQueue) PopBest() *orderv1.Order {
	if q.h.Len() == 0 {
		return nil
	}
	return heap.Pop(q.h).(*orderv1.Order)
}

// Remove removes the order with the given id regardless of its position and
// returns it, or nil when the id is not in the queue.
func (q *SideQueue) Remove(id int64) *orderv1.Order {
	i, ok := q.h.locator[id]
	if !ok {
		return nil
	}
	return heap.Remove(q.h, i).(*orderv1.Order)
}

// Contains reports whether an order with the given id rests in the queue.
func (q *SideQueue) Contains(id int64) bool {
	_, ok := q.h.locator[id]
	return ok
}

// TotalVolume returns the summed remaining quantity of all resting orders.
func (q *SideQueue) TotalVolume() int64 {
	var total int64
	for _, o := range q.h.orders {
		total += o.Quantity
	}
	return total
}

// orderHeap implements heap.Interface with side-aware priority.
type orderHeap struct {
	side    orderv1.Side
	orders  []*orderv1.Order
	locator map[int64]int // order id -> heap index
}

func (h *orderHeap) Len() int { return len(h.orders) }

func (h *orderHeap) Less(i, j int) bool {
	a, b := h.orders[i], h.orders[j]
	cmp := a.Price.Cmp(b.Price)
	if cmp == 0 {
		return a.Sequence < b.Sequence
	}
	if h.side == orderv1.SideBuy {
		return cmp > 0 // highest bid first
	}
	return cmp < 0 // lowest ask first
}

func (h *orderHeap) Swap(i, j int) {
	h.orders[i], h.orders[j] = h.orders[j], h.orders[i]
	h.locator[h.orders[i].ID] = i
	h.locator[h.orders[j].ID] = j
}

func (h *orderHeap) Push(x any) {
	o := x.(*orderv1.Order)
	h.locator[o.ID] = len(h.orders)
	h.orders = append(h.orders, o)
}

func (h *orderHeap) Pop() any {
	n := len(h.orders)
	o := h.orders[n-1]
	h.orders[n-1] = nil
	h.orders = h.orders[:n-1]
	delete(h.locator, o.ID)
	return o
}
