package orderbook

import (
	"testing"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Instruction helpers
func limit(id int64, side orderv1.Side, price string, quantity int64) orderv1.Instruction {
	return orderv1.Instruction{
		ID:       id,
		Type:     orderv1.TypeLimit,
		Side:     side,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
}

func market(id int64, side orderv1.Side, quantity int64) orderv1.Instruction {
	return orderv1.Instruction{
		ID:       id,
		Type:     orderv1.TypeMarket,
		Side:     side,
		Quantity: quantity,
	}
}

func stop(id int64, side orderv1.Side, trigger string, quantity int64) orderv1.Instruction {
	return orderv1.Instruction{
		ID:       id,
		Type:     orderv1.TypeStop,
		Side:     side,
		Price:    decimal.RequireFromString(trigger),
		Quantity: quantity,
	}
}

func cancel(id int64) orderv1.Instruction {
	return orderv1.Instruction{
		ID:   id,
		Type: orderv1.TypeCancel,
		Side: orderv1.SideNone,
	}
}

func mustSubmit(t *testing.T, ob *Orderbook, inst orderv1.Instruction) *orderv1.Result {
	t.Helper()
	res, err := ob.Submit(inst)
	require.NoError(t, err)
	return res
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Test 1: Basic constructor
func TestNewOrderbook(t *testing.T) {
	ob := NewOrderbook()

	assert.NotNil(t, ob)
	assert.Nil(t, ob.BestBid())
	assert.Nil(t, ob.BestAsk())
	assert.Equal(t, 0, ob.OrderCount())
	assert.Equal(t, 0, ob.PendingStopCount())
}

// Test 2: A limit order with no opposite liquidity rests
func TestOrderbook_LimitOrderRests(t *testing.T) {
	ob := NewOrderbook()

	res := mustSubmit(t, ob, limit(1, orderv1.SideBuy, "10", 5))

	assert.Empty(t, res.Trades)
	require.NotNil(t, res.Rested)
	assert.Equal(t, int64(1), res.Rested.ID)
	assert.Equal(t, orderv1.StatusResting, res.Rested.Status)

	require.NotNil(t, ob.BestBid())
	assert.Equal(t, int64(1), ob.BestBid().ID)
	assert.Equal(t, int64(5), ob.BidTotalVolume())
	assert.Equal(t, 1, ob.OrderCount())
}

// Test 3: Crossing limit orders trade at the resting order's price
func TestOrderbook_LimitCross(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideBuy, "10", 5))
	res := mustSubmit(t, ob, limit(2, orderv1.SideSell, "9", 3))

	require.Len(t, res.Trades, 1)
	trade := res.Trades[0]
	assert.True(t, trade.Price.Equal(price("10")), "trade executes at the resting price, got %s", trade.Price)
	assert.Equal(t, int64(3), trade.Volume)
	assert.Equal(t, int64(1), trade.MakerID)
	assert.Equal(t, int64(2), trade.TakerID)

	// order 1 keeps resting with the remainder, order 2 is gone
	rested := ob.Order(1)
	require.NotNil(t, rested)
	assert.Equal(t, int64(2), rested.Quantity)
	assert.Equal(t, int64(1), ob.BestBid().ID)
	assert.Nil(t, ob.Order(2))
	assert.Nil(t, ob.BestAsk())
}

// Test 4: A limit order stops matching once the price bound is violated
func TestOrderbook_LimitPriceBound(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "10", 5))
	mustSubmit(t, ob, limit(2, orderv1.SideSell, "12", 5))

	// willing to pay up to 10: only the 10 ask is eligible
	res := mustSubmit(t, ob, limit(3, orderv1.SideBuy, "10", 8))

	require.Len(t, res.Trades, 1)
	assert.True(t, res.Trades[0].Price.Equal(price("10")))
	assert.Equal(t, int64(5), res.Trades[0].Volume)

	// remainder rests on the bid side
	require.NotNil(t, res.Rested)
	assert.Equal(t, int64(3), res.Rested.Quantity)
	assert.Equal(t, int64(3), ob.BestBid().ID)
	assert.Equal(t, int64(2), ob.BestAsk().ID)
}

// Test 5: Market order walks the book in price-time order
func TestOrderbook_MarketOrderMultipleFills(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "11", 3))
	mustSubmit(t, ob, limit(2, orderv1.SideSell, "10", 4))
	mustSubmit(t, ob, limit(3, orderv1.SideSell, "10", 2))

	res := mustSubmit(t, ob, market(4, orderv1.SideBuy, 8))

	require.Len(t, res.Trades, 3)
	// best price first, same price by arrival
	assert.Equal(t, int64(2), res.Trades[0].MakerID)
	assert.Equal(t, int64(4), res.Trades[0].Volume)
	assert.Equal(t, int64(3), res.Trades[1].MakerID)
	assert.Equal(t, int64(2), res.Trades[1].Volume)
	assert.Equal(t, int64(1), res.Trades[2].MakerID)
	assert.Equal(t, int64(2), res.Trades[2].Volume)

	assert.Equal(t, int64(8), res.TradedVolume())

	// order 1 keeps its remainder on the book
	require.NotNil(t, ob.Order(1))
	assert.Equal(t, int64(1), ob.Order(1).Quantity)
	assert.Equal(t, int64(1), ob.AskTotalVolume())
}

// Test 6: Market order with no opposite liquidity is discarded
func TestOrderbook_MarketOrderNoLiquidity(t *testing.T) {
	ob := NewOrderbook()

	res := mustSubmit(t, ob, market(1, orderv1.SideBuy, 10))

	assert.Empty(t, res.Trades)
	assert.Nil(t, res.Rested)
	assert.Equal(t, 0, ob.OrderCount())
	assert.Nil(t, ob.BestBid())
	assert.Nil(t, ob.BestAsk())
}

// Test 7: Market remainder is discarded, never rested
func TestOrderbook_MarketRemainderDiscarded(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "10", 3))
	res := mustSubmit(t, ob, market(2, orderv1.SideBuy, 10))

	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(3), res.Trades[0].Volume)
	assert.Nil(t, res.Rested)
	assert.Nil(t, ob.Order(2))
	assert.Equal(t, 0, ob.OrderCount())
}

// Test 8: A fully filled resting order leaves both queue and index
func TestOrderbook_FilledOrderFullyRemoved(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "10", 5))
	res := mustSubmit(t, ob, market(2, orderv1.SideBuy, 5))

	require.Len(t, res.Trades, 1)
	assert.Nil(t, ob.Order(1))
	assert.Nil(t, ob.BestAsk())
	assert.Equal(t, 0, ob.OrderCount())
	assert.Equal(t, int64(0), ob.AskTotalVolume())
}

// Test 9: Trade volume never exceeds either counterparty's remainder
func TestOrderbook_TradeVolumeBounded(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "10", 7))
	res := mustSubmit(t, ob, limit(2, orderv1.SideBuy, "10", 4))

	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(4), res.Trades[0].Volume)

	// aggressor filled for exactly what the maker gave up
	assert.Equal(t, int64(3), ob.Order(1).Quantity)
	assert.Nil(t, ob.Order(2))
}

// Test 10: Same price level preserves arrival order across partial fills
func TestOrderbook_SamePriceFIFO(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideBuy, "10", 4))
	mustSubmit(t, ob, limit(2, orderv1.SideBuy, "10", 4))

	// partially consume the first order; its position must not change
	res := mustSubmit(t, ob, market(3, orderv1.SideSell, 2))
	require.Len(t, res.Trades, 1)
	assert.Equal(t, int64(1), res.Trades[0].MakerID)

	res = mustSubmit(t, ob, market(4, orderv1.SideSell, 3))
	require.Len(t, res.Trades, 2)
	assert.Equal(t, int64(1), res.Trades[0].MakerID) // remaining 2 of order 1
	assert.Equal(t, int64(2), res.Trades[0].Volume)
	assert.Equal(t, int64(2), res.Trades[1].MakerID)
	assert.Equal(t, int64(1), res.Trades[1].Volume)
}

// Test 11: Cancel removes a resting limit from queue and index
func TestOrderbook_CancelRestingLimit(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideBuy, "10", 5))
	res := mustSubmit(t, ob, cancel(1))

	require.NotNil(t, res.Cancelled)
	assert.Equal(t, int64(1), res.Cancelled.ID)
	assert.Equal(t, orderv1.StatusCancelled, res.Cancelled.Status)
	assert.Nil(t, ob.BestBid())
	assert.Equal(t, 0, ob.OrderCount())

	// cancelled orders no longer match
	sellRes := mustSubmit(t, ob, market(2, orderv1.SideSell, 5))
	assert.Empty(t, sellRes.Trades)
}

// Test 12: Cancel of an unknown id is a benign no-op
func TestOrderbook_CancelUnknownID(t *testing.T) {
	ob := NewOrderbook()

	res, err := ob.Submit(cancel(99))
	require.NoError(t, err)
	assert.Nil(t, res.Cancelled)
}

// Test 13: Cancel after a full fill is a no-op and leaves the book unchanged
func TestOrderbook_CancelAfterFill(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideSell, "10", 5))
	mustSubmit(t, ob, market(2, orderv1.SideBuy, 5))

	mustSubmit(t, ob, limit(3, orderv1.SideSell, "11", 2))
	res := mustSubmit(t, ob, cancel(1))

	assert.Nil(t, res.Cancelled)
	assert.Equal(t, 1, ob.OrderCount())
	assert.Equal(t, int64(3), ob.BestAsk().ID)
}

// Test 14: Cancel removes a pending stop from the pool
func TestOrderbook_CancelPendingStop(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, stop(1, orderv1.SideSell, "8", 5))
	assert.Equal(t, 1, ob.PendingStopCount())

	res := mustSubmit(t, ob, cancel(1))

	require.NotNil(t, res.Cancelled)
	assert.Equal(t, 0, ob.PendingStopCount())
	assert.Equal(t, 0, ob.OrderCount())
}

// Test 15: Validation rejections
func TestOrderbook_SubmitValidation(t *testing.T) {
	ob := NewOrderbook()

	testCases := []struct {
		name     string
		inst     orderv1.Instruction
		expected error
	}{
		{
			name:     "unknown type",
			inst:     orderv1.Instruction{ID: 1, Type: "iceberg", Side: orderv1.SideBuy, Quantity: 5},
			expected: orderv1.ErrInvalidInstruction,
		},
		{
			name:     "missing side",
			inst:     orderv1.Instruction{ID: 1, Type: orderv1.TypeMarket, Side: orderv1.SideNone, Quantity: 5},
			expected: orderv1.ErrInvalidInstruction,
		},
		{
			name:     "zero quantity",
			inst:     market(1, orderv1.SideBuy, 0),
			expected: orderv1.ErrInvalidQuantity,
		},
		{
			name:     "negative quantity",
			inst:     market(1, orderv1.SideBuy, -3),
			expected: orderv1.ErrInvalidQuantity,
		},
		{
			name:     "limit without price",
			inst:     orderv1.Instruction{ID: 1, Type: orderv1.TypeLimit, Side: orderv1.SideBuy, Quantity: 5},
			expected: orderv1.ErrInvalidPrice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ob.Submit(tc.inst)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.expected)
		})
	}

	// nothing leaked into the book
	assert.Equal(t, 0, ob.OrderCount())
}

// Test 16: Reusing a live order id is rejected
func TestOrderbook_DuplicateID(t *testing.T) {
	ob := NewOrderbook()

	mustSubmit(t, ob, limit(1, orderv1.SideBuy, "10", 5))

	res, err := ob.Submit(limit(1, orderv1.SideBuy, "11", 5))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, orderv1.ErrDuplicateOrder)

	// the id becomes reusable once the order is gone
	mustSubmit(t, ob, cancel(1))
	mustSubmit(t, ob, limit(1, orderv1.SideBuy, "11", 5))
	assert.Equal(t, int64(1), ob.BestBid().ID)
}
