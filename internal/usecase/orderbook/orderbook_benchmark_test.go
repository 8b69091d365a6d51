package orderbook

import (
	"strconv"
	"testing"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

func BenchmarkOrderbook_LimitOrders(b *testing.B) {
	ob := NewOrderbook()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderv1.SideBuy
		if i%2 == 0 {
			side = orderv1.SideSell
		}
		inst := orderv1.Instruction{
			ID:       int64(i + 1),
			Type:     orderv1.TypeLimit,
			Side:     side,
			Price:    decimal.NewFromInt(int64(100 + i%20)),
			Quantity: int64(i%10 + 1),
		}
		if _, err := ob.Submit(inst); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOrderbook_MarketAgainstDeepBook(b *testing.B) {
	ob := NewOrderbook()

	for i := 0; i < 10_000; i++ {
		inst := orderv1.Instruction{
			ID:       int64(i + 1),
			Type:     orderv1.TypeLimit,
			Side:     orderv1.SideSell,
			Price:    decimal.RequireFromString(strconv.Itoa(100 + i%50)),
			Quantity: 1_000_000,
		}
		if _, err := ob.Submit(inst); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		inst := orderv1.Instruction{
			ID:       int64(20_000 + i),
			Type:     orderv1.TypeMarket,
			Side:     orderv1.SideBuy,
			Quantity: 10,
		}
		if _, err := ob.Submit(inst); err != nil {
			b.Fatal(err)
		}
	}
}
