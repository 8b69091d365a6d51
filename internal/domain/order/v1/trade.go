package orderv1

import "github.com/shopspring/decimal"

// Trade represents one execution between an aggressor and a resting order.
// Price is always the resting order's price.
type Trade struct {
	ID        string          `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Volume    int64           `json:"volume"`
	MakerID   int64           `json:"makerID"` // resting order
	TakerID   int64           `json:"takerID"` // aggressor
	Sequence  int64           `json:"sequence"`
	Timestamp int64           `json:"timestamp"`
}

// Result reports the outcome of one submitted instruction: the trades it
// produced (including any stop-trigger cascade) and how it left the book.
type Result struct {
	Trades    []Trade
	Rested    *Order // limit remainder or pending stop now held by the book
	Cancelled *Order // target removed by a cancel instruction
}

// TradedVolume returns the total volume across the result's trades.
func (r *Result) TradedVolume() int64 {
	var total int64
	for _, t := range r.Trades {
		total += t.Volume
	}
	return total
}
