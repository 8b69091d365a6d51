package tradepublisherv1

import (
	"encoding/json"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

// TradeEvent is the payload published for each executed trade.
type TradeEvent struct {
	TradeID    string          `json:"tradeID"`
	Instrument string          `json:"instrument"`
	Price      decimal.Decimal `json:"price"`
	Volume     int64           `json:"volume"`
	MakerID    int64           `json:"makerID"`
	TakerID    int64           `json:"takerID"`
	Sequence   int64           `json:"sequence"`
	Timestamp  int64           `json:"timestamp"`
}

// FromTrade builds a TradeEvent for the given instrument from a trade.
func FromTrade(instrument string, t orderv1.Trade) TradeEvent {
	return TradeEvent{
		TradeID:    t.ID,
		Instrument: instrument,
		Price:      t.Price,
		Volume:     t.Volume,
		MakerID:    t.MakerID,
		TakerID:    t.TakerID,
		Sequence:   t.Sequence,
		Timestamp:  t.Timestamp,
	}
}

// ToBytes serializes the event for the wire.
func (e TradeEvent) ToBytes() []byte {
	buf, _ := json.Marshal(e)
	return buf
}
