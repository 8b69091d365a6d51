package orderreaderv1

import (
	"context"

	orderv1 "github.com/HuangeChen/OrderBook/internal/domain/order/v1"
)

// InstructionReader delivers order instructions from the external feed, one
// at a time in arrival order.
type InstructionReader interface {
	// Read blocks until the next instruction is available. It returns io.EOF
	// when the feed is exhausted (file sources only).
	Read(ctx context.Context) (orderv1.Instruction, error)
	Close() error
}
