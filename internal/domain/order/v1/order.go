package orderv1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInstruction indicates an unknown order type or side.
	ErrInvalidInstruction = errors.New("invalid instruction")
	// ErrInvalidQuantity indicates a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice indicates a non-positive price on an order that needs one.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrDuplicateOrder indicates an instruction reusing a live order id.
	ErrDuplicateOrder = errors.New("order id already exists")
)

// Type represents the type of order.
type Type string

const (
	// TypeMarket represents a market order.
	TypeMarket Type = "market"
	// TypeLimit represents a limit order.
	TypeLimit Type = "limit"
	// TypeStop represents a stop order, pending until triggered by trades.
	TypeStop Type = "stop"
	// TypeCancel represents a cancel instruction targeting a live order id.
	TypeCancel Type = "cancel"
)

// ParseType parses an order type from its feed representation.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeMarket:
		return TypeMarket, nil
	case TypeLimit:
		return TypeLimit, nil
	case TypeStop:
		return TypeStop, nil
	case TypeCancel:
		return TypeCancel, nil
	default:
		return "", fmt.Errorf("%w: unknown order type %q", ErrInvalidInstruction, s)
	}
}

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
	// SideNone is used for instructions where side is meaningless, e.g. cancels.
	SideNone Side = "na"
)

// ParseSide parses a side from its feed representation. Empty and "na" map to
// SideNone so cancel instructions can omit the field.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	case "", "na":
		return SideNone, nil
	default:
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidInstruction, s)
	}
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusPending marks a stop order waiting for its trigger.
	StatusPending Status = "pending"
	// StatusResting marks a limit order sitting on the book.
	StatusResting Status = "resting"
	// StatusFilled marks an order whose quantity reached zero.
	StatusFilled Status = "filled"
	// StatusCancelled marks an order removed by a cancel instruction.
	StatusCancelled Status = "cancelled"
	// StatusDiscarded marks unfilled market (or triggered stop) remainder
	// that was dropped instead of rested.
	StatusDiscarded Status = "discarded"
)

// Order represents a single order: immutable identity plus the remaining
// quantity that shrinks as trades execute. The same instance is shared by the
// side queue and the order index, never a copy.
type Order struct {
	ID       int64           `json:"id"`
	Type     Type            `json:"type"`
	Side     Side            `json:"side"`
	Price    decimal.Decimal `json:"price"` // limit price, or trigger price for stops
	Quantity int64           `json:"quantity"`
	Sequence int64           `json:"sequence"` // arrival order, assigned by the book
	Status   Status          `json:"status"`
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// IsFilled checks if the order is fully filled.
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Instruction is one order instruction delivered by the external feed.
// Irrelevant fields are tolerated as defaults: price for market orders,
// side for cancels. For cancels ID names the target order, not a new one.
type Instruction struct {
	ID       int64           `json:"id"`
	Type     Type            `json:"type"`
	Side     Side            `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}
