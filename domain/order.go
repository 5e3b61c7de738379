// Package domain defines the core value types shared by the order book,
// the matching engine, and the pipeline: orders, market-data events, and
// the tagged request union that flows through the input ring.
package domain

// Side is which direction of the book an order rests on.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

// OrderType selects the order's execution semantics.
type OrderType uint8

const (
	// OrderTypeLimit rests in the book at Price if not fully matched.
	OrderTypeLimit OrderType = iota
	// OrderTypeMarket executes against whatever liquidity is available,
	// ignoring price, and cancels any unfilled remainder.
	OrderTypeMarket
	// OrderTypeIOC matches immediately up to Price (0 = unbounded) and
	// cancels the unfilled remainder.
	OrderTypeIOC
	// OrderTypeFOK matches its full quantity immediately or not at all.
	OrderTypeFOK
)

// Order is both the wire-shape submitted by a caller and the node shape
// stored in a book's arena while the order rests. ID, SymbolID, Side, Type
// and Quantity are immutable identity fields. Filled is the only mutable
// counter. PrevIdx/NextIdx are intrusive FIFO links into the owning book's
// node arena; they are meaningless outside that context and must not be
// read by callers that only submit orders.
type Order struct {
	ID       int64
	SymbolID int32
	Side     Side
	Type     OrderType
	Quantity int32
	Price    int32 // tick index; 0 means "unbounded" for MARKET/IOC/FOK

	Filled int32

	// PrevIdx/NextIdx are valid only while the order is linked into a
	// price level's FIFO. NoHandle (-1) otherwise.
	PrevIdx int32
	NextIdx int32
}

// NoHandle is the sentinel arena handle meaning "not linked."
const NoHandle int32 = -1

// NewOrder builds an order in its pre-submission state: unfilled and
// unlinked.
func NewOrder(id int64, symbolID int32, side Side, typ OrderType, quantity, price int32) Order {
	return Order{
		ID:       id,
		SymbolID: symbolID,
		Side:     side,
		Type:     typ,
		Quantity: quantity,
		Price:    price,
		PrevIdx:  NoHandle,
		NextIdx:  NoHandle,
	}
}

// RemainingQuantity is the unfilled portion of the order.
func (o *Order) RemainingQuantity() int32 {
	return o.Quantity - o.Filled
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity() <= 0
}

// Fill increments the filled counter. It never clamps: callers are
// responsible for never filling more than RemainingQuantity.
func (o *Order) Fill(quantity int32) {
	o.Filled += quantity
}
