// Package matching implements the engine that owns one order book per
// symbol, validates and routes incoming requests, and drives the
// pinned-thread dispatch loop the pipeline runtime calls into. It
// generalizes the teacher's matching/engine.go ExchangeEngine (atomic
// symbol-to-engine routing, Start/Stop lifecycle) from its per-symbol
// goroutine-and-channel design to a single-threaded dispatch loop that
// pulls requests off an external ring, since spec.md's pipeline owns the
// threading model, not the engine itself.
package matching

import (
	"runtime"
	"sync/atomic"

	"limitbook/domain"
	"limitbook/orderbook"
	"limitbook/ring"
	"limitbook/sink"
)

// Config sizes an Engine's books and id-space.
type Config struct {
	NumSymbols       int32
	NLevels          int32
	OrderIDCapacity  int
	NodePoolCapacity int
}

// Engine owns every symbol's book and the dense order-id-to-symbol index
// used to route cancels without a hashed lookup.
type Engine struct {
	cfg    Config
	books  []*orderbook.OrderBook
	sink   sink.Sink

	// orderToSymbol[id] is the symbol a still-tracked order id belongs
	// to, or -1 if id has never been accepted (a submission rejected by
	// validation leaves it at -1). Per spec, entries are
	// never evicted: a filled or cancelled id keeps its symbol mapping
	// so a repeat cancel can still be routed to the book that will
	// report ORDER_NOT_FOUND, rather than silently doing nothing.
	orderToSymbol []int32
}

// NewEngine builds an Engine with one book per symbol in [0, cfg.NumSymbols),
// emitting every event through s.
func NewEngine(cfg Config, s sink.Sink) *Engine {
	e := &Engine{
		cfg:           cfg,
		books:         make([]*orderbook.OrderBook, cfg.NumSymbols),
		sink:          s,
		orderToSymbol: make([]int32, cfg.OrderIDCapacity),
	}
	for i := range e.books {
		e.books[i] = orderbook.NewOrderBook(int32(i), cfg.NLevels, cfg.OrderIDCapacity, cfg.NodePoolCapacity)
	}
	for i := range e.orderToSymbol {
		e.orderToSymbol[i] = domain.NoHandle
	}
	return e
}

// Book returns the order book for symbolID, for tests and diagnostics.
func (e *Engine) Book(symbolID int32) *orderbook.OrderBook {
	return e.books[symbolID]
}

// Submit validates order and, if accepted, routes it to its symbol's book.
// It is a precondition violation (panic) if order.ID is outside the
// engine's configured order-id capacity or order.SymbolID is outside its
// configured symbol count; both are programmer errors the surrounding
// runtime is expected never to produce.
func (e *Engine) Submit(order domain.Order, requestID, timestamp int64) {
	if order.ID < 0 || int(order.ID) >= len(e.orderToSymbol) {
		panic("matching: order id exceeds configured capacity")
	}
	if order.SymbolID < 0 || int(order.SymbolID) >= len(e.books) {
		panic("matching: unknown symbol id")
	}

	book := e.books[order.SymbolID]
	if reason, ok := validate(order, book.NLevels()); !ok {
		e.sink.OnEvent(domain.MarketDataEvent{
			Kind:      domain.EventRejected,
			OrderID:   order.ID,
			RequestID: requestID,
			Timestamp: timestamp,
			Reason:    reason,
		})
		return
	}

	e.orderToSymbol[order.ID] = order.SymbolID
	book.MatchOrder(order, requestID, timestamp, e.sink)
}

// Cancel routes a cancellation to the book that owns targetOrderID. An id
// this engine has never accepted is rejected here, without reaching a
// book; an id the engine has seen (even if already removed from its book)
// is forwarded so the book itself reports ORDER_NOT_FOUND, giving a
// consistent REJECTED contract for both "never existed" and "already
// gone" (see DESIGN.md for why this departs from a literal reading of
// the distilled spec's "without emitting" wording).
func (e *Engine) Cancel(targetOrderID, requestID, timestamp int64) {
	if targetOrderID < 0 || int(targetOrderID) >= len(e.orderToSymbol) {
		panic("matching: order id exceeds configured capacity")
	}
	symbolID := e.orderToSymbol[targetOrderID]
	if symbolID == domain.NoHandle {
		e.sink.OnEvent(domain.MarketDataEvent{
			Kind:      domain.EventRejected,
			OrderID:   targetOrderID,
			RequestID: requestID,
			Timestamp: timestamp,
			Reason:    domain.RejectOrderNotFound,
		})
		return
	}
	e.books[symbolID].CancelOrder(targetOrderID, requestID, timestamp, e.sink)
}

// validate applies the closed set of request-level validation rules, in
// the order spec.md §4.4 fixes, folding in the book's tick-range bound
// (spec.md §4.3's "precondition violation... yields an INVALID_PRICE
// rejection at the engine level before reaching the book").
func validate(order domain.Order, nLevels int32) (domain.RejectReason, bool) {
	if order.Quantity == 0 {
		return domain.RejectInvalidQuantity, false
	}
	if order.Type == domain.OrderTypeLimit && (order.Price <= 0 || order.Price >= nLevels) {
		return domain.RejectInvalidPrice, false
	}
	return domain.RejectNone, true
}

// Run drains requests from input, dispatching each to Submit or Cancel,
// until running is cleared. It pins its goroutine to the OS thread for
// the duration, mirroring the teacher's MatchingEngine.Start dedicating a
// goroutine to one symbol's processOrder loop.
func (e *Engine) Run(input *ring.Ring[domain.OrderRequest], running *atomic.Bool) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for running.Load() {
		slot, ok := input.ClaimRead()
		if !ok {
			runtime.Gosched()
			continue
		}
		req := *slot
		input.CommitRead()

		switch req.Kind {
		case domain.RequestOrder:
			e.Submit(req.Order, req.RequestID, req.Timestamp)
		case domain.RequestCancel:
			e.Cancel(req.TargetOrderID, req.RequestID, req.Timestamp)
		}
	}
}
