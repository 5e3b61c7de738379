// Package orderbook implements a per-symbol price-time-priority continuous
// double auction over a dense, tick-indexed array of price levels. This
// replaces the teacher's red-black-tree/hashmap price structure
// (orderbook/price_tree.go, price_tree_sharded.go) entirely: the book's
// domain requires O(1) access and O(1) watermark advance per tick, which a
// balanced tree cannot give, so the dense array is a mandated redesign, not
// a style choice (see DESIGN.md).
//
// Each price level is a doubly-linked FIFO of resting orders, but instead
// of the teacher's container/list (and instead of raw pointers into a
// pool, as the original system does), the FIFO is expressed as a pair of
// int32 handles into a pool.Arena[domain.Order]: head/tail are handles,
// and an order's PrevIdx/NextIdx fields are the intrusive links. This is
// the idiomatic-Go translation of an intrusive pointer-linked pool: no
// pointer chasing outside the arena's own backing slice, no GC pressure
// from individually heap-allocated nodes.
package orderbook

import (
	"limitbook/domain"
	"limitbook/pool"
	"limitbook/sink"
)

// priceLevel is a FIFO of resting order handles at one tick. It is empty
// when head == domain.NoHandle; tail is meaningless in that state.
type priceLevel struct {
	head int32
	tail int32
}

// OrderBook is a single symbol's resting liquidity, matching engine state,
// and order-id index. It is owned exclusively by the matcher goroutine;
// nothing here is safe for concurrent access.
type OrderBook struct {
	symbolID int32
	nLevels  int32

	bids []priceLevel
	asks []priceLevel

	// index maps an order id directly to its arena handle. NoHandle means
	// "not currently resident" -- either never submitted to this book, or
	// resident once and since removed. Per spec, ids are never evicted
	// from this address space; the slot simply goes back to NoHandle.
	index []int32

	// maxBid is an upper-bound watermark on resting bid ticks: no bid
	// rests above maxBid. minAsk is a lower-bound watermark on resting
	// ask ticks: no ask rests below minAsk. Both start at the boundary
	// that also serves as the "book is empty" sentinel (0 and nLevels
	// respectively) and are loosened outward on insert, tightened inward
	// lazily as levels drain.
	maxBid int32
	minAsk int32

	nextTradeID int64

	arena *pool.Arena[domain.Order]
}

// NewOrderBook allocates a book for symbolID with nLevels price ticks on
// each side, an id index sized orderIDCapacity, and a resting-order arena
// sized nodeCapacity.
func NewOrderBook(symbolID int32, nLevels int32, orderIDCapacity int, nodeCapacity int) *OrderBook {
	b := &OrderBook{
		symbolID: symbolID,
		nLevels:  nLevels,
		bids:     make([]priceLevel, nLevels),
		asks:     make([]priceLevel, nLevels),
		index:    make([]int32, orderIDCapacity),
		maxBid:   0,
		minAsk:   nLevels,
		arena:    pool.NewArena[domain.Order](nodeCapacity),
	}
	for i := range b.bids {
		b.bids[i] = priceLevel{head: domain.NoHandle, tail: domain.NoHandle}
		b.asks[i] = priceLevel{head: domain.NoHandle, tail: domain.NoHandle}
	}
	for i := range b.index {
		b.index[i] = domain.NoHandle
	}
	return b
}

// SymbolID returns the symbol this book was constructed for.
func (b *OrderBook) SymbolID() int32 {
	return b.symbolID
}

// NLevels returns the number of price ticks on each side of this book.
func (b *OrderBook) NLevels() int32 {
	return b.nLevels
}

// TopOfBook tightens both watermarks past any now-empty levels and
// returns the current best bid/ask ticks. An empty side reports its
// sentinel: bestBid = 0, bestAsk = nLevels.
func (b *OrderBook) TopOfBook() (bestBid, bestAsk int32) {
	b.tightenBid()
	b.tightenAsk()
	return b.maxBid, b.minAsk
}

func (b *OrderBook) tightenBid() {
	for b.maxBid > 0 && b.bids[b.maxBid].head == domain.NoHandle {
		b.maxBid--
	}
}

func (b *OrderBook) tightenAsk() {
	for b.minAsk < b.nLevels && b.asks[b.minAsk].head == domain.NoHandle {
		b.minAsk++
	}
}

// unlinkNode removes handle (whose node is node) from lvl's FIFO at
// whatever position it occupies, using its Prev/Next links, and clears
// those links. It does not touch the id index or the arena; callers do
// that once they decide whether the slot is being freed or reused.
func (b *OrderBook) unlinkNode(lvl *priceLevel, handle int32, node *domain.Order) {
	if node.PrevIdx != domain.NoHandle {
		b.arena.At(node.PrevIdx).NextIdx = node.NextIdx
	} else {
		lvl.head = node.NextIdx
	}
	if node.NextIdx != domain.NoHandle {
		b.arena.At(node.NextIdx).PrevIdx = node.PrevIdx
	} else {
		lvl.tail = node.PrevIdx
	}
	node.PrevIdx = domain.NoHandle
	node.NextIdx = domain.NoHandle
}

// appendNode links handle (whose node is node) at lvl's tail.
func (b *OrderBook) appendNode(lvl *priceLevel, handle int32, node *domain.Order) {
	node.PrevIdx = lvl.tail
	node.NextIdx = domain.NoHandle
	if lvl.tail != domain.NoHandle {
		b.arena.At(lvl.tail).NextIdx = handle
	} else {
		lvl.head = handle
	}
	lvl.tail = handle
}

// freeNode unlinks and releases a fully-filled or cancelled resting order
// back to the pool, clearing its id index entry.
func (b *OrderBook) freeNode(lvl *priceLevel, handle int32, node *domain.Order) {
	b.unlinkNode(lvl, handle, node)
	b.index[node.ID] = domain.NoHandle
	b.arena.Deallocate(handle)
}

// CancelOrder removes orderID from the book if resident, emitting
// CANCELLED; otherwise it emits REJECTED{ORDER_NOT_FOUND}. The already
// filled portion of a partially-filled cancel is not reversed.
func (b *OrderBook) CancelOrder(orderID int64, requestID int64, timestamp int64, s sink.Sink) {
	handle := b.index[orderID]
	if handle == domain.NoHandle {
		s.OnEvent(domain.MarketDataEvent{
			Kind:      domain.EventRejected,
			OrderID:   orderID,
			RequestID: requestID,
			Timestamp: timestamp,
			Reason:    domain.RejectOrderNotFound,
		})
		return
	}
	node := b.arena.At(handle)
	lvl := b.levelFor(node)
	b.freeNode(lvl, handle, node)
	s.OnEvent(domain.MarketDataEvent{
		Kind:      domain.EventCancelled,
		OrderID:   orderID,
		RequestID: requestID,
		Timestamp: timestamp,
	})
}

func (b *OrderBook) levelFor(node *domain.Order) *priceLevel {
	if node.Side == domain.SideBuy {
		return &b.bids[node.Price]
	}
	return &b.asks[node.Price]
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
