package orderbook

import (
	"limitbook/domain"
	"limitbook/sink"
)

// MatchOrder drives order against the opposite side of the book and, if
// it is a LIMIT order with quantity remaining afterwards, rests it.
// order is taken and mutated by value: the caller's copy is never
// retained past this call (a resting order is a fresh copy placed into
// the arena).
func (b *OrderBook) MatchOrder(order domain.Order, requestID int64, timestamp int64, s sink.Sink) {
	if order.Side == domain.SideBuy {
		b.matchBuy(&order, requestID, timestamp, s)
	} else {
		b.matchSell(&order, requestID, timestamp, s)
	}
}

// matchBuy matches a BUY aggressor against resting asks from minAsk
// upward. matchSell is its mirror image against bids from maxBid
// downward.
func (b *OrderBook) matchBuy(order *domain.Order, requestID, timestamp int64, s sink.Sink) {
	if order.Type == domain.OrderTypeFOK {
		if !b.enoughAskLiquidity(order) {
			s.OnEvent(cancelEvent(order, requestID, timestamp))
			return
		}
	}

	tick := b.minAsk
	for tick < b.nLevels && order.RemainingQuantity() > 0 {
		lvl := &b.asks[tick]
		if lvl.head == domain.NoHandle {
			tick++
			continue
		}
		if order.Type != domain.OrderTypeMarket && order.Price > 0 && tick > order.Price {
			break
		}
		b.drainLevel(lvl, order, requestID, timestamp, s)
		if lvl.head == domain.NoHandle {
			tick++
		}
	}
	b.minAsk = tick
	b.tightenAsk()

	if order.RemainingQuantity() > 0 {
		b.settleResidual(order, requestID, timestamp, s)
	}
}

func (b *OrderBook) matchSell(order *domain.Order, requestID, timestamp int64, s sink.Sink) {
	if order.Type == domain.OrderTypeFOK {
		if !b.enoughBidLiquidity(order) {
			s.OnEvent(cancelEvent(order, requestID, timestamp))
			return
		}
	}

	tick := b.maxBid
	for tick >= 0 && order.RemainingQuantity() > 0 {
		lvl := &b.bids[tick]
		if lvl.head == domain.NoHandle {
			if tick == 0 {
				break
			}
			tick--
			continue
		}
		if order.Type != domain.OrderTypeMarket && order.Price > 0 && tick < order.Price {
			break
		}
		b.drainLevel(lvl, order, requestID, timestamp, s)
		if lvl.head == domain.NoHandle {
			if tick == 0 {
				break
			}
			tick--
		}
	}
	b.maxBid = tick
	if b.maxBid < 0 {
		b.maxBid = 0
	}
	b.tightenBid()

	if order.RemainingQuantity() > 0 {
		b.settleResidual(order, requestID, timestamp, s)
	}
}

// drainLevel walks lvl's FIFO head-to-tail, filling order against each
// resting node until either the level is exhausted or order has no
// remaining quantity.
func (b *OrderBook) drainLevel(lvl *priceLevel, order *domain.Order, requestID, timestamp int64, s sink.Sink) {
	h := lvl.head
	for h != domain.NoHandle && order.RemainingQuantity() > 0 {
		resting := b.arena.At(h)
		fillQty := minInt32(order.RemainingQuantity(), resting.RemainingQuantity())
		order.Fill(fillQty)
		resting.Fill(fillQty)
		b.nextTradeID++
		s.OnEvent(domain.MarketDataEvent{
			Kind:           domain.EventFilled,
			OrderID:        order.ID,
			RequestID:      requestID,
			Timestamp:      timestamp,
			TradeID:        b.nextTradeID,
			RestingOrderID: resting.ID,
			Price:          order.Price,
			Quantity:       fillQty,
		})
		next := resting.NextIdx
		if resting.IsFilled() {
			b.freeNode(lvl, h, resting)
		}
		h = next
	}
}

// settleResidual handles an aggressor's unfilled remainder after the
// walk: LIMIT rests it, everything else (MARKET, IOC; FOK never reaches
// here) cancels it.
func (b *OrderBook) settleResidual(order *domain.Order, requestID, timestamp int64, s sink.Sink) {
	if order.Type == domain.OrderTypeLimit {
		b.restOrder(order, requestID, timestamp, s)
		return
	}
	s.OnEvent(cancelEvent(order, requestID, timestamp))
}

func (b *OrderBook) restOrder(order *domain.Order, requestID, timestamp int64, s sink.Sink) {
	handle := b.arena.Allocate()
	if handle == domain.NoHandle {
		panic("orderbook: node arena exhausted")
	}
	node := b.arena.At(handle)
	*node = *order
	node.PrevIdx = domain.NoHandle
	node.NextIdx = domain.NoHandle

	var lvl *priceLevel
	if order.Side == domain.SideBuy {
		lvl = &b.bids[order.Price]
		if order.Price > b.maxBid {
			b.maxBid = order.Price
		}
	} else {
		lvl = &b.asks[order.Price]
		if order.Price < b.minAsk {
			b.minAsk = order.Price
		}
	}
	b.appendNode(lvl, handle, node)
	b.index[order.ID] = handle

	s.OnEvent(domain.MarketDataEvent{
		Kind:      domain.EventAcked,
		OrderID:   order.ID,
		RequestID: requestID,
		Timestamp: timestamp,
		Price:     order.Price,
		Quantity:  order.RemainingQuantity(),
	})
}

func cancelEvent(order *domain.Order, requestID, timestamp int64) domain.MarketDataEvent {
	return domain.MarketDataEvent{
		Kind:      domain.EventCancelled,
		OrderID:   order.ID,
		RequestID: requestID,
		Timestamp: timestamp,
	}
}

// enoughAskLiquidity precomputes, without mutating the book, whether
// resting asks from minAsk upward (respecting order's price guard) sum to
// at least order's full quantity.
func (b *OrderBook) enoughAskLiquidity(order *domain.Order) bool {
	var sum int32
	for tick := b.minAsk; tick < b.nLevels; tick++ {
		lvl := &b.asks[tick]
		if lvl.head == domain.NoHandle {
			continue
		}
		if order.Price > 0 && tick > order.Price {
			break
		}
		for h := lvl.head; h != domain.NoHandle; h = b.arena.At(h).NextIdx {
			sum += b.arena.At(h).RemainingQuantity()
			if sum >= order.Quantity {
				return true
			}
		}
	}
	return sum >= order.Quantity
}

// enoughBidLiquidity is enoughAskLiquidity's mirror for a SELL aggressor.
func (b *OrderBook) enoughBidLiquidity(order *domain.Order) bool {
	var sum int32
	for tick := b.maxBid; tick >= 0; tick-- {
		lvl := &b.bids[tick]
		if lvl.head != domain.NoHandle {
			if order.Price > 0 && tick < order.Price {
				break
			}
			for h := lvl.head; h != domain.NoHandle; h = b.arena.At(h).NextIdx {
				sum += b.arena.At(h).RemainingQuantity()
				if sum >= order.Quantity {
					return true
				}
			}
		}
		if tick == 0 {
			break
		}
	}
	return sum >= order.Quantity
}
