package matching

import (
	"testing"

	"limitbook/domain"
	"limitbook/sink"
)

func newTestEngine() (*Engine, *sink.Accumulate) {
	s := sink.NewAccumulate()
	e := NewEngine(Config{
		NumSymbols:       2,
		NLevels:          20000,
		OrderIDCapacity:  64,
		NodePoolCapacity: 64,
	}, s)
	return e, s
}

func TestValidationOrderQuantityBeforePrice(t *testing.T) {
	e, s := newTestEngine()
	order := domain.NewOrder(1, 0, domain.SideBuy, domain.OrderTypeLimit, 0, 0)
	e.Submit(order, 1, 1)

	events := s.Events()
	if len(events) != 1 || events[0].Kind != domain.EventRejected || events[0].Reason != domain.RejectInvalidQuantity {
		t.Fatalf("expected INVALID_QUANTITY to take priority, got %+v", events)
	}
}

func TestValidationRejectsNonPositiveLimitPrice(t *testing.T) {
	e, s := newTestEngine()
	order := domain.NewOrder(1, 0, domain.SideBuy, domain.OrderTypeLimit, 10, 0)
	e.Submit(order, 1, 1)

	events := s.Events()
	if len(events) != 1 || events[0].Kind != domain.EventRejected || events[0].Reason != domain.RejectInvalidPrice {
		t.Fatalf("expected INVALID_PRICE, got %+v", events)
	}
}

func TestMarketOrderPriceZeroIsNotRejected(t *testing.T) {
	e, s := newTestEngine()
	order := domain.NewOrder(1, 0, domain.SideBuy, domain.OrderTypeMarket, 10, 0)
	e.Submit(order, 1, 1)

	events := s.Events()
	if len(events) != 1 || events[0].Kind != domain.EventCancelled {
		t.Fatalf("expected residual cancel for unfilled market order, not a rejection: %+v", events)
	}
}

func TestSubmitPanicsOnOrderIDOverCapacity(t *testing.T) {
	e, _ := newTestEngine()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for order id over capacity")
		}
	}()
	order := domain.NewOrder(999, 0, domain.SideBuy, domain.OrderTypeLimit, 10, 100)
	e.Submit(order, 1, 1)
}

func TestSubmitPanicsOnUnknownSymbol(t *testing.T) {
	e, _ := newTestEngine()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown symbol id")
		}
	}()
	order := domain.NewOrder(1, 99, domain.SideBuy, domain.OrderTypeLimit, 10, 100)
	e.Submit(order, 1, 1)
}

func TestCancelUnknownIDRejectsWithoutTouchingBook(t *testing.T) {
	e, s := newTestEngine()
	e.Cancel(42, 1, 1)

	events := s.Events()
	if len(events) != 1 || events[0].Kind != domain.EventRejected || events[0].Reason != domain.RejectOrderNotFound {
		t.Fatalf("expected ORDER_NOT_FOUND, got %+v", events)
	}
}

func TestCancelAfterFillIsOrderNotFound(t *testing.T) {
	e, s := newTestEngine()
	sell := domain.NewOrder(1, 0, domain.SideSell, domain.OrderTypeLimit, 100, 15000)
	buy := domain.NewOrder(2, 0, domain.SideBuy, domain.OrderTypeLimit, 100, 15000)
	e.Submit(sell, 1, 1)
	e.Submit(buy, 2, 2)

	// Order 1 was fully filled and removed from the book; its id persists
	// in orderToSymbol, so a cancel routes to the book and is rejected
	// there rather than short-circuiting at the engine.
	e.Cancel(1, 3, 3)

	events := s.Events()
	last := events[len(events)-1]
	if last.Kind != domain.EventRejected || last.Reason != domain.RejectOrderNotFound {
		t.Fatalf("expected ORDER_NOT_FOUND after full fill, got %+v", last)
	}
}

func TestCrossSymbolRouting(t *testing.T) {
	e, s := newTestEngine()
	e.Submit(domain.NewOrder(1, 0, domain.SideSell, domain.OrderTypeLimit, 100, 15000), 1, 1)
	e.Submit(domain.NewOrder(2, 1, domain.SideSell, domain.OrderTypeLimit, 50, 9000), 2, 2)

	bid0, ask0 := e.Book(0).TopOfBook()
	bid1, ask1 := e.Book(1).TopOfBook()
	if ask0 != 15000 || bid0 != 0 {
		t.Fatalf("symbol 0 top = (%d,%d)", bid0, ask0)
	}
	if ask1 != 9000 || bid1 != 0 {
		t.Fatalf("symbol 1 top = (%d,%d)", bid1, ask1)
	}
	if len(s.Events()) != 2 {
		t.Fatalf("expected 2 acks, got %+v", s.Events())
	}
}
