package main

import (
	"fmt"
	"time"

	"limitbook/domain"
	"limitbook/matching"
	"limitbook/pipeline"
	"limitbook/symboltable"
)

// demoRequests replays a partial fill, then a market sweep across two ask
// levels, then a cancel of the already-filled order 1, all on symbol 0.
func demoRequests() []domain.OrderRequest {
	ts := int64(0)
	next := func() int64 {
		ts++
		return ts
	}
	return []domain.OrderRequest{
		{Kind: domain.RequestOrder, RequestID: 1, Timestamp: next(),
			Order: domain.NewOrder(1, 0, domain.SideSell, domain.OrderTypeLimit, 200, 15000)},
		{Kind: domain.RequestOrder, RequestID: 2, Timestamp: next(),
			Order: domain.NewOrder(2, 0, domain.SideBuy, domain.OrderTypeLimit, 100, 15000)},
		{Kind: domain.RequestOrder, RequestID: 3, Timestamp: next(),
			Order: domain.NewOrder(3, 0, domain.SideSell, domain.OrderTypeLimit, 100, 15005)},
		{Kind: domain.RequestOrder, RequestID: 4, Timestamp: next(),
			Order: domain.NewOrder(4, 0, domain.SideBuy, domain.OrderTypeMarket, 150, 0)},
		{Kind: domain.RequestCancel, RequestID: 5, Timestamp: next(), TargetOrderID: 1},
	}
}

func main() {
	table := symboltable.New([]string{"BTCUSDT"})
	fmt.Printf("symbol table initialized: %d symbols\n", table.Len())

	requests := demoRequests()
	i := 0
	producer := func(slot *domain.OrderRequest) bool {
		if i >= len(requests) {
			return false
		}
		*slot = requests[i]
		i++
		return true
	}

	consumer := func(evt domain.MarketDataEvent) {
		switch evt.Kind {
		case domain.EventAcked:
			fmt.Printf("ACKED    order=%d price=%d qty=%d\n", evt.OrderID, evt.Price, evt.Quantity)
		case domain.EventFilled:
			fmt.Printf("FILLED   trade=%d aggressor=%d resting=%d price=%d qty=%d\n",
				evt.TradeID, evt.OrderID, evt.RestingOrderID, evt.Price, evt.Quantity)
		case domain.EventCancelled:
			fmt.Printf("CANCELLED order=%d\n", evt.OrderID)
		case domain.EventRejected:
			fmt.Printf("REJECTED order=%d reason=%s\n", evt.OrderID, evt.Reason)
		}
	}

	rt := pipeline.New(matching.Config{
		NumSymbols:       int32(table.Len()),
		NLevels:          20000,
		OrderIDCapacity:  64,
		NodePoolCapacity: 64,
	}, 16, 16, producer, consumer)

	fmt.Println("starting pipeline")
	rt.Start()
	time.Sleep(10 * time.Millisecond)
	rt.Stop()
	fmt.Println("pipeline stopped")
}
