package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"limitbook/domain"
	"limitbook/matching"
)

// literalProducer replays a fixed sequence of requests, one per call, then
// signals end-of-input. It stands in for the out-of-scope synthetic
// workload generator.
func literalProducer(requests []domain.OrderRequest) ProducerFunc {
	i := 0
	return func(slot *domain.OrderRequest) bool {
		if i >= len(requests) {
			return false
		}
		*slot = requests[i]
		i++
		return true
	}
}

// collector is a concurrency-safe ConsumerFunc target for assertions,
// since the publisher stage runs on its own goroutine.
type collector struct {
	mu     sync.Mutex
	events []domain.MarketDataEvent
}

func (c *collector) consume(evt domain.MarketDataEvent) {
	c.mu.Lock()
	c.events = append(c.events, evt)
	c.mu.Unlock()
}

func (c *collector) snapshot() []domain.MarketDataEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.MarketDataEvent, len(c.events))
	copy(out, c.events)
	return out
}

func TestPipelineEndToEndBasicMatch(t *testing.T) {
	requests := []domain.OrderRequest{
		{
			Kind:      domain.RequestOrder,
			Order:     domain.NewOrder(1, 0, domain.SideSell, domain.OrderTypeLimit, 100, 15000),
			RequestID: 1,
			Timestamp: 1,
		},
		{
			Kind:      domain.RequestOrder,
			Order:     domain.NewOrder(2, 0, domain.SideBuy, domain.OrderTypeLimit, 100, 15000),
			RequestID: 2,
			Timestamp: 2,
		},
	}

	c := &collector{}
	rt := New(matching.Config{
		NumSymbols:       1,
		NLevels:          20000,
		OrderIDCapacity:  16,
		NodePoolCapacity: 16,
	}, 8, 8, literalProducer(requests), c.consume)

	rt.Start()
	rt.Stop()

	events := c.snapshot()
	require.Len(t, events, 2)
	require.Equal(t, domain.EventAcked, events[0].Kind)
	require.Equal(t, domain.EventFilled, events[1].Kind)
	require.EqualValues(t, 1, events[1].RestingOrderID)
}

func TestPipelineCancelFlowsThroughSameRing(t *testing.T) {
	requests := []domain.OrderRequest{
		{
			Kind:      domain.RequestOrder,
			Order:     domain.NewOrder(1, 0, domain.SideSell, domain.OrderTypeLimit, 100, 15000),
			RequestID: 1,
			Timestamp: 1,
		},
		{
			Kind:          domain.RequestCancel,
			TargetOrderID: 1,
			RequestID:     2,
			Timestamp:     2,
		},
	}

	c := &collector{}
	rt := New(matching.Config{
		NumSymbols:       1,
		NLevels:          20000,
		OrderIDCapacity:  16,
		NodePoolCapacity: 16,
	}, 8, 8, literalProducer(requests), c.consume)

	rt.Start()
	rt.Stop()

	events := c.snapshot()
	require.Len(t, events, 2)
	require.Equal(t, domain.EventCancelled, events[1].Kind)
}

// TestPipelineDrainsBeforeStop exercises backpressure: more requests than
// the ring's usable capacity, verifying no event is lost.
func TestPipelineDrainsBeforeStop(t *testing.T) {
	const n = 500
	requests := make([]domain.OrderRequest, 0, n)
	for i := 0; i < n; i++ {
		requests = append(requests, domain.OrderRequest{
			Kind:      domain.RequestOrder,
			Order:     domain.NewOrder(int64(i), 0, domain.SideSell, domain.OrderTypeLimit, 10, int32(100+i)),
			RequestID: int64(i),
			Timestamp: int64(i),
		})
	}

	c := &collector{}
	rt := New(matching.Config{
		NumSymbols:       1,
		NLevels:          2000,
		OrderIDCapacity:  n + 1,
		NodePoolCapacity: n + 1,
	}, 16, 16, literalProducer(requests), c.consume)

	rt.Start()
	rt.Stop()

	events := c.snapshot()
	require.Len(t, events, n)
	for _, e := range events {
		require.Equal(t, domain.EventAcked, e.Kind)
	}
}
