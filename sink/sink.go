// Package sink implements the three market-data sink strategies the
// matching engine can be parameterised on: throw away, accumulate
// in-process, or forward into a downstream ring. The engine's choice is
// fixed at construction (matching.NewEngine), never switched at runtime,
// following the teacher's own compile-time dispatch style
// (matching/engine.go's MatchingEngine taking its trade channel once, at
// construction).
package sink

import (
	"runtime"
	"sync"

	"limitbook/domain"
	"limitbook/ring"
)

// Sink receives every market-data event the matching engine emits.
type Sink interface {
	OnEvent(evt domain.MarketDataEvent)
}

// Discard drops every event. Used for benchmarking, where the cost of
// recording output would dominate the measurement.
type Discard struct{}

// OnEvent implements Sink.
func (Discard) OnEvent(domain.MarketDataEvent) {}

// Accumulate appends every event to an in-memory slice, guarded by a
// mutex so a test goroutine can read the sequence while the matcher
// (potentially a different goroutine) is still producing it.
type Accumulate struct {
	mu     sync.Mutex
	events []domain.MarketDataEvent
}

// NewAccumulate returns an empty Accumulate sink.
func NewAccumulate() *Accumulate {
	return &Accumulate{}
}

// OnEvent implements Sink.
func (a *Accumulate) OnEvent(evt domain.MarketDataEvent) {
	a.mu.Lock()
	a.events = append(a.events, evt)
	a.mu.Unlock()
}

// Events returns a snapshot copy of the events recorded so far.
func (a *Accumulate) Events() []domain.MarketDataEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.MarketDataEvent, len(a.events))
	copy(out, a.events)
	return out
}

// Forward writes every event into a downstream ring, busy-waiting while
// the ring is full. This is the sink the matcher stage uses to hand
// events to the publisher stage in pipeline.Runtime.
type Forward struct {
	out *ring.Ring[domain.MarketDataEvent]
}

// NewForward wraps out as a Sink.
func NewForward(out *ring.Ring[domain.MarketDataEvent]) *Forward {
	return &Forward{out: out}
}

// OnEvent implements Sink. It spins until a slot is available; there is
// no bound on how long that can take if the publisher stalls, matching
// spec's "neither side drops data" ring contract.
func (f *Forward) OnEvent(evt domain.MarketDataEvent) {
	for {
		slot, ok := f.out.ClaimWrite()
		if ok {
			*slot = evt
			f.out.CommitWrite()
			return
		}
		runtime.Gosched()
	}
}
