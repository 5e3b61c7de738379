// Package pipeline wires the three pinned stages (producer, matcher,
// publisher) together over two SPSC rings and implements the documented
// start/stop choreography. The traffic generator and the wire-format
// publisher are out of scope collaborators (spec.md §1); Runtime takes
// them as injected functions so the pipeline *shape* can be exercised and
// tested without implementing either.
package pipeline

import (
	"runtime"
	"sync/atomic"

	"limitbook/domain"
	"limitbook/matching"
	"limitbook/ring"
	"limitbook/sink"
)

// ProducerFunc emits one OrderRequest by writing into slot. It returns
// false when the producer has no more requests to emit and the pipeline
// should begin shutdown.
type ProducerFunc func(slot *domain.OrderRequest) bool

// ConsumerFunc delivers one MarketDataEvent to the terminal collaborator
// (a wire transmitter in production, a statistics aggregator in tests).
type ConsumerFunc func(evt domain.MarketDataEvent)

// Runtime owns the two rings and the three stage goroutines' lifecycle.
type Runtime struct {
	r1 *ring.Ring[domain.OrderRequest]
	r2 *ring.Ring[domain.MarketDataEvent]

	engine *matching.Engine

	produce ProducerFunc
	consume ConsumerFunc

	producerRunning  atomic.Bool
	matcherRunning   atomic.Bool
	publisherRunning atomic.Bool

	producerDone  chan struct{}
	matcherDone   chan struct{}
	publisherDone chan struct{}
}

// New builds a Runtime. engineCfg sizes the matching engine; r1Size/r2Size
// size the two rings (each must be a power of 2).
func New(engineCfg matching.Config, r1Size, r2Size int, produce ProducerFunc, consume ConsumerFunc) *Runtime {
	r2 := ring.New[domain.MarketDataEvent](r2Size)
	engine := matching.NewEngine(engineCfg, sink.NewForward(r2))

	return &Runtime{
		r1:            ring.New[domain.OrderRequest](r1Size),
		r2:            r2,
		engine:        engine,
		produce:       produce,
		consume:       consume,
		producerDone:  make(chan struct{}),
		matcherDone:   make(chan struct{}),
		publisherDone: make(chan struct{}),
	}
}

// Engine exposes the underlying matching engine, for diagnostics and tests.
func (rt *Runtime) Engine() *matching.Engine {
	return rt.engine
}

// Start launches the three stages in the documented order: publisher,
// then matcher, then producer.
func (rt *Runtime) Start() {
	rt.publisherRunning.Store(true)
	rt.matcherRunning.Store(true)
	rt.producerRunning.Store(true)

	go rt.runPublisher()
	go rt.runMatcher()
	go rt.runProducer()
}

// Stop performs the graceful shutdown choreography: join the producer,
// busy-wait until R1 is empty, stop the matcher, busy-wait until R2 is
// empty, stop the publisher.
func (rt *Runtime) Stop() {
	<-rt.producerDone
	rt.producerRunning.Store(false)

	for !rt.r1.IsEmpty() {
		runtime.Gosched()
	}
	rt.matcherRunning.Store(false)
	<-rt.matcherDone

	for !rt.r2.IsEmpty() {
		runtime.Gosched()
	}
	rt.publisherRunning.Store(false)
	<-rt.publisherDone
}

func (rt *Runtime) runProducer() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(rt.producerDone)

	for rt.producerRunning.Load() {
		slot, ok := rt.r1.ClaimWrite()
		if !ok {
			runtime.Gosched()
			continue
		}
		if !rt.produce(slot) {
			return
		}
		rt.r1.CommitWrite()
	}
}

func (rt *Runtime) runMatcher() {
	defer close(rt.matcherDone)
	rt.engine.Run(rt.r1, &rt.matcherRunning)
}

func (rt *Runtime) runPublisher() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(rt.publisherDone)

	for rt.publisherRunning.Load() {
		slot, ok := rt.r2.ClaimRead()
		if !ok {
			runtime.Gosched()
			continue
		}
		evt := *slot
		rt.r2.CommitRead()
		rt.consume(evt)
	}
}
