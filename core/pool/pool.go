package pool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/bridgekit/core/dispatch"
	"github.com/dmitrymomot/bridgekit/core/logger"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
	"github.com/dmitrymomot/bridgekit/pkg/async"
)

// DefaultLimit is the slot count used when no limit is configured.
const DefaultLimit = 4

// slot is one pool cell: an optional live endpoint and at most one
// in-flight request. All fields are guarded by the pool mutex except the
// session's own internals.
type slot struct {
	endpoint transport.Endpoint
	session  *dispatch.Session
	building bool

	// future marks the slot busy; resolver rejects the in-flight call
	// when the pool abandons the slot.
	future   *async.Future[any]
	resolver async.Resolve[any]
}

// Pool schedules calls across a bounded set of worker endpoints.
type Pool struct {
	builder          transport.Builder
	log              *slog.Logger
	handshakeTimeout time.Duration

	mu     sync.Mutex
	cond   *sync.Cond
	slots  []*slot
	closed bool

	nextRequestID atomic.Uint64

	executed atomic.Int64
	failed   atomic.Int64
	active   atomic.Int32
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Executed int64 // calls whose remote invocation succeeded
	Failed   int64 // calls whose remote invocation returned an error
	Active   int32 // calls currently in flight
	Limit    int   // current slot count
	Workers  int   // slots with a live endpoint
}

// New creates a pool over the given endpoint builder.
func New(builder transport.Builder, opts ...Option) (*Pool, error) {
	if builder == nil {
		return nil, ErrBuilderNil
	}

	options := &poolOptions{
		limit:  DefaultLimit,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.limit < 1 {
		return nil, ErrInvalidLimit
	}

	p := &Pool{
		builder:          builder,
		log:              options.logger,
		handshakeTimeout: options.handshakeTimeout,
		slots:            emptySlots(options.limit),
	}
	p.cond = sync.NewCond(&p.mu)
	return p, nil
}

// NewFromConfig creates a pool from configuration. Additional options
// override config values.
func NewFromConfig(cfg Config, builder transport.Builder, opts ...Option) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	allOpts := append([]Option{
		WithLimit(cfg.Limit),
		WithHandshakeTimeout(cfg.HandshakeTimeout),
	}, opts...)
	return New(builder, allOpts...)
}

func emptySlots(n int) []*slot {
	slots := make([]*slot, n)
	for i := range slots {
		slots[i] = &slot{}
	}
	return slots
}

// Execute invokes the named procedure on the first free worker and
// returns the future of its result. The call may wait for a slot when
// the pool is saturated and may lazily construct the slot's endpoint.
// The context covers the whole call, slot wait included.
func (p *Pool) Execute(ctx context.Context, name string, args ...any) *async.Future[any] {
	future, resolve := async.New[any]()
	go p.run(ctx, future, resolve, name, args)
	return future
}

func (p *Pool) run(ctx context.Context, future *async.Future[any], resolve async.Resolve[any], name string, args []any) {
	sl, err := p.acquire(ctx, future, resolve)
	if err != nil {
		resolve(nil, err)
		return
	}

	session, err := p.ensureEndpoint(ctx, sl)
	if err != nil {
		p.release(sl, future)
		resolve(nil, err)
		return
	}

	requestID := p.nextRequestID.Add(1)
	p.active.Add(1)
	value, err := session.Call(ctx, requestID, name, args)
	p.active.Add(-1)
	if err != nil {
		p.failed.Add(1)
		p.log.DebugContext(ctx, "call failed",
			logger.RequestID(requestID),
			logger.Procedure(name),
			logger.Error(err))
	} else {
		p.executed.Add(1)
	}

	p.release(sl, future)
	resolve(value, err)
}

// acquire claims the first slot with no in-flight request, waiting for a
// settlement when every slot is busy. First-free scanning favors low
// slot indices; slots are fungible, so the bias is harmless.
func (p *Pool) acquire(ctx context.Context, future *async.Future[any], resolve async.Resolve[any]) (*slot, error) {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.mu.Unlock() //nolint:staticcheck // lock barrier so waiters are parked before the broadcast
		p.cond.Broadcast()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if p.closed {
			return nil, ErrPoolClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, sl := range p.slots {
			if sl.future == nil {
				sl.future = future
				sl.resolver = resolve
				return sl, nil
			}
		}
		p.cond.Wait()
	}
}

// release frees the slot if it still carries this call. After SetLimit
// the slot may already belong to a discarded generation; clearing it is
// still correct and waking waiters is a no-op for them.
func (p *Pool) release(sl *slot, future *async.Future[any]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sl.future == future {
		sl.future = nil
		sl.resolver = nil
		p.cond.Broadcast()
	}
}

// ensureEndpoint returns the slot's session, constructing the endpoint
// and completing the ready handshake when the slot is still empty.
// Concurrent construction of the same slot is collapsed to one build.
func (p *Pool) ensureEndpoint(ctx context.Context, sl *slot) (*dispatch.Session, error) {
	p.mu.Lock()
	for {
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if sl.endpoint != nil {
			session := sl.session
			p.mu.Unlock()
			return session, nil
		}
		if !sl.building {
			break
		}
		p.cond.Wait()
	}
	sl.building = true
	p.mu.Unlock()

	ep, err := p.buildEndpoint(ctx)

	p.mu.Lock()
	sl.building = false
	p.cond.Broadcast()
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if p.closed || !p.contains(sl) {
		p.mu.Unlock()
		ep.Terminate()
		if p.closed {
			return nil, ErrPoolClosed
		}
		return nil, ErrPoolReset
	}
	sl.endpoint = ep
	sl.session = dispatch.NewSession(ep, dispatch.WithLogger(p.log))
	session := sl.session
	p.mu.Unlock()
	return session, nil
}

// buildEndpoint constructs one endpoint and waits for its ready
// sentinel.
func (p *Pool) buildEndpoint(ctx context.Context) (transport.Endpoint, error) {
	if d := p.handshakeTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	ep, err := p.builder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build endpoint: %w", err)
	}

	ready := make(chan struct{}, 1)
	unsubscribe := ep.Subscribe(func(msg wire.Message) {
		if msg.Kind != wire.KindReady {
			return
		}
		select {
		case ready <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	select {
	case <-ready:
		return ep, nil
	case <-ep.Done():
		return nil, ErrHandshakeFailed
	case <-ctx.Done():
		ep.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrHandshakeFailed, ctx.Err())
	}
}

func (p *Pool) contains(sl *slot) bool {
	for _, s := range p.slots {
		if s == sl {
			return true
		}
	}
	return false
}

// LaunchWorkers constructs every missing endpoint in parallel. It is
// idempotent on slots whose endpoint already exists.
func (p *Pool) LaunchWorkers(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	slots := make([]*slot, len(p.slots))
	copy(slots, p.slots)
	p.mu.Unlock()

	errs := make([]error, len(slots))
	var wg sync.WaitGroup
	for i, sl := range slots {
		wg.Add(1)
		go func(i int, sl *slot) {
			defer wg.Done()
			_, errs[i] = p.ensureEndpoint(ctx, sl)
		}(i, sl)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// WaitAll blocks until no slot carries an in-flight request. Calls
// arriving during the wait extend it.
func (p *Pool) WaitAll(ctx context.Context) error {
	return p.waitFor(ctx, func() bool {
		for _, sl := range p.slots {
			if sl.future != nil {
				return false
			}
		}
		return true
	})
}

// WaitReady blocks until at least one slot is free.
func (p *Pool) WaitReady(ctx context.Context) error {
	return p.waitFor(ctx, func() bool {
		for _, sl := range p.slots {
			if sl.future == nil {
				return true
			}
		}
		return false
	})
}

// waitFor parks the caller on the pool condition until done (evaluated
// under the pool lock) holds. On a closed pool every wait ends with
// ErrPoolClosed.
func (p *Pool) waitFor(ctx context.Context, done func() bool) error {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.mu.Unlock() //nolint:staticcheck // lock barrier so waiters are parked before the broadcast
		p.cond.Broadcast()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if p.closed {
			return ErrPoolClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if done() {
			return nil
		}
		p.cond.Wait()
	}
}

// SetLimit terminates every current endpoint and replaces the slot array
// with n empty slots. Calls in flight on the old slots are rejected with
// ErrPoolReset.
func (p *Pool) SetLimit(n int) error {
	if n < 1 {
		return ErrInvalidLimit
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.abandonLocked(ErrPoolReset)
	p.slots = emptySlots(n)
	p.cond.Broadcast()
	return nil
}

// Close terminates every endpoint and rejects in-flight calls with
// ErrPoolClosed. Subsequent operations fail with ErrPoolClosed.
// Idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.abandonLocked(ErrPoolClosed)
	p.slots = nil
	p.cond.Broadcast()
	return nil
}

func (p *Pool) abandonLocked(reason error) {
	for _, sl := range p.slots {
		if sl.endpoint != nil {
			sl.endpoint.Terminate()
			sl.endpoint = nil
			sl.session = nil
		}
		if sl.resolver != nil {
			sl.resolver(nil, reason)
			sl.future = nil
			sl.resolver = nil
		}
	}
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	workers := 0
	for _, sl := range p.slots {
		if sl.endpoint != nil {
			workers++
		}
	}
	limit := len(p.slots)
	p.mu.Unlock()

	return Stats{
		Executed: p.executed.Load(),
		Failed:   p.failed.Load(),
		Active:   p.active.Load(),
		Limit:    limit,
		Workers:  workers,
	}
}
