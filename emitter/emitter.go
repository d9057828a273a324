// Package emitter provides the in-process result-collecting event bus used by
// packs, the codec and the root orchestrator. Unlike a fire-and-forget bus,
// every listener returns a value; emission modes differ in how those values
// are produced and consumed:
//
//   - Emit invokes listeners strictly sequentially and collects every result.
//     Sequential ordering is a hard contract: later listeners may depend on
//     mutations earlier listeners made to a shared payload passed by
//     reference.
//   - EmitSeq is the lazy single-pass variant of Emit.
//   - EmitParallel invokes all listeners concurrently; results keep
//     registration order regardless of completion order.
//   - EmitFirst stops at the first listener producing a non-nil value;
//     listener errors and panics mean "no result, continue" in this mode only.
//
// Listener panics are captured as result errors and never propagate. One-shot
// listeners are removed exactly once, after the full emission completes, for
// every mode.
package emitter

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

// Listener is an event listener. The payload is shared by reference across
// all listeners of one emission. The returned value is collected into the
// emission results; a nil value is the "absent" sentinel for EmitFirst.
type Listener func(ctx context.Context, payload any) (any, error)

// Result is the outcome of one listener invocation. A captured panic is
// reported through Err.
type Result struct {
	Value any
	Err   error
}

// Registration is the stable handle returned by On and Once. Removal via Off
// is O(1) by handle; the listener arena is compacted after the next emission
// on that event.
type Registration struct {
	id       uint64
	event    string
	once     bool
	fn       Listener
	removed  atomic.Bool
	consumed atomic.Bool
}

// Event returns the event name this registration listens on.
func (r *Registration) Event() string {
	return r.event
}

// Claim reserves one invocation slot for callers that invoke the listener
// outside an emission, such as a flattened dispatch cache. A non-once
// registration can be claimed while it is active; a once registration is
// atomically spent by its first successful claim, so concurrent claimers
// cannot double-fire it.
func (r *Registration) Claim() bool {
	if r.removed.Load() {
		return false
	}
	if !r.once {
		return !r.consumed.Load()
	}
	return r.consumed.CompareAndSwap(false, true)
}

// active reports whether the registration should still receive emissions.
func (r *Registration) active() bool {
	return !r.removed.Load() && !r.consumed.Load()
}

// Emitter is an event-name-keyed listener registry. The zero value is not
// usable; construct with New.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]*Registration
	nextID    atomic.Uint64
}

// New creates an empty emitter.
func New() *Emitter {
	return &Emitter{
		listeners: make(map[string][]*Registration),
	}
}

// On registers a listener for an event and returns its removal handle.
func (e *Emitter) On(event string, fn Listener) *Registration {
	return e.register(event, fn, false)
}

// Once registers a listener that is removed after the first emission in which
// it is invoked.
func (e *Emitter) Once(event string, fn Listener) *Registration {
	return e.register(event, fn, true)
}

func (e *Emitter) register(event string, fn Listener, once bool) *Registration {
	reg := &Registration{
		id:    e.nextID.Add(1),
		event: event,
		once:  once,
		fn:    fn,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], reg)
	return reg
}

// Off removes a registration. It is safe to call more than once; only the
// first call has an effect. A listener removed while an emission is in flight
// may still receive that emission.
func (e *Emitter) Off(reg *Registration) {
	if reg == nil {
		return
	}
	reg.removed.Store(true)
}

// ListenerCount returns the number of active listeners for an event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, reg := range e.listeners[event] {
		if reg.active() {
			count++
		}
	}
	return count
}

// Clear removes every listener for every event.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, regs := range e.listeners {
		for _, reg := range regs {
			reg.removed.Store(true)
		}
	}
	e.listeners = make(map[string][]*Registration)
}

// Emit invokes all listeners for the event strictly sequentially in
// registration order and collects their results. Panics are captured as
// result errors.
func (e *Emitter) Emit(ctx context.Context, event string, payload any) []Result {
	regs := e.snapshot(event)
	if len(regs) == 0 {
		return nil
	}

	results := make([]Result, 0, len(regs))
	for _, reg := range regs {
		results = append(results, invoke(ctx, reg.fn, payload))
		if reg.once {
			reg.consumed.Store(true)
		}
	}

	e.compact(event)
	return results
}

// EmitSeq returns a lazy single-pass sequence over the emission. Each
// listener runs only when its result is pulled; a listener fully completes
// before the next one starts. Once-listener removal and arena compaction run
// when iteration stops, including on early break.
func (e *Emitter) EmitSeq(ctx context.Context, event string, payload any) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		regs := e.snapshot(event)
		if len(regs) == 0 {
			return
		}
		defer e.compact(event)

		for _, reg := range regs {
			result := invoke(ctx, reg.fn, payload)
			if reg.once {
				reg.consumed.Store(true)
			}
			if !yield(result) {
				return
			}
		}
	}
}

// EmitParallel invokes all listeners concurrently and waits for all of them.
// Results keep registration order regardless of completion order. Payloads
// shared across listeners must be safe for concurrent access in this mode.
func (e *Emitter) EmitParallel(ctx context.Context, event string, payload any) []Result {
	regs := e.snapshot(event)
	if len(regs) == 0 {
		return nil
	}

	results := make([]Result, len(regs))
	var wg sync.WaitGroup
	for i, reg := range regs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = invoke(ctx, reg.fn, payload)
		}()
	}
	wg.Wait()

	for _, reg := range regs {
		if reg.once {
			reg.consumed.Store(true)
		}
	}

	e.compact(event)
	return results
}

// EmitFirst invokes listeners sequentially and returns the first non-nil
// value. Listener errors and panics are swallowed and treated as "no result,
// continue". Listeners after the first defined result are not invoked; a
// once-listener that never ran keeps its registration.
func (e *Emitter) EmitFirst(ctx context.Context, event string, payload any) (any, bool) {
	regs := e.snapshot(event)
	if len(regs) == 0 {
		return nil, false
	}
	defer e.compact(event)

	for _, reg := range regs {
		result := invoke(ctx, reg.fn, payload)
		if reg.once {
			reg.consumed.Store(true)
		}
		if result.Err == nil && result.Value != nil {
			return result.Value, true
		}
	}
	return nil, false
}

// snapshot copies the active registrations for an event so emission runs
// without holding the lock.
func (e *Emitter) snapshot(event string) []*Registration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	regs := e.listeners[event]
	if len(regs) == 0 {
		return nil
	}

	out := make([]*Registration, 0, len(regs))
	for _, reg := range regs {
		if reg.active() {
			out = append(out, reg)
		}
	}
	return out
}

// compact drops removed and consumed registrations from the event's arena.
func (e *Emitter) compact(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	regs := e.listeners[event]
	kept := regs[:0]
	for _, reg := range regs {
		if reg.active() {
			kept = append(kept, reg)
		}
	}
	if len(kept) == 0 {
		delete(e.listeners, event)
		return
	}
	e.listeners[event] = kept
}

// invoke runs one listener, converting a panic into a result error.
func invoke(ctx context.Context, fn Listener, payload any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Err: fmt.Errorf("listener panic: %v", r)}
		}
	}()

	value, err := fn(ctx, payload)
	return Result{Value: value, Err: err}
}
