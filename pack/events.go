package pack

import (
	"context"

	"github.com/tescord/tescord/emitter"
	"github.com/tescord/tescord/errors"
)

// On registers a listener for a named event. The same event may be
// registered any number of times on one pack; each call is tracked under a
// synthetic id and reversed independently.
func (p *Pack) On(event string, fn emitter.Listener) (Disposer, error) {
	return p.on(event, fn, false)
}

// Once registers a listener removed after the first emission that invokes it.
func (p *Pack) Once(event string, fn emitter.Listener) (Disposer, error) {
	return p.on(event, fn, true)
}

func (p *Pack) on(event string, fn emitter.Listener, once bool) (Disposer, error) {
	if event == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "Pack", "On", "event name validation")
	}
	if fn == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", "On", "event "+event)
	}

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil, errors.WrapRegistration(errors.ErrDestroyed, "Pack", "On", "pack "+p.id)
	}

	var reg *emitter.Registration
	if once {
		reg = p.emitter.Once(event, fn)
	} else {
		reg = p.emitter.On(event, fn)
	}
	id := syntheticEventID(p.id, event)
	p.events[id] = &eventEntry{
		EventRegistration: EventRegistration{ID: id, Event: event, Listener: fn, Handle: reg},
		reg:               reg,
	}
	p.eventOrder = append(p.eventOrder, id)
	p.mu.Unlock()

	dispose := func() {
		p.mu.Lock()
		entry, ok := p.events[id]
		if ok {
			delete(p.events, id)
			p.eventOrder = removeID(p.eventOrder, id)
		}
		p.mu.Unlock()
		if ok {
			p.emitter.Off(entry.reg)
		}
	}
	p.trackDisposer(dispose)
	return dispose, nil
}

// EmitEvent invokes the pack's own listeners in registration order, then
// each sub-pack's subtree depth-first in attachment order. A pack's own
// listeners fully complete before any child runs. Results accumulate in
// that traversal order.
func (p *Pack) EmitEvent(ctx context.Context, event string, payload any) []emitter.Result {
	results := p.emitter.Emit(ctx, event, payload)
	for _, sub := range p.SubPacks() {
		results = append(results, sub.EmitEvent(ctx, event, payload)...)
	}
	return results
}

// EmitEventFirst walks the tree self-first and stops at the first pack
// whose own listeners yield a non-nil value. Listener errors and panics
// are swallowed in this mode.
func (p *Pack) EmitEventFirst(ctx context.Context, event string, payload any) (any, bool) {
	if v, ok := p.emitter.EmitFirst(ctx, event, payload); ok {
		return v, true
	}
	for _, sub := range p.SubPacks() {
		if v, ok := sub.EmitEventFirst(ctx, event, payload); ok {
			return v, true
		}
	}
	return nil, false
}

func removeID(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
