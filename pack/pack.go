// Package pack implements the composable container node of the framework. A
// pack owns five keyed collections — locales, sub-packs, interactions,
// events, inspectors — and can nest into a tree. Registration methods reject
// duplicate ids and return disposers; events propagate depth-first through
// the whole subtree; composition via Use is reversible in one call.
package pack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tescord/tescord/emitter"
	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/inspector"
	"github.com/tescord/tescord/locale"
	"github.com/tescord/tescord/types"
)

// ReservedRootID is claimed by the root orchestrator; constructing a plain
// pack with it is a registration error.
const ReservedRootID = "tescord"

// Disposer reverses exactly the registration that produced it.
type Disposer func()

// Handler is the uniform stored handler form; registration methods accept
// typed handlers and wrap them.
type Handler func(ctx types.Context) any

// AutocompleteFunc produces choices for one focused command option.
type AutocompleteFunc func(ctx *types.AutocompleteContext) ([]types.Choice, error)

// Interaction is one registered interaction of any kind. Commands and
// components share one id namespace within a pack.
type Interaction struct {
	ID   string
	Kind types.InteractionKind
	// Pattern is the original registered pattern (slash-command family).
	Pattern string
	// Combinations are the expanded literal names (slash-command family).
	Combinations []string
	Description  string
	Options      []types.CommandOption
	Autocomplete map[string]AutocompleteFunc
	// Component is the declarative descriptor for component kinds,
	// consumed by BuildComponent.
	Component types.Component
	Handler   Handler
}

// EventRegistration is one registered platform-event listener.
type EventRegistration struct {
	// ID is synthetic (pack id + event name + unique suffix) because one
	// pack may register the same event multiple times.
	ID       string
	Event    string
	Listener emitter.Listener
	// Handle is the emitter registration backing this listener. Callers
	// invoking the listener directly must Claim it first so once
	// registrations fire exactly once across both paths.
	Handle *emitter.Registration
}

// Option configures a pack.
type Option func(*Pack)

// WithLogger sets the pack logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pack) { p.logger = logger }
}

// Pack is a composable container node.
type Pack struct {
	id      string
	logger  *slog.Logger
	emitter *emitter.Emitter
	locales *locale.Store

	mu           sync.RWMutex
	subPacks     []*Pack
	subPackIDs   map[string]bool
	interactions map[string]*Interaction
	order        []string // interaction ids in registration order
	events       map[string]*eventEntry
	eventOrder   []string
	inspectors   []*inspector.Inspector
	inspectorIDs map[string]bool
	usedLocales  []*locale.Store
	disposers    []Disposer
	destroyed    bool
}

type eventEntry struct {
	EventRegistration
	reg *emitter.Registration
}

// New creates an empty pack. The id must be non-empty and must not be the
// reserved root id.
func New(id string, opts ...Option) (*Pack, error) {
	if id == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "Pack", "New", "id validation")
	}
	if id == ReservedRootID {
		return nil, errors.WrapRegistration(errors.ErrReservedID, "Pack", "New", "id "+id)
	}
	return newPack(id, opts...), nil
}

// NewRoot creates the reserved root pack. Only the orchestrator calls this.
func NewRoot(opts ...Option) *Pack {
	return newPack(ReservedRootID, opts...)
}

func newPack(id string, opts ...Option) *Pack {
	p := &Pack{
		id:           id,
		logger:       slog.Default(),
		emitter:      emitter.New(),
		locales:      locale.NewStore(id),
		subPackIDs:   make(map[string]bool),
		interactions: make(map[string]*Interaction),
		events:       make(map[string]*eventEntry),
		inspectorIDs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the pack id.
func (p *Pack) ID() string { return p.id }

// Locales returns the pack's own locale store.
func (p *Pack) Locales() *locale.Store { return p.locales }

// LocaleStores returns the pack's own store followed by every store attached
// via Use, in attachment order.
func (p *Pack) LocaleStores() []*locale.Store {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*locale.Store, 0, 1+len(p.usedLocales))
	out = append(out, p.locales)
	out = append(out, p.usedLocales...)
	return out
}

// SubPacks returns the direct children in attachment order.
func (p *Pack) SubPacks() []*Pack {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Pack, len(p.subPacks))
	copy(out, p.subPacks)
	return out
}

// Interactions returns the registered interactions in registration order.
func (p *Pack) Interactions() []*Interaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*Interaction, 0, len(p.order))
	for _, id := range p.order {
		if it, ok := p.interactions[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Interaction returns one registered interaction by id, or nil.
func (p *Pack) Interaction(id string) *Interaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interactions[id]
}

// EventRegistrations returns the registered event listeners in registration
// order.
func (p *Pack) EventRegistrations() []EventRegistration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]EventRegistration, 0, len(p.eventOrder))
	for _, id := range p.eventOrder {
		if entry, ok := p.events[id]; ok {
			out = append(out, entry.EventRegistration)
		}
	}
	return out
}

// Inspectors returns the attached inspectors in attachment order.
func (p *Pack) Inspectors() []*inspector.Inspector {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*inspector.Inspector, len(p.inspectors))
	copy(out, p.inspectors)
	return out
}

// Use composes items into this pack: sub-packs, inspectors or locale stores.
// All items are validated before any is applied; the returned disposer
// reverses every one of them in one call, emitting the matching unloaded
// events.
func (p *Pack) Use(items ...any) (Disposer, error) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil, errors.WrapRegistration(errors.ErrDestroyed, "Pack", "Use", "pack "+p.id)
	}

	// Validate everything first so a failed Use leaves the pack untouched.
	for _, item := range items {
		switch v := item.(type) {
		case *Pack:
			if v == nil || v == p {
				p.mu.Unlock()
				return nil, errors.WrapRegistration(errors.ErrInvalidConfig, "Pack", "Use", "sub-pack validation")
			}
			if p.subPackIDs[v.id] {
				p.mu.Unlock()
				return nil, errors.WrapRegistration(errors.ErrDuplicateID, "Pack", "Use", "sub-pack "+v.id)
			}
		case *inspector.Inspector:
			if v == nil {
				p.mu.Unlock()
				return nil, errors.WrapRegistration(errors.ErrInvalidConfig, "Pack", "Use", "inspector validation")
			}
			if p.inspectorIDs[v.ID()] {
				p.mu.Unlock()
				return nil, errors.WrapRegistration(errors.ErrDuplicateID, "Pack", "Use", "inspector "+v.ID())
			}
		case *locale.Store:
			if v == nil {
				p.mu.Unlock()
				return nil, errors.WrapRegistration(errors.ErrInvalidConfig, "Pack", "Use", "locale store validation")
			}
		default:
			p.mu.Unlock()
			return nil, errors.WrapRegistration(
				fmt.Errorf("%w: unsupported item %T", errors.ErrInvalidConfig, item),
				"Pack", "Use", "item validation")
		}
	}

	type applied struct {
		item    any
		unloads string
		itemID  string
	}
	appliedItems := make([]applied, 0, len(items))

	for _, item := range items {
		switch v := item.(type) {
		case *Pack:
			p.subPacks = append(p.subPacks, v)
			p.subPackIDs[v.id] = true
			appliedItems = append(appliedItems, applied{item: v, unloads: types.EventPackUnloaded, itemID: v.id})
		case *inspector.Inspector:
			p.inspectors = append(p.inspectors, v)
			p.inspectorIDs[v.ID()] = true
			appliedItems = append(appliedItems, applied{item: v, unloads: types.EventInspectorUnregistered, itemID: v.ID()})
		case *locale.Store:
			p.usedLocales = append(p.usedLocales, v)
			appliedItems = append(appliedItems, applied{item: v, unloads: types.EventLocaleUnloaded, itemID: v.ID()})
		}
	}
	p.mu.Unlock()

	// Loaded events after the lock is released: listeners may touch the pack.
	for _, a := range appliedItems {
		p.EmitEvent(context.Background(), loadedEventFor(a.unloads), &types.LifecyclePayload{
			PackID: p.id,
			ItemID: a.itemID,
		})
	}

	var once sync.Once
	dispose := func() {
		once.Do(func() {
			p.mu.Lock()
			for i := len(appliedItems) - 1; i >= 0; i-- {
				switch v := appliedItems[i].item.(type) {
				case *Pack:
					p.subPacks = removePack(p.subPacks, v)
					delete(p.subPackIDs, v.id)
				case *inspector.Inspector:
					p.inspectors = removeInspector(p.inspectors, v)
					delete(p.inspectorIDs, v.ID())
				case *locale.Store:
					p.usedLocales = removeStore(p.usedLocales, v)
				}
			}
			p.mu.Unlock()

			for i := len(appliedItems) - 1; i >= 0; i-- {
				p.EmitEvent(context.Background(), appliedItems[i].unloads, &types.LifecyclePayload{
					PackID: p.id,
					ItemID: appliedItems[i].itemID,
				})
			}
		})
	}

	p.trackDisposer(dispose)
	return dispose, nil
}

// loadedEventFor maps an unloaded event name to its loaded counterpart.
func loadedEventFor(unloaded string) string {
	switch unloaded {
	case types.EventPackUnloaded:
		return types.EventPackLoaded
	case types.EventInspectorUnregistered:
		return types.EventInspectorRegistered
	case types.EventLocaleUnloaded:
		return types.EventLocaleLoaded
	default:
		return unloaded
	}
}

// Destroy runs every accumulated disposer in reverse order, clears all
// collections, emits the destroyed event through the subtree and finally
// detaches all listeners. Further registrations fail with ErrDestroyed.
func (p *Pack) Destroy() {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return
	}
	p.destroyed = true
	disposers := p.disposers
	p.disposers = nil
	p.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		disposers[i]()
	}

	p.mu.Lock()
	p.subPacks = nil
	p.subPackIDs = make(map[string]bool)
	p.interactions = make(map[string]*Interaction)
	p.order = nil
	p.events = make(map[string]*eventEntry)
	p.eventOrder = nil
	p.inspectors = nil
	p.inspectorIDs = make(map[string]bool)
	p.usedLocales = nil
	p.mu.Unlock()

	p.EmitEvent(context.Background(), types.EventPackDestroyed, &types.LifecyclePayload{
		PackID: p.id,
		ItemID: p.id,
	})
	p.emitter.Clear()
}

// trackDisposer records a disposer for Destroy.
func (p *Pack) trackDisposer(d Disposer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.disposers = append(p.disposers, d)
}

// syntheticEventID builds the unique id for one event registration.
func syntheticEventID(packID, event string) string {
	return packID + ":" + event + ":" + uuid.NewString()
}

func removePack(list []*Pack, item *Pack) []*Pack {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeInspector(list []*inspector.Inspector, item *inspector.Inspector) []*inspector.Inspector {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeStore(list []*locale.Store, item *locale.Store) []*locale.Store {
	for i, v := range list {
		if v == item {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
