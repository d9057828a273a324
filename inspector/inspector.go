// Package inspector provides the secondary, pattern/id-keyed handler registry
// consulted by the dispatcher when no direct registration matches an inbound
// interaction. An inspector is scoped declaratively to the container it is
// attached to or to that container's whole subtree; the scope is metadata the
// root dispatcher enforces, never the inspector itself.
package inspector

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/pattern"
	"github.com/tescord/tescord/types"
)

// Domain declares which part of the container tree an inspector applies to.
type Domain int

const (
	// DomainCurrentPack scopes the inspector to the container it is
	// attached to.
	DomainCurrentPack Domain = iota
	// DomainAllSubPacks scopes the inspector to the container and every
	// descendant.
	DomainAllSubPacks
)

// String returns the string representation of the domain
func (d Domain) String() string {
	switch d {
	case DomainCurrentPack:
		return "currentPack"
	case DomainAllSubPacks:
		return "allSubPacks"
	default:
		return "unknown"
	}
}

// Handler handles one inspected interaction. A nil return means "no result";
// the dispatcher keeps scanning.
type Handler func(ctx types.Context) any

// Disposer removes exactly the registration that produced it.
type Disposer func()

// Config configures an inspector.
type Config struct {
	// ID identifies the inspector within its container.
	ID string
	// Domain declares the subtree scope (metadata for the dispatcher).
	Domain Domain
	// Logger receives swallowed handler panics. Nil means slog.Default().
	Logger *slog.Logger
}

type key struct {
	kind types.InteractionKind
	id   string
}

// Inspector is a per-category handler registry with pattern expansion for the
// slash-command category.
type Inspector struct {
	id     string
	domain Domain
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[key]Handler
	// literals maps every expanded combination back to its original
	// pattern so inbound literals route to the one registered handler.
	literals map[string]string
}

// New creates an inspector.
func New(cfg Config) (*Inspector, error) {
	if cfg.ID == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "Inspector", "New", "id validation")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Inspector{
		id:       cfg.ID,
		domain:   cfg.Domain,
		logger:   logger,
		handlers: make(map[key]Handler),
		literals: make(map[string]string),
	}, nil
}

// ID returns the inspector id.
func (in *Inspector) ID() string { return in.id }

// Domain returns the declared subtree scope.
func (in *Inspector) Domain() Domain { return in.domain }

// SlashCommand registers a handler for a command-name pattern. The pattern is
// expanded and every literal combination routes back to this handler.
func (in *Inspector) SlashCommand(p string, h Handler) (Disposer, error) {
	if h == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Inspector", "SlashCommand", "handler validation")
	}

	combinations := pattern.Expand(p)
	if err := pattern.Validate(combinations); err != nil {
		return nil, errors.WrapRegistration(err, "Inspector", "SlashCommand", "pattern "+p)
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	k := key{kind: types.KindSlashCommand, id: p}
	if _, exists := in.handlers[k]; exists {
		return nil, errors.WrapRegistration(errors.ErrDuplicateID, "Inspector", "SlashCommand", "pattern "+p)
	}

	in.handlers[k] = h
	for _, combo := range combinations {
		in.literals[combo] = p
	}

	return func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		delete(in.handlers, k)
		for _, combo := range combinations {
			if in.literals[combo] == p {
				delete(in.literals, combo)
			}
		}
	}, nil
}

// Button registers a handler for a button id.
func (in *Inspector) Button(id string, h Handler) (Disposer, error) {
	return in.register(types.KindButton, id, h)
}

// StringSelect registers a handler for a string select-menu id.
func (in *Inspector) StringSelect(id string, h Handler) (Disposer, error) {
	return in.register(types.KindStringSelect, id, h)
}

// UserSelect registers a handler for a user select-menu id.
func (in *Inspector) UserSelect(id string, h Handler) (Disposer, error) {
	return in.register(types.KindUserSelect, id, h)
}

// RoleSelect registers a handler for a role select-menu id.
func (in *Inspector) RoleSelect(id string, h Handler) (Disposer, error) {
	return in.register(types.KindRoleSelect, id, h)
}

// ChannelSelect registers a handler for a channel select-menu id.
func (in *Inspector) ChannelSelect(id string, h Handler) (Disposer, error) {
	return in.register(types.KindChannelSelect, id, h)
}

// MentionableSelect registers a handler for a mentionable select-menu id.
func (in *Inspector) MentionableSelect(id string, h Handler) (Disposer, error) {
	return in.register(types.KindMentionableSelect, id, h)
}

// Modal registers a handler for a modal id.
func (in *Inspector) Modal(id string, h Handler) (Disposer, error) {
	return in.register(types.KindModal, id, h)
}

// UserContextMenu registers a handler for a user context-menu command name.
func (in *Inspector) UserContextMenu(name string, h Handler) (Disposer, error) {
	return in.register(types.KindUserContextMenu, name, h)
}

// MessageContextMenu registers a handler for a message context-menu command
// name.
func (in *Inspector) MessageContextMenu(name string, h Handler) (Disposer, error) {
	return in.register(types.KindMessageContextMenu, name, h)
}

func (in *Inspector) register(kind types.InteractionKind, id string, h Handler) (Disposer, error) {
	if id == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "Inspector", kind.String(), "id validation")
	}
	if h == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Inspector", kind.String(), "handler validation")
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	k := key{kind: kind, id: id}
	if _, exists := in.handlers[k]; exists {
		return nil, errors.WrapRegistration(errors.ErrDuplicateID, "Inspector", kind.String(), "id "+id)
	}
	in.handlers[k] = h

	return func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		delete(in.handlers, k)
	}, nil
}

// Emit resolves a handler for (kind, id) and invokes it with the supplied
// context. For the slash-command kind the id is a literal combination and
// resolves through the reverse map to the registered pattern. The boolean
// reports whether a handler ran. Handler panics are swallowed here so
// scanning multiple inspectors stays safe; they are logged for debuggability.
func (in *Inspector) Emit(kind types.InteractionKind, id string, tctx types.Context) (result any, handled bool) {
	in.mu.RLock()
	lookupID := id
	if kind == types.KindSlashCommand {
		if p, ok := in.literals[id]; ok {
			lookupID = p
		}
	}
	h := in.handlers[key{kind: kind, id: lookupID}]
	in.mu.RUnlock()

	if h == nil {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			in.logger.Error("inspector handler panic",
				"component", "Inspector",
				"inspector", in.id,
				"kind", kind.String(),
				"id", id,
				"panic", fmt.Sprint(r))
			result = nil
			handled = false
		}
	}()

	return h(tctx), true
}

// Count returns the number of registered handlers.
func (in *Inspector) Count() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.handlers)
}
