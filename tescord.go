// Package tescord is the root orchestrator of the interaction-routing core.
// It owns the reserved root container, the registered platform clients, the
// flattened dispatch caches and the cross-store locale merge, and it drives
// the inbound event loop and the outbound command publish.
package tescord

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/tescord/tescord/client"
	"github.com/tescord/tescord/codec"
	"github.com/tescord/tescord/config"
	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/inspector"
	"github.com/tescord/tescord/locale"
	"github.com/tescord/tescord/metric"
	"github.com/tescord/tescord/pack"
	"github.com/tescord/tescord/types"
)

// Option configures the orchestrator.
type Option func(*Tescord)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tescord) { t.logger = logger }
}

// WithPublisher sets the command publisher used by Publish.
func WithPublisher(p client.Publisher) Option {
	return func(t *Tescord) { t.publisher = p }
}

// WithClients registers platform clients at construction time.
func WithClients(clients ...client.Client) Option {
	return func(t *Tescord) { t.pendingClients = clients }
}

// WithMetrics sets the metric registry. Defaults to a fresh registry.
func WithMetrics(m *metric.Registry) Option {
	return func(t *Tescord) { t.metrics = m }
}

// Tescord is the root orchestrator. It embeds the reserved root pack, so
// every pack registration method is available directly on it.
type Tescord struct {
	*pack.Pack

	cfg       config.Config
	logger    *slog.Logger
	codec     *codec.Registry
	metrics   *metric.Registry
	publisher client.Publisher

	mu             sync.RWMutex
	clients        map[string]client.Client
	clientOrder    []string
	pendingClients []client.Client
	started        bool
	cancel         context.CancelFunc
	wg             sync.WaitGroup

	// Flattened dispatch caches, rebuilt by Refresh.
	commands     map[commandKey]*cachedInteraction
	commandList  []*cachedInteraction
	components   map[componentKey]*cachedInteraction
	componentIDs map[string]*cachedInteraction
	events       []cachedEvent
	inspectors   []cachedInspector

	// Merged locale state, rebuilt by Refresh.
	trees        map[string]*locale.Tree
	interLocales map[string]map[string]locale.CommandLocale
	langTags     []language.Tag
	langNames    []string
	matcher      language.Matcher
}

// cachedInteraction is one flattened dispatch cache entry.
type cachedInteraction struct {
	owner       *pack.Pack
	interaction *pack.Interaction
	// path is the ancestor chain of pack ids, root first.
	path []string
	// combination is the literal this entry was cached under
	// (slash-command family only).
	combination string
}

// commandKey scopes a cached literal to its interaction kind: a slash
// command and a context-menu command may legally share a name.
type commandKey struct {
	kind types.InteractionKind
	name string
}

type componentKey struct {
	kind types.InteractionKind
	id   string
}

type cachedEvent struct {
	owner *pack.Pack
	reg   pack.EventRegistration
}

type cachedInspector struct {
	inspector *inspector.Inspector
	owner     *pack.Pack
	// rootAttached is true when the inspector sits on the root container
	// itself; current-pack scoped inspectors attached deeper never see
	// unmatched root traffic.
	rootAttached bool
}

// New creates an orchestrator from a validated configuration.
func New(cfg config.Config, opts ...Option) (*Tescord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Tescord{
		cfg:     cfg,
		logger:  slog.Default(),
		codec:   codec.NewRegistry(),
		clients: make(map[string]client.Client),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.metrics == nil {
		t.metrics = metric.NewRegistry()
	}
	t.Pack = pack.NewRoot(pack.WithLogger(t.logger))
	t.resetCaches()

	for _, c := range t.pendingClients {
		if err := t.RegisterClient(c); err != nil {
			return nil, err
		}
	}
	t.pendingClients = nil
	return t, nil
}

// Config returns the configuration the orchestrator was built with.
func (t *Tescord) Config() config.Config { return t.cfg }

// Codec returns the custom-data codec registry, for registering additional
// value types or encode/decode hooks.
func (t *Tescord) Codec() *codec.Registry { return t.codec }

// Metrics returns the metric registry.
func (t *Tescord) Metrics() *metric.Registry { return t.metrics }

// Brand returns the configured event-name prefix.
func (t *Tescord) Brand() string { return t.cfg.Brand }

// RegisterClient attaches a platform client. Client ids are unique.
func (t *Tescord) RegisterClient(c client.Client) error {
	if c == nil {
		return errors.WrapRegistration(errors.ErrNilHandler, "Tescord", "RegisterClient", "client validation")
	}
	if c.ID() == "" {
		return errors.WrapRegistration(errors.ErrEmptyID, "Tescord", "RegisterClient", "client id validation")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return errors.WrapRegistration(errors.ErrAlreadyStarted, "Tescord", "RegisterClient", "client "+c.ID())
	}
	if _, exists := t.clients[c.ID()]; exists {
		return errors.WrapRegistration(errors.ErrDuplicateID, "Tescord", "RegisterClient", "client "+c.ID())
	}
	t.clients[c.ID()] = c
	t.clientOrder = append(t.clientOrder, c.ID())
	return nil
}

// Clients returns the registered clients in registration order.
func (t *Tescord) Clients() []client.Client {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]client.Client, 0, len(t.clientOrder))
	for _, id := range t.clientOrder {
		out = append(out, t.clients[id])
	}
	return out
}

// Start refreshes the caches, logs every client in and consumes its event
// stream until Stop or context cancellation.
func (t *Tescord) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return errors.WrapDispatch(errors.ErrAlreadyStarted, "Tescord", "Start", "lifecycle")
	}
	t.started = true
	t.mu.Unlock()

	t.Refresh()

	runCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	for _, c := range t.Clients() {
		if err := c.Login(runCtx); err != nil {
			cancel()
			t.mu.Lock()
			t.started = false
			t.mu.Unlock()
			return errors.WrapDispatch(err, "Tescord", "Start", "login client "+c.ID())
		}
		t.logger.Info("client logged in", "client", c.ID())

		t.wg.Add(1)
		go t.consume(runCtx, c)
	}

	t.EmitEvent(runCtx, types.BrandEvent(t.cfg.Brand, types.EventReady), nil)
	return nil
}

// Stop cancels the event loops, closes every client and waits for the
// consumers to drain.
func (t *Tescord) Stop() error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return errors.WrapDispatch(errors.ErrNotStarted, "Tescord", "Stop", "lifecycle")
	}
	t.started = false
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var errs []error
	for _, c := range t.Clients() {
		if err := c.Close(); err != nil {
			errs = append(errs, errors.WrapDispatch(err, "Tescord", "Stop", "close client "+c.ID()))
		}
	}
	t.wg.Wait()
	return errors.Join(errs...)
}

// consume drains one client's event stream.
func (t *Tescord) consume(ctx context.Context, c client.Client) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.Events():
			if !ok {
				return
			}
			t.handleEvent(ctx, c, ev)
		}
	}
}

func (t *Tescord) resetCaches() {
	t.commands = make(map[commandKey]*cachedInteraction)
	t.commandList = nil
	t.components = make(map[componentKey]*cachedInteraction)
	t.componentIDs = make(map[string]*cachedInteraction)
	t.events = nil
	t.inspectors = nil
	t.trees = make(map[string]*locale.Tree)
	t.interLocales = make(map[string]map[string]locale.CommandLocale)
	t.langTags = nil
	t.langNames = nil
	t.matcher = nil
}
