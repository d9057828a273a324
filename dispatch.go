package tescord

import (
	"context"
	"fmt"
	"time"

	"github.com/tescord/tescord/client"
	"github.com/tescord/tescord/metric"
	"github.com/tescord/tescord/types"
)

// handleEvent routes one inbound platform event: interaction payloads go to
// interaction dispatch, everything else fans out to the cached registered
// event listeners whose event name matches.
func (t *Tescord) handleEvent(ctx context.Context, c client.Client, ev client.Event) {
	t.metrics.IncEvent(c.ID())

	if ev.Name == types.EventInteractionCreate && ev.Interaction != nil {
		t.dispatchInteraction(ctx, c, ev.Interaction)
		return
	}

	t.mu.RLock()
	cached := make([]cachedEvent, 0, len(t.events))
	for _, ce := range t.events {
		if ce.reg.Event == ev.Name {
			cached = append(cached, ce)
		}
	}
	t.mu.RUnlock()

	for _, ce := range cached {
		// Claim keeps once listeners to a single firing even though the
		// cache invokes them outside the pack emitter.
		if !ce.reg.Handle.Claim() {
			continue
		}
		t.invokeEventListener(ctx, c.ID(), ev, ce)
	}
}

func (t *Tescord) invokeEventListener(ctx context.Context, clientID string, ev client.Event, ce cachedEvent) {
	defer func() {
		if r := recover(); r != nil {
			t.reportEventError(ctx, clientID, ev.Name, fmt.Errorf("listener panicked: %v", r))
		}
	}()
	if _, err := ce.reg.Listener(ctx, ev.Payload); err != nil {
		t.reportEventError(ctx, clientID, ev.Name, err)
	}
}

func (t *Tescord) reportEventError(ctx context.Context, clientID, event string, err error) {
	t.metrics.IncHandlerError("event")
	t.logger.Error("event handler failed", "client", clientID, "event", event, "error", err)
	t.EmitEvent(ctx, types.BrandEvent(t.cfg.Brand, types.EventEventHandlerError), &types.HandlerErrorPayload{
		ClientID: clientID,
		Event:    event,
		Err:      err,
	})
}

// dispatchInteraction resolves one inbound interaction against the flattened
// caches and invokes exactly one handler. An unmatched interaction falls
// through to the inspectors; if none claims it, the interaction is dropped
// silently.
func (t *Tescord) dispatchInteraction(ctx context.Context, c client.Client, i *types.Interaction) {
	started := time.Now()
	lang := t.resolveLanguage(i)
	base := types.Base{
		Interaction: i,
		ClientID:    c.ID(),
		Language:    lang,
		Locale:      t.Tree(lang),
	}

	if i.Kind == types.KindAutocomplete {
		t.dispatchAutocomplete(ctx, c, i, base)
		return
	}

	key, tctx := t.resolve(ctx, i, base)
	outcome := metric.OutcomeUnmatched

	defer func() {
		if r := recover(); r != nil {
			outcome = metric.OutcomeError
			err := fmt.Errorf("handler panicked: %v", r)
			t.metrics.IncHandlerError("interaction")
			t.logger.Error("interaction handler failed",
				"client", c.ID(), "kind", i.Kind.String(), "key", key, "error", err)
			t.EmitEvent(ctx, types.BrandEvent(t.cfg.Brand, types.EventInteractionHandlerError), &types.HandlerErrorPayload{
				ClientID: c.ID(),
				Kind:     i.Kind,
				Key:      key,
				Err:      err,
			})
		}
		t.metrics.ObserveInteraction(i.Kind.String(), outcome, time.Since(started).Seconds())
	}()

	if tctx != nil {
		t.mu.RLock()
		var entry *cachedInteraction
		if i.Kind.IsCommand() {
			entry = t.commands[commandKey{kind: i.Kind, name: key}]
		} else {
			entry = t.components[componentKey{kind: i.Kind, id: key}]
		}
		t.mu.RUnlock()

		if entry != nil {
			outcome = metric.OutcomeHandled
			entry.interaction.Handler(tctx)
			return
		}
	}

	if tctx == nil {
		// No resolvable key at all; build a minimal context so
		// inspectors can still observe the traffic.
		tctx = &types.CommandContext{Base: base, Kind: i.Kind, Name: key}
	}
	for _, ci := range t.inspectorsForUnmatched() {
		if _, handled := ci.inspector.Emit(i.Kind, key, tctx); handled {
			outcome = metric.OutcomeInspected
			return
		}
	}

	t.logger.Debug("interaction unmatched",
		"client", c.ID(), "kind", i.Kind.String(), "key", key)
}

// resolve derives the dispatch key and the typed handler context for one
// interaction. Component and modal custom identifiers pass through the codec
// first.
func (t *Tescord) resolve(ctx context.Context, i *types.Interaction, base types.Base) (string, types.Context) {
	switch {
	case i.Kind.IsCommand():
		key := i.CommandKey()
		t.mu.RLock()
		entry := t.commands[commandKey{kind: i.Kind, name: key}]
		t.mu.RUnlock()

		cctx := &types.CommandContext{Base: base, Kind: i.Kind, Name: key}
		if entry != nil {
			cctx.Pattern = entry.interaction.Pattern
		}
		return key, cctx

	case i.Kind == types.KindModal:
		id, data := t.codec.Decode(ctx, i.CustomID)
		return id, &types.ModalContext{
			Base:        base,
			ComponentID: id,
			Data:        data,
			Fields:      i.Fields,
		}

	case i.Kind.IsComponent():
		id, data := t.codec.Decode(ctx, i.CustomID)
		return id, &types.ComponentContext{
			Base:        base,
			Kind:        i.Kind,
			ComponentID: id,
			Data:        data,
			Values:      i.Values,
		}
	}
	return "", nil
}

// dispatchAutocomplete answers one autocomplete request. Failures respond
// with an empty choice list and emit the autocomplete error event.
func (t *Tescord) dispatchAutocomplete(ctx context.Context, c client.Client, i *types.Interaction, base types.Base) {
	key := i.CommandKey()

	// Autocomplete always targets a slash command.
	t.mu.RLock()
	entry := t.commands[commandKey{kind: types.KindSlashCommand, name: key}]
	t.mu.RUnlock()

	var fn func(*types.AutocompleteContext) ([]types.Choice, error)
	if entry != nil && entry.interaction.Autocomplete != nil {
		fn = entry.interaction.Autocomplete[i.Focused]
	}
	if fn == nil {
		t.metrics.IncAutocomplete(metric.OutcomeUnmatched)
		t.logger.Debug("autocomplete unmatched", "client", c.ID(), "key", key, "option", i.Focused)
		return
	}

	value := ""
	if raw, ok := i.Options[i.Focused]; ok {
		value = fmt.Sprint(raw)
	}
	actx := &types.AutocompleteContext{
		Base:    base,
		Command: key,
		Focused: i.Focused,
		Value:   value,
	}

	choices, err := func() (out []types.Choice, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("autocomplete panicked: %v", r)
			}
		}()
		return fn(actx)
	}()

	if err != nil {
		t.metrics.IncAutocomplete(metric.OutcomeError)
		t.metrics.IncHandlerError("autocomplete")
		t.logger.Error("autocomplete failed", "client", c.ID(), "key", key, "option", i.Focused, "error", err)
		t.EmitEvent(ctx, types.BrandEvent(t.cfg.Brand, types.EventAutocompleteError), &types.HandlerErrorPayload{
			ClientID: c.ID(),
			Kind:     types.KindAutocomplete,
			Key:      key,
			Err:      err,
		})
		choices = nil
	} else {
		t.metrics.IncAutocomplete(metric.OutcomeHandled)
	}

	if len(choices) > types.MaxAutocompleteChoices {
		choices = choices[:types.MaxAutocompleteChoices]
	}
	if respondErr := c.RespondAutocomplete(ctx, i.ID, choices); respondErr != nil {
		t.logger.Error("autocomplete response failed", "client", c.ID(), "key", key, "error", respondErr)
	}
}
