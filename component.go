package tescord

import (
	"context"

	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/types"
)

// BuildComponent produces a platform-ready component descriptor for a
// registered component id. The positional data is codec-encoded into the
// custom identifier and travels back on submission; overrides adjust the
// registered appearance shallowly, nil fields keeping the registered value.
func (t *Tescord) BuildComponent(ctx context.Context, id string, data []any, overrides *types.ComponentOverrides) (types.Component, error) {
	t.mu.RLock()
	entry := t.componentIDs[id]
	t.mu.RUnlock()

	if entry == nil {
		return types.Component{}, errors.WrapDispatch(errors.ErrUnknownID, "Tescord", "BuildComponent", "component "+id)
	}

	customID, err := t.codec.Encode(ctx, id, data)
	if err != nil {
		return types.Component{}, errors.WrapDispatch(err, "Tescord", "BuildComponent", "encode component "+id)
	}

	component := entry.interaction.Component
	component.CustomID = customID
	// Slice fields are copied so callers cannot mutate the registered
	// descriptor through the returned value.
	if component.Options != nil {
		component.Options = append([]types.SelectOption(nil), component.Options...)
	}
	if component.Fields != nil {
		component.Fields = append([]types.TextInput(nil), component.Fields...)
	}

	if overrides != nil {
		if overrides.Label != nil {
			component.Label = *overrides.Label
		}
		if overrides.Style != nil {
			component.Style = *overrides.Style
		}
		if overrides.Disabled != nil {
			component.Disabled = *overrides.Disabled
		}
		if overrides.Placeholder != nil {
			component.Placeholder = *overrides.Placeholder
		}
		if overrides.MinValues != nil {
			component.MinValues = *overrides.MinValues
		}
		if overrides.MaxValues != nil {
			component.MaxValues = *overrides.MaxValues
		}
		if overrides.Options != nil {
			component.Options = append([]types.SelectOption(nil), overrides.Options...)
		}
	}
	return component, nil
}
