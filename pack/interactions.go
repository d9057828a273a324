package pack

import (
	"context"

	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/pattern"
	"github.com/tescord/tescord/types"
)

// SlashCommandConfig registers one slash command. Pattern supports the
// `(a|b)` alternation and `(word)?` optional syntax and expands to at most
// three words per combination.
type SlashCommandConfig struct {
	ID          string
	Pattern     string
	Description string
	Options     []types.CommandOption
	// Autocomplete maps option names to their choice producers.
	Autocomplete map[string]AutocompleteFunc
	Handler      func(ctx *types.CommandContext) any
}

// ContextMenuConfig registers a user or message context-menu command.
type ContextMenuConfig struct {
	ID      string
	Name    string
	Handler func(ctx *types.CommandContext) any
}

// ButtonConfig registers a button.
type ButtonConfig struct {
	ID       string
	Label    string
	Style    types.ButtonStyle
	Emoji    string
	Disabled bool
	Handler  func(ctx *types.ComponentContext) any
}

// SelectMenuConfig registers a select menu of any select kind. Options is
// only meaningful for string selects.
type SelectMenuConfig struct {
	ID          string
	Placeholder string
	MinValues   int
	MaxValues   int
	Options     []types.SelectOption
	Handler     func(ctx *types.ComponentContext) any
}

// ModalConfig registers a modal.
type ModalConfig struct {
	ID      string
	Title   string
	Fields  []types.TextInput
	Handler func(ctx *types.ModalContext) any
}

// SlashCommand registers a slash command under the pack's single interaction
// id namespace. The pattern is expanded and validated at registration time.
func (p *Pack) SlashCommand(config SlashCommandConfig) (Disposer, error) {
	if config.Handler == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", "SlashCommand", "interaction "+config.ID)
	}
	pat := config.Pattern
	if pat == "" {
		pat = config.ID
	}
	combinations := pattern.Expand(pat)
	if len(combinations) == 0 {
		return nil, errors.WrapRegistration(errors.ErrNoCombinations, "Pack", "SlashCommand", "pattern "+pat)
	}
	if err := pattern.Validate(combinations); err != nil {
		return nil, errors.WrapRegistration(err, "Pack", "SlashCommand", "pattern "+pat)
	}

	handler := config.Handler
	return p.register(&Interaction{
		ID:           config.ID,
		Kind:         types.KindSlashCommand,
		Pattern:      pat,
		Combinations: combinations,
		Description:  config.Description,
		Options:      config.Options,
		Autocomplete: config.Autocomplete,
		Handler: func(ctx types.Context) any {
			if c, ok := ctx.(*types.CommandContext); ok {
				return handler(c)
			}
			return nil
		},
	}, "SlashCommand")
}

// UserContextMenu registers a user context-menu command.
func (p *Pack) UserContextMenu(config ContextMenuConfig) (Disposer, error) {
	return p.contextMenu(config, types.KindUserContextMenu, "UserContextMenu")
}

// MessageContextMenu registers a message context-menu command.
func (p *Pack) MessageContextMenu(config ContextMenuConfig) (Disposer, error) {
	return p.contextMenu(config, types.KindMessageContextMenu, "MessageContextMenu")
}

func (p *Pack) contextMenu(config ContextMenuConfig, kind types.InteractionKind, op string) (Disposer, error) {
	if config.Handler == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", op, "interaction "+config.ID)
	}
	name := config.Name
	if name == "" {
		name = config.ID
	}
	handler := config.Handler
	return p.register(&Interaction{
		ID:           config.ID,
		Kind:         kind,
		Pattern:      name,
		Combinations: []string{name},
		Handler: func(ctx types.Context) any {
			if c, ok := ctx.(*types.CommandContext); ok {
				return handler(c)
			}
			return nil
		},
	}, op)
}

// Button registers a button.
func (p *Pack) Button(config ButtonConfig) (Disposer, error) {
	if config.Handler == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", "Button", "interaction "+config.ID)
	}
	handler := config.Handler
	return p.register(&Interaction{
		ID:   config.ID,
		Kind: types.KindButton,
		Component: types.Component{
			Kind:     types.KindButton,
			Label:    config.Label,
			Style:    config.Style,
			Emoji:    config.Emoji,
			Disabled: config.Disabled,
		},
		Handler: componentHandler(handler),
	}, "Button")
}

// StringSelect registers a string select menu.
func (p *Pack) StringSelect(config SelectMenuConfig) (Disposer, error) {
	return p.selectMenu(config, types.KindStringSelect, "StringSelect")
}

// UserSelect registers a user select menu.
func (p *Pack) UserSelect(config SelectMenuConfig) (Disposer, error) {
	return p.selectMenu(config, types.KindUserSelect, "UserSelect")
}

// RoleSelect registers a role select menu.
func (p *Pack) RoleSelect(config SelectMenuConfig) (Disposer, error) {
	return p.selectMenu(config, types.KindRoleSelect, "RoleSelect")
}

// ChannelSelect registers a channel select menu.
func (p *Pack) ChannelSelect(config SelectMenuConfig) (Disposer, error) {
	return p.selectMenu(config, types.KindChannelSelect, "ChannelSelect")
}

// MentionableSelect registers a mentionable select menu.
func (p *Pack) MentionableSelect(config SelectMenuConfig) (Disposer, error) {
	return p.selectMenu(config, types.KindMentionableSelect, "MentionableSelect")
}

func (p *Pack) selectMenu(config SelectMenuConfig, kind types.InteractionKind, op string) (Disposer, error) {
	if config.Handler == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", op, "interaction "+config.ID)
	}
	handler := config.Handler
	return p.register(&Interaction{
		ID:   config.ID,
		Kind: kind,
		Component: types.Component{
			Kind:        kind,
			Placeholder: config.Placeholder,
			MinValues:   config.MinValues,
			MaxValues:   config.MaxValues,
			Options:     config.Options,
		},
		Handler: componentHandler(handler),
	}, op)
}

// Modal registers a modal.
func (p *Pack) Modal(config ModalConfig) (Disposer, error) {
	if config.Handler == nil {
		return nil, errors.WrapRegistration(errors.ErrNilHandler, "Pack", "Modal", "interaction "+config.ID)
	}
	handler := config.Handler
	return p.register(&Interaction{
		ID:   config.ID,
		Kind: types.KindModal,
		Component: types.Component{
			Kind:   types.KindModal,
			Title:  config.Title,
			Fields: config.Fields,
		},
		Handler: func(ctx types.Context) any {
			if c, ok := ctx.(*types.ModalContext); ok {
				return handler(c)
			}
			return nil
		},
	}, "Modal")
}

func componentHandler(h func(ctx *types.ComponentContext) any) Handler {
	return func(ctx types.Context) any {
		if c, ok := ctx.(*types.ComponentContext); ok {
			return h(c)
		}
		return nil
	}
}

// register stores one interaction under the shared namespace and emits the
// registered lifecycle event through the subtree.
func (p *Pack) register(it *Interaction, op string) (Disposer, error) {
	if it.ID == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "Pack", op, "id validation")
	}

	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil, errors.WrapRegistration(errors.ErrDestroyed, "Pack", op, "pack "+p.id)
	}
	if _, exists := p.interactions[it.ID]; exists {
		p.mu.Unlock()
		return nil, errors.WrapRegistration(errors.ErrDuplicateID, "Pack", op, "interaction "+it.ID)
	}
	p.interactions[it.ID] = it
	p.order = append(p.order, it.ID)
	p.mu.Unlock()

	p.EmitEvent(context.Background(), types.EventInteractionRegistered, &types.LifecyclePayload{
		PackID: p.id,
		ItemID: it.ID,
	})

	dispose := func() {
		p.mu.Lock()
		_, ok := p.interactions[it.ID]
		if ok {
			delete(p.interactions, it.ID)
			p.order = removeID(p.order, it.ID)
		}
		p.mu.Unlock()
		if ok {
			p.EmitEvent(context.Background(), types.EventInteractionUnregistered, &types.LifecyclePayload{
				PackID: p.id,
				ItemID: it.ID,
			})
		}
	}
	p.trackDisposer(dispose)
	return dispose, nil
}
