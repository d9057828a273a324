package types

import "github.com/tescord/tescord/locale"

// Context is the closed union of handler contexts. Each interaction kind gets
// exactly one variant carrying exactly the fields that kind guarantees.
type Context interface {
	// ContextKind returns the interaction kind this context was built for.
	ContextKind() InteractionKind
	// Common returns the fields shared by every variant.
	Common() *Base
}

// Base carries the fields present on every handler context.
type Base struct {
	// Interaction is the inbound platform payload.
	Interaction *Interaction
	// ClientID identifies the client handle the interaction arrived on.
	ClientID string
	// Language is the resolved language tag (guild locale, then user
	// locale, then the configured default).
	Language string
	// Locale is the merged content-locale tree for Language.
	Locale *locale.Tree
}

// Common implements Context.
func (b *Base) Common() *Base { return b }

// CommandContext is the handler context for the slash-command family and both
// context-menu kinds.
type CommandContext struct {
	Base
	Kind InteractionKind
	// Name is the resolved literal combination (space-joined).
	Name string
	// Pattern is the original registered pattern the literal routed back to.
	Pattern string
}

// ContextKind implements Context.
func (c *CommandContext) ContextKind() InteractionKind { return c.Kind }

// ComponentContext is the handler context for buttons and select menus.
type ComponentContext struct {
	Base
	Kind InteractionKind
	// ComponentID is the registered id decoded from the custom identifier.
	ComponentID string
	// Data is the decoded positional custom data.
	Data []any
	// Values holds the select-menu selections, empty for buttons.
	Values []string
}

// ContextKind implements Context.
func (c *ComponentContext) ContextKind() InteractionKind { return c.Kind }

// ModalContext is the handler context for modal submissions.
type ModalContext struct {
	Base
	// ComponentID is the registered id decoded from the custom identifier.
	ComponentID string
	// Data is the decoded positional custom data.
	Data []any
	// Fields holds the submitted text-input values keyed by field id.
	Fields map[string]string
}

// ContextKind implements Context.
func (c *ModalContext) ContextKind() InteractionKind { return KindModal }

// AutocompleteContext is the handler context for autocomplete requests.
type AutocompleteContext struct {
	Base
	// Command is the full command name the request targets.
	Command string
	// Focused is the name of the focused option.
	Focused string
	// Value is the partial value typed so far.
	Value string
}

// ContextKind implements Context.
func (c *AutocompleteContext) ContextKind() InteractionKind { return KindAutocomplete }
