package types

// OptionType identifies a slash-command option's value type.
type OptionType int

const (
	// OptionString is a free-form string option.
	OptionString OptionType = iota
	// OptionInteger is an integer option.
	OptionInteger
	// OptionNumber is a floating-point option.
	OptionNumber
	// OptionBoolean is a boolean option.
	OptionBoolean
	// OptionUser is a user reference option.
	OptionUser
	// OptionChannel is a channel reference option.
	OptionChannel
	// OptionRole is a role reference option.
	OptionRole
	// OptionMentionable is a user-or-role reference option.
	OptionMentionable
	// OptionAttachment is a file attachment option.
	OptionAttachment
)

// CommandOption declares one slash-command option.
type CommandOption struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Type         OptionType `json:"type"`
	Required     bool       `json:"required,omitempty"`
	Choices      []Choice   `json:"choices,omitempty"`
	Autocomplete bool       `json:"autocomplete,omitempty"`
}

// ButtonStyle is the platform visual style of a button.
type ButtonStyle int

const (
	// ButtonPrimary is the platform's primary (accented) style.
	ButtonPrimary ButtonStyle = iota + 1
	// ButtonSecondary is the neutral style.
	ButtonSecondary
	// ButtonSuccess is the confirm style.
	ButtonSuccess
	// ButtonDanger is the destructive style.
	ButtonDanger
	// ButtonLink is a URL button; link buttons carry no custom id.
	ButtonLink
)

// SelectOption declares one choice of a string select menu.
type SelectOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// TextInputStyle is the layout of a modal text input.
type TextInputStyle int

const (
	// TextInputShort is a single-line input.
	TextInputShort TextInputStyle = iota + 1
	// TextInputParagraph is a multi-line input.
	TextInputParagraph
)

// TextInput declares one text field of a modal.
type TextInput struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Style       TextInputStyle `json:"style"`
	Placeholder string         `json:"placeholder,omitempty"`
	Required    bool           `json:"required,omitempty"`
	MinLength   int            `json:"min_length,omitempty"`
	MaxLength   int            `json:"max_length,omitempty"`
}

// Component is a platform-ready UI component descriptor produced by
// BuildComponent from a registered component id plus positional data. Fields
// not applicable to the component's kind are zero.
type Component struct {
	Kind        InteractionKind `json:"kind"`
	CustomID    string          `json:"custom_id,omitempty"`
	Label       string          `json:"label,omitempty"`
	Style       ButtonStyle     `json:"style,omitempty"`
	URL         string          `json:"url,omitempty"`
	Emoji       string          `json:"emoji,omitempty"`
	Disabled    bool            `json:"disabled,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	MinValues   int             `json:"min_values,omitempty"`
	MaxValues   int             `json:"max_values,omitempty"`
	Options     []SelectOption  `json:"options,omitempty"`
	Title       string          `json:"title,omitempty"`
	Fields      []TextInput     `json:"fields,omitempty"`
}

// ComponentOverrides are the shallow option overrides accepted by
// BuildComponent. Nil pointer fields leave the registered value untouched.
type ComponentOverrides struct {
	Label       *string
	Style       *ButtonStyle
	Disabled    *bool
	Placeholder *string
	MinValues   *int
	MaxValues   *int
	Options     []SelectOption
}
