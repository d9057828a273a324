package types

// Interaction is the platform-native interaction payload. The core treats it
// opaquely except for the documented fields used to derive dispatch keys and
// locale context; the Raw field carries whatever else the platform delivered.
type Interaction struct {
	ID              string
	Kind            InteractionKind
	CommandName     string
	SubcommandGroup string
	Subcommand      string
	CustomID        string
	GuildID         string
	UserID          string
	GuildLocale     string
	UserLocale      string

	// Options holds slash-command option values keyed by option name.
	Options map[string]any
	// Values holds select-menu selections.
	Values []string
	// Fields holds modal text-input values keyed by field id.
	Fields map[string]string
	// Focused names the option an autocomplete request targets.
	Focused string

	// Raw is the untouched platform payload.
	Raw any
}

// CommandKey derives the space-joined lookup key for the slash-command family
// (command, subcommand group, subcommand).
func (i *Interaction) CommandKey() string {
	key := i.CommandName
	if i.SubcommandGroup != "" {
		key += " " + i.SubcommandGroup
	}
	if i.Subcommand != "" {
		key += " " + i.Subcommand
	}
	return key
}

// Choice is one autocomplete or select choice.
type Choice struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// MaxAutocompleteChoices is the platform cap on choices per autocomplete
// response.
const MaxAutocompleteChoices = 25
