package locale

// Fragment is one registered unit of translated content for one language.
type Fragment struct {
	// ID identifies the fragment for removal and diagnostics.
	ID string
	// Language is the language tag the fragment translates to.
	Language string
	// Data is a nested plain string tree.
	Data map[string]any
}

// OptionLocale localizes one command option.
type OptionLocale struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Choices     map[string]string `json:"choices,omitempty"`
}

// CommandLocale localizes one registered command.
type CommandLocale struct {
	// Names maps each English command word to its localized word.
	Names map[string]string `json:"names,omitempty"`
	// Description is the localized command description.
	Description string `json:"description,omitempty"`
	// Options localizes the command's options by option name.
	Options map[string]OptionLocale `json:"options,omitempty"`
}

// InteractionFragment is one registered unit of interaction metadata
// (command names, descriptions, option localization) for one language.
type InteractionFragment struct {
	ID       string
	Language string
	// Commands maps registered command ids to their localization.
	Commands map[string]CommandLocale
}

// Disposer removes exactly the registration that produced it. Calling a
// disposer twice is safe only if the same key was not re-registered in
// between.
type Disposer func()
