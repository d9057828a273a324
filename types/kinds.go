// Package types holds the shared vocabulary of the framework: interaction
// kinds, the per-kind handler contexts, lifecycle event names and the
// declarative command/component schema used for registration and publishing.
package types

// InteractionKind identifies the category of an inbound interaction. The set
// is closed; dispatch resolution is uniform across every kind.
type InteractionKind int

const (
	// KindSlashCommand is a chat-input command invocation.
	KindSlashCommand InteractionKind = iota
	// KindUserContextMenu is a context-menu command on a user.
	KindUserContextMenu
	// KindMessageContextMenu is a context-menu command on a message.
	KindMessageContextMenu
	// KindButton is a button press.
	KindButton
	// KindStringSelect is a string select-menu submission.
	KindStringSelect
	// KindUserSelect is a user select-menu submission.
	KindUserSelect
	// KindRoleSelect is a role select-menu submission.
	KindRoleSelect
	// KindChannelSelect is a channel select-menu submission.
	KindChannelSelect
	// KindMentionableSelect is a mentionable select-menu submission.
	KindMentionableSelect
	// KindModal is a modal submission.
	KindModal
	// KindAutocomplete is an autocomplete request for a command option.
	KindAutocomplete
)

// String returns the string representation of the interaction kind
func (k InteractionKind) String() string {
	switch k {
	case KindSlashCommand:
		return "slashCommand"
	case KindUserContextMenu:
		return "userContextMenu"
	case KindMessageContextMenu:
		return "messageContextMenu"
	case KindButton:
		return "button"
	case KindStringSelect:
		return "stringSelect"
	case KindUserSelect:
		return "userSelect"
	case KindRoleSelect:
		return "roleSelect"
	case KindChannelSelect:
		return "channelSelect"
	case KindMentionableSelect:
		return "mentionableSelect"
	case KindModal:
		return "modal"
	case KindAutocomplete:
		return "autocomplete"
	default:
		return "unknown"
	}
}

// IsComponent reports whether the kind carries a custom id with encoded data.
func (k InteractionKind) IsComponent() bool {
	switch k {
	case KindButton, KindStringSelect, KindUserSelect, KindRoleSelect,
		KindChannelSelect, KindMentionableSelect, KindModal:
		return true
	default:
		return false
	}
}

// IsCommand reports whether the kind is resolved by command name.
func (k InteractionKind) IsCommand() bool {
	switch k {
	case KindSlashCommand, KindUserContextMenu, KindMessageContextMenu:
		return true
	default:
		return false
	}
}
