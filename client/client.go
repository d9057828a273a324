// Package client defines the external platform collaborators the core
// consumes: the gateway client delivering inbound events and the command
// publisher performing the authoritative upsert of command definitions.
// Implementations live outside this module; testutil ships in-memory fakes.
package client

import (
	"context"

	"github.com/tescord/tescord/types"
)

// Event is one inbound low-level platform event. Interaction is set when the
// event carries an interaction payload; everything else rides in Payload
// opaquely.
type Event struct {
	Name        string
	Interaction *types.Interaction
	Payload     any
}

// Client is a platform gateway handle. The core wraps its event emission
// point; reconnect and heartbeat logic belong to the implementation.
type Client interface {
	// ID returns the configured client id.
	ID() string
	// Login establishes the platform connection.
	Login(ctx context.Context) error
	// Events returns the inbound event stream. The channel closes when the
	// client shuts down.
	Events() <-chan Event
	// RespondAutocomplete answers an autocomplete interaction with up to
	// types.MaxAutocompleteChoices choices.
	RespondAutocomplete(ctx context.Context, interactionID string, choices []types.Choice) error
	// Close tears the connection down.
	Close() error
}

// CommandDefinition is one publishable command. Combinations of up to three
// words fold into Name -> subcommand group -> subcommand via Children.
type CommandDefinition struct {
	Name                     string                `json:"name"`
	Description              string                `json:"description"`
	NameLocalizations        map[string]string     `json:"name_localizations,omitempty"`
	DescriptionLocalizations map[string]string     `json:"description_localizations,omitempty"`
	Options                  []types.CommandOption `json:"options,omitempty"`
	Children                 []CommandDefinition   `json:"children,omitempty"`
	Kind                     types.InteractionKind `json:"kind"`
}

// Publisher performs the authoritative command upsert against the platform.
// A non-empty guildID scopes the upsert to one guild.
type Publisher interface {
	Publish(ctx context.Context, clientID string, commands []CommandDefinition, guildID string) error
}
