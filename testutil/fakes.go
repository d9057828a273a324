// Package testutil provides channel-backed in-memory fakes for the external
// platform collaborators, used by the orchestrator tests and available to
// embedders for their own.
package testutil

import (
	"context"
	"sync"

	"github.com/tescord/tescord/client"
	"github.com/tescord/tescord/types"
)

// FakeClient is an in-memory client.Client. Tests push events with Send and
// inspect recorded autocomplete responses.
type FakeClient struct {
	id     string
	events chan client.Event

	mu        sync.Mutex
	loggedIn  bool
	closed    bool
	LoginErr  error
	responses []AutocompleteResponse
}

// AutocompleteResponse is one recorded RespondAutocomplete call.
type AutocompleteResponse struct {
	InteractionID string
	Choices       []types.Choice
}

// NewFakeClient creates a fake client with a buffered event channel.
func NewFakeClient(id string) *FakeClient {
	return &FakeClient{
		id:     id,
		events: make(chan client.Event, 64),
	}
}

// ID implements client.Client.
func (f *FakeClient) ID() string { return f.id }

// Login implements client.Client.
func (f *FakeClient) Login(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.loggedIn = true
	return nil
}

// LoggedIn reports whether Login succeeded.
func (f *FakeClient) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

// Events implements client.Client.
func (f *FakeClient) Events() <-chan client.Event { return f.events }

// Send pushes one event into the stream.
func (f *FakeClient) Send(ev client.Event) { f.events <- ev }

// SendInteraction pushes one interaction event into the stream.
func (f *FakeClient) SendInteraction(i *types.Interaction) {
	f.Send(client.Event{Name: types.EventInteractionCreate, Interaction: i})
}

// RespondAutocomplete implements client.Client, recording the call.
func (f *FakeClient) RespondAutocomplete(ctx context.Context, interactionID string, choices []types.Choice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, AutocompleteResponse{
		InteractionID: interactionID,
		Choices:       append([]types.Choice(nil), choices...),
	})
	return nil
}

// AutocompleteResponses returns the recorded responses.
func (f *FakeClient) AutocompleteResponses() []AutocompleteResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AutocompleteResponse(nil), f.responses...)
}

// Close implements client.Client and closes the event stream once.
func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// PublishCall is one recorded Publish invocation.
type PublishCall struct {
	ClientID string
	GuildID  string
	Commands []client.CommandDefinition
}

// FakePublisher is an in-memory client.Publisher recording every upsert.
type FakePublisher struct {
	mu    sync.Mutex
	calls []PublishCall
	// Err, when set, is returned by every Publish call.
	Err error
}

// Publish implements client.Publisher.
func (f *FakePublisher) Publish(ctx context.Context, clientID string, commands []client.CommandDefinition, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.calls = append(f.calls, PublishCall{
		ClientID: clientID,
		GuildID:  guildID,
		Commands: append([]client.CommandDefinition(nil), commands...),
	})
	return nil
}

// Calls returns the recorded publish calls.
func (f *FakePublisher) Calls() []PublishCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PublishCall(nil), f.calls...)
}
