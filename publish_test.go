package tescord

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tescord/tescord/config"
	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/locale"
	"github.com/tescord/tescord/pack"
	"github.com/tescord/tescord/testutil"
	"github.com/tescord/tescord/types"
)

func TestPublish_FoldsCombinations(t *testing.T) {
	publisher := &testutil.FakePublisher{}
	app, err := New(config.Default(), WithPublisher(publisher))
	require.NoError(t, err)

	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:          "ping",
		Pattern:     "ping",
		Description: "Measure latency",
		Handler:     func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)
	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:          "music",
		Pattern:     "music (play|stop)",
		Description: "Control playback",
		Handler:     func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)
	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:          "playlist",
		Pattern:     "music playlist (add|remove)",
		Description: "Manage playlists",
		Handler:     func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)
	_, err = app.UserContextMenu(pack.ContextMenuConfig{
		ID:      "profile",
		Name:    "Show Profile",
		Handler: func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)

	require.NoError(t, app.RegisterClient(testutil.NewFakeClient("main")))
	require.NoError(t, app.Publish(context.Background(), ""))

	calls := publisher.Calls()
	require.Len(t, calls, 1)
	defs := calls[0].Commands
	require.Len(t, defs, 3)

	assert.Equal(t, "ping", defs[0].Name)
	assert.Equal(t, "Measure latency", defs[0].Description)
	assert.Empty(t, defs[0].Children)

	music := defs[1]
	assert.Equal(t, "music", music.Name)
	require.Len(t, music.Children, 3)
	assert.Equal(t, "play", music.Children[0].Name)
	assert.Equal(t, "stop", music.Children[1].Name)
	playlist := music.Children[2]
	assert.Equal(t, "playlist", playlist.Name)
	require.Len(t, playlist.Children, 2)
	assert.Equal(t, "add", playlist.Children[0].Name)
	assert.Equal(t, "Manage playlists", playlist.Children[0].Description)

	menu := defs[2]
	assert.Equal(t, "Show Profile", menu.Name)
	assert.Equal(t, types.KindUserContextMenu, menu.Kind)
}

func TestPublish_AppliesInteractionLocalizations(t *testing.T) {
	publisher := &testutil.FakePublisher{}
	app, err := New(config.Default(), WithPublisher(publisher))
	require.NoError(t, err)

	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:          "play",
		Pattern:     "music play",
		Description: "Play a song",
		Handler:     func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)

	_, err = app.Locales().LoadInteraction(locale.InteractionFragment{
		ID:       "tr",
		Language: "tr",
		Commands: map[string]locale.CommandLocale{
			"play": {
				Names:       map[string]string{"music": "müzik", "play": "çal"},
				Description: "Bir şarkı çal",
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, app.RegisterClient(testutil.NewFakeClient("main")))
	require.NoError(t, app.Publish(context.Background(), "guild-1"))

	calls := publisher.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "guild-1", calls[0].GuildID)
	defs := calls[0].Commands
	require.Len(t, defs, 1)

	assert.Equal(t, "müzik", defs[0].NameLocalizations["tr"])
	require.Len(t, defs[0].Children, 1)
	child := defs[0].Children[0]
	assert.Equal(t, "çal", child.NameLocalizations["tr"])
	assert.Equal(t, "Bir şarkı çal", child.DescriptionLocalizations["tr"])
}

func TestPublish_RequiresPublisher(t *testing.T) {
	app, err := New(config.Default())
	require.NoError(t, err)

	err = app.Publish(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrMissingConfig)
	assert.True(t, errors.IsPublish(err))
}

func TestPublish_EmitsEventsAndAggregatesErrors(t *testing.T) {
	publisher := &testutil.FakePublisher{Err: assert.AnError}
	app, err := New(config.Default(), WithPublisher(publisher))
	require.NoError(t, err)

	var failures []*types.PublishPayload
	_, err = app.On(types.BrandEvent(app.Brand(), types.EventPublishError),
		func(ctx context.Context, payload any) (any, error) {
			failures = append(failures, payload.(*types.PublishPayload))
			return nil, nil
		})
	require.NoError(t, err)

	require.NoError(t, app.RegisterClient(testutil.NewFakeClient("a")))
	require.NoError(t, app.RegisterClient(testutil.NewFakeClient("b")))

	err = app.Publish(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	require.Len(t, failures, 2)
	assert.Equal(t, "a", failures[0].ClientID)
	assert.Equal(t, "b", failures[1].ClientID)
}
