package tescord

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tescord/tescord/client"
	"github.com/tescord/tescord/pack"
	"github.com/tescord/tescord/testutil"
	"github.com/tescord/tescord/types"
)

func TestHandleEvent_MatchesCachedListeners(t *testing.T) {
	app := newTestApp(t)

	child, err := pack.New("child")
	require.NoError(t, err)

	var order []string
	_, err = app.On("guildMemberAdd", func(ctx context.Context, payload any) (any, error) {
		order = append(order, "root:"+payload.(string))
		return nil, nil
	})
	require.NoError(t, err)
	_, err = child.On("guildMemberAdd", func(ctx context.Context, payload any) (any, error) {
		order = append(order, "child:"+payload.(string))
		return nil, nil
	})
	require.NoError(t, err)
	_, err = child.On("messageCreate", func(ctx context.Context, payload any) (any, error) {
		order = append(order, "other")
		return nil, nil
	})
	require.NoError(t, err)

	_, err = app.Use(child)
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.handleEvent(context.Background(), c, client.Event{Name: "guildMemberAdd", Payload: "u1"})

	assert.Equal(t, []string{"root:u1", "child:u1"}, order)
}

func TestDispatch_CommandKindsDoNotCollide(t *testing.T) {
	app := newTestApp(t)

	var invoked []string
	_, err := app.SlashCommand(pack.SlashCommandConfig{
		ID:      "ban-command",
		Pattern: "ban",
		Handler: func(ctx *types.CommandContext) any {
			invoked = append(invoked, "slash:"+ctx.Kind.String())
			return nil
		},
	})
	require.NoError(t, err)
	// The platform allows a context-menu command to share a slash
	// command's name; both must stay reachable.
	_, err = app.UserContextMenu(pack.ContextMenuConfig{
		ID:   "ban-menu",
		Name: "ban",
		Handler: func(ctx *types.CommandContext) any {
			invoked = append(invoked, "menu:"+ctx.Kind.String())
			return nil
		},
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindUserContextMenu,
		CommandName: "ban",
	})
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "ban",
	})

	assert.Equal(t, []string{"menu:userContextMenu", "slash:slashCommand"}, invoked)
}

func TestHandleEvent_OnceListenerFiresOnce(t *testing.T) {
	app := newTestApp(t)

	var count int
	_, err := app.Once("guildMemberAdd", func(ctx context.Context, payload any) (any, error) {
		count++
		return nil, nil
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.handleEvent(context.Background(), c, client.Event{Name: "guildMemberAdd"})
	app.handleEvent(context.Background(), c, client.Event{Name: "guildMemberAdd"})

	assert.Equal(t, 1, count)
}

func TestHandleEvent_ListenerErrorEmitsEvent(t *testing.T) {
	app := newTestApp(t)

	var failures []*types.HandlerErrorPayload
	_, err := app.On(types.BrandEvent(app.Brand(), types.EventEventHandlerError),
		func(ctx context.Context, payload any) (any, error) {
			failures = append(failures, payload.(*types.HandlerErrorPayload))
			return nil, nil
		})
	require.NoError(t, err)

	_, err = app.On("messageCreate", func(ctx context.Context, payload any) (any, error) {
		return nil, assert.AnError
	})
	require.NoError(t, err)
	_, err = app.On("messageDelete", func(ctx context.Context, payload any) (any, error) {
		panic("listener bug")
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.handleEvent(context.Background(), c, client.Event{Name: "messageCreate"})
	app.handleEvent(context.Background(), c, client.Event{Name: "messageDelete"})

	require.Len(t, failures, 2)
	assert.Equal(t, "messageCreate", failures[0].Event)
	assert.ErrorIs(t, failures[0].Err, assert.AnError)
	assert.ErrorContains(t, failures[1].Err, "listener bug")
}

func TestRefresh_ShadowedCombinationKeepsFirst(t *testing.T) {
	app := newTestApp(t)

	var invoked []string
	a, err := pack.New("a")
	require.NoError(t, err)
	b, err := pack.New("b")
	require.NoError(t, err)
	for _, p := range []*pack.Pack{a, b} {
		id := p.ID()
		_, err := p.SlashCommand(pack.SlashCommandConfig{
			ID:      "ping",
			Pattern: "ping",
			Handler: func(ctx *types.CommandContext) any {
				invoked = append(invoked, id)
				return nil
			},
		})
		require.NoError(t, err)
	}
	_, err = app.Use(a, b)
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "ping",
	})

	assert.Equal(t, []string{"a"}, invoked, "the first pack in traversal order owns a shadowed literal")
}
