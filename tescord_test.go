package tescord

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tescord/tescord/config"
	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/inspector"
	"github.com/tescord/tescord/locale"
	"github.com/tescord/tescord/pack"
	"github.com/tescord/tescord/testutil"
	"github.com/tescord/tescord/types"
)

func newTestApp(t *testing.T, opts ...Option) *Tescord {
	t.Helper()
	app, err := New(config.Default(), opts...)
	require.NoError(t, err)
	return app
}

func TestDispatch_MatchedSlashCommand(t *testing.T) {
	app := newTestApp(t)

	var got *types.CommandContext
	_, err := app.SlashCommand(pack.SlashCommandConfig{
		ID:      "play",
		Pattern: "play (song|track)",
		Handler: func(ctx *types.CommandContext) any {
			got = ctx
			return nil
		},
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "play",
		Subcommand:  "track",
	})

	require.NotNil(t, got)
	assert.Equal(t, "play track", got.Name)
	assert.Equal(t, "play (song|track)", got.Pattern)
	assert.Equal(t, "main", got.ClientID)
}

func TestDispatch_UnmatchedIsSilent(t *testing.T) {
	app := newTestApp(t)

	var errorEvents int
	_, err := app.On(types.BrandEvent(app.Brand(), types.EventInteractionHandlerError),
		func(ctx context.Context, payload any) (any, error) {
			errorEvents++
			return nil, nil
		})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "missing",
	})

	assert.Zero(t, errorEvents, "unmatched interaction must not raise errors")
}

func TestDispatch_HandlerPanicEmitsErrorEvent(t *testing.T) {
	app := newTestApp(t)

	var payload *types.HandlerErrorPayload
	_, err := app.On(types.BrandEvent(app.Brand(), types.EventInteractionHandlerError),
		func(ctx context.Context, p any) (any, error) {
			payload = p.(*types.HandlerErrorPayload)
			return nil, nil
		})
	require.NoError(t, err)

	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:      "boom",
		Pattern: "boom",
		Handler: func(ctx *types.CommandContext) any { panic("kaboom") },
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "boom",
	})

	require.NotNil(t, payload)
	assert.Equal(t, "boom", payload.Key)
	assert.ErrorContains(t, payload.Err, "kaboom")
}

func TestDispatch_ComponentRoundTrip(t *testing.T) {
	app := newTestApp(t)

	var got *types.ComponentContext
	_, err := app.Button(pack.ButtonConfig{
		ID:    "confirm",
		Label: "Confirm",
		Handler: func(ctx *types.ComponentContext) any {
			got = ctx
			return nil
		},
	})
	require.NoError(t, err)
	app.Refresh()

	built, err := app.BuildComponent(context.Background(), "confirm", []any{"order-7", 3}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, built.CustomID)
	assert.Equal(t, "Confirm", built.Label)

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:     types.KindButton,
		CustomID: built.CustomID,
	})

	require.NotNil(t, got)
	assert.Equal(t, "confirm", got.ComponentID)
	assert.Equal(t, []any{"order-7", float64(3)}, got.Data)
}

func TestDispatch_Modal(t *testing.T) {
	app := newTestApp(t)

	var got *types.ModalContext
	_, err := app.Modal(pack.ModalConfig{
		ID:    "feedback",
		Title: "Feedback",
		Handler: func(ctx *types.ModalContext) any {
			got = ctx
			return nil
		},
	})
	require.NoError(t, err)
	app.Refresh()

	customID, err := app.Codec().Encode(context.Background(), "feedback", nil)
	require.NoError(t, err)

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:     types.KindModal,
		CustomID: customID,
		Fields:   map[string]string{"body": "hello"},
	})

	require.NotNil(t, got)
	assert.Equal(t, "feedback", got.ComponentID)
	assert.Equal(t, "hello", got.Fields["body"])
}

func TestDispatch_InspectorDomains(t *testing.T) {
	app := newTestApp(t)

	deep, err := pack.New("deep")
	require.NoError(t, err)

	var seen []string
	record := func(name string) inspector.Handler {
		return func(ctx types.Context) any {
			seen = append(seen, name)
			return nil
		}
	}

	// Current-pack scoped inspector attached below the root: never
	// consulted for unmatched root traffic.
	deepCurrent, err := inspector.New(inspector.Config{ID: "deep-current", Domain: inspector.DomainCurrentPack})
	require.NoError(t, err)
	_, err = deepCurrent.SlashCommand("ghost", record("deep-current"))
	require.NoError(t, err)

	// Subtree scoped inspector attached below the root: consulted.
	deepSub, err := inspector.New(inspector.Config{ID: "deep-sub", Domain: inspector.DomainAllSubPacks})
	require.NoError(t, err)
	_, err = deepSub.SlashCommand("ghost", record("deep-sub"))
	require.NoError(t, err)

	// Current-pack scoped inspector on the root itself: consulted.
	rootCurrent, err := inspector.New(inspector.Config{ID: "root-current", Domain: inspector.DomainCurrentPack})
	require.NoError(t, err)
	_, err = rootCurrent.SlashCommand("ghost", record("root-current"))
	require.NoError(t, err)

	_, err = deep.Use(deepCurrent, deepSub)
	require.NoError(t, err)
	_, err = app.Use(deep, rootCurrent)
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:        types.KindSlashCommand,
		CommandName: "ghost",
	})

	assert.NotContains(t, seen, "deep-current")
	assert.Contains(t, seen, "deep-sub")
}

func TestDispatch_InspectorResultStopsScan(t *testing.T) {
	app := newTestApp(t)

	var second int
	first, err := inspector.New(inspector.Config{ID: "first"})
	require.NoError(t, err)
	_, err = first.Button("orphan", func(ctx types.Context) any { return "claimed" })
	require.NoError(t, err)
	late, err := inspector.New(inspector.Config{ID: "late"})
	require.NoError(t, err)
	_, err = late.Button("orphan", func(ctx types.Context) any {
		second++
		return "late"
	})
	require.NoError(t, err)

	_, err = app.Use(first, late)
	require.NoError(t, err)
	app.Refresh()

	customID, err := app.Codec().Encode(context.Background(), "orphan", nil)
	require.NoError(t, err)
	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		Kind:     types.KindButton,
		CustomID: customID,
	})

	assert.Zero(t, second, "scan must stop at the first claiming inspector")
}

func TestRefresh_LocaleFallbackToDefaultLanguage(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Locales().Load(locale.Fragment{
		ID:       "base-en",
		Language: "en",
		Data:     map[string]any{"greeting": "Hello", "farewell": "Bye"},
	})
	require.NoError(t, err)
	_, err = app.Locales().Load(locale.Fragment{
		ID:       "base-tr",
		Language: "tr",
		Data:     map[string]any{"greeting": "Merhaba"},
	})
	require.NoError(t, err)
	app.Refresh()

	tr := app.Tree("tr")
	require.NotNil(t, tr)
	assert.Equal(t, "Merhaba", tr.Lookup("greeting").Value())
	assert.Equal(t, "Bye", tr.Lookup("farewell").Value(), "missing keys fall back to the default language")
	assert.Equal(t, []string{"en", "tr"}, app.Languages())
}

func TestRefresh_CrossPackMergeFirstWins(t *testing.T) {
	app := newTestApp(t)

	child, err := pack.New("child")
	require.NoError(t, err)
	_, err = child.Locales().Load(locale.Fragment{
		ID:       "child-en",
		Language: "en",
		Data:     map[string]any{"title": "child", "extra": "only-child"},
	})
	require.NoError(t, err)
	_, err = app.Locales().Load(locale.Fragment{
		ID:       "root-en",
		Language: "en",
		Data:     map[string]any{"title": "root"},
	})
	require.NoError(t, err)
	_, err = app.Use(child)
	require.NoError(t, err)
	app.Refresh()

	en := app.Tree("en")
	require.NotNil(t, en)
	assert.Equal(t, "root", en.Lookup("title").Value(), "the root walks first, so its value wins")
	assert.Equal(t, "only-child", en.Lookup("extra").Value())
}

func TestDispatch_LanguageResolution(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Locales().Load(locale.Fragment{ID: "en", Language: "en", Data: map[string]any{"k": "v"}})
	require.NoError(t, err)
	_, err = app.Locales().Load(locale.Fragment{ID: "tr", Language: "tr", Data: map[string]any{"k": "d"}})
	require.NoError(t, err)
	app.Refresh()

	assert.Equal(t, "tr", app.resolveLanguage(&types.Interaction{GuildLocale: "tr"}))
	assert.Equal(t, "tr", app.resolveLanguage(&types.Interaction{UserLocale: "tr-TR"}))
	assert.Equal(t, "en", app.resolveLanguage(&types.Interaction{GuildLocale: "fr"}))
	assert.Equal(t, "en", app.resolveLanguage(&types.Interaction{}))
}

func TestAutocomplete_TruncatesToLimit(t *testing.T) {
	app := newTestApp(t)

	choices := make([]types.Choice, 30)
	for i := range choices {
		choices[i] = types.Choice{Name: "c", Value: i}
	}
	_, err := app.SlashCommand(pack.SlashCommandConfig{
		ID:      "search",
		Pattern: "search",
		Autocomplete: map[string]pack.AutocompleteFunc{
			"query": func(ctx *types.AutocompleteContext) ([]types.Choice, error) {
				return choices, nil
			},
		},
		Handler: func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		ID:          "i1",
		Kind:        types.KindAutocomplete,
		CommandName: "search",
		Focused:     "query",
		Options:     map[string]any{"query": "par"},
	})

	responses := c.AutocompleteResponses()
	require.Len(t, responses, 1)
	assert.Len(t, responses[0].Choices, types.MaxAutocompleteChoices)
}

func TestAutocomplete_ErrorRespondsEmpty(t *testing.T) {
	app := newTestApp(t)

	var errorEvents int
	_, err := app.On(types.BrandEvent(app.Brand(), types.EventAutocompleteError),
		func(ctx context.Context, payload any) (any, error) {
			errorEvents++
			return nil, nil
		})
	require.NoError(t, err)

	_, err = app.SlashCommand(pack.SlashCommandConfig{
		ID:      "search",
		Pattern: "search",
		Autocomplete: map[string]pack.AutocompleteFunc{
			"query": func(ctx *types.AutocompleteContext) ([]types.Choice, error) {
				return nil, assert.AnError
			},
		},
		Handler: func(ctx *types.CommandContext) any { return nil },
	})
	require.NoError(t, err)
	app.Refresh()

	c := testutil.NewFakeClient("main")
	app.dispatchInteraction(context.Background(), c, &types.Interaction{
		ID:          "i2",
		Kind:        types.KindAutocomplete,
		CommandName: "search",
		Focused:     "query",
	})

	responses := c.AutocompleteResponses()
	require.Len(t, responses, 1)
	assert.Empty(t, responses[0].Choices)
	assert.Equal(t, 1, errorEvents)
}

func TestBuildComponent_OverridesAndUnknownID(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Button(pack.ButtonConfig{
		ID:      "confirm",
		Label:   "Confirm",
		Style:   types.ButtonPrimary,
		Handler: func(ctx *types.ComponentContext) any { return nil },
	})
	require.NoError(t, err)
	app.Refresh()

	label := "Are you sure?"
	disabled := true
	built, err := app.BuildComponent(context.Background(), "confirm", nil, &types.ComponentOverrides{
		Label:    &label,
		Disabled: &disabled,
	})
	require.NoError(t, err)
	assert.Equal(t, "Are you sure?", built.Label)
	assert.True(t, built.Disabled)
	assert.Equal(t, types.ButtonPrimary, built.Style, "untouched fields keep the registered value")

	_, err = app.BuildComponent(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, errors.ErrUnknownID)
}

func TestBuildComponent_ReturnedSlicesDoNotAliasRegistry(t *testing.T) {
	app := newTestApp(t)

	_, err := app.StringSelect(pack.SelectMenuConfig{
		ID:      "color",
		Options: []types.SelectOption{{Label: "Red", Value: "red"}},
		Handler: func(ctx *types.ComponentContext) any { return nil },
	})
	require.NoError(t, err)
	app.Refresh()

	built, err := app.BuildComponent(context.Background(), "color", nil, nil)
	require.NoError(t, err)
	built.Options[0].Label = "mutated"

	again, err := app.BuildComponent(context.Background(), "color", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Red", again.Options[0].Label)
}

func TestStartStop_EventLoop(t *testing.T) {
	app := newTestApp(t)

	handled := make(chan string, 1)
	_, err := app.SlashCommand(pack.SlashCommandConfig{
		ID:      "ping",
		Pattern: "ping",
		Handler: func(ctx *types.CommandContext) any {
			handled <- ctx.Name
			return nil
		},
	})
	require.NoError(t, err)

	ready := make(chan struct{}, 1)
	_, err = app.On(types.BrandEvent(app.Brand(), types.EventReady),
		func(ctx context.Context, payload any) (any, error) {
			ready <- struct{}{}
			return nil, nil
		})
	require.NoError(t, err)

	c := testutil.NewFakeClient("main")
	require.NoError(t, app.RegisterClient(c))

	require.NoError(t, app.Start(context.Background()))
	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("ready event not emitted")
	}
	assert.True(t, c.LoggedIn())

	c.SendInteraction(&types.Interaction{Kind: types.KindSlashCommand, CommandName: "ping"})
	select {
	case name := <-handled:
		assert.Equal(t, "ping", name)
	case <-time.After(time.Second):
		t.Fatal("interaction not dispatched")
	}

	err = app.Start(context.Background())
	assert.ErrorIs(t, err, errors.ErrAlreadyStarted)

	require.NoError(t, app.Stop())
	err = app.Stop()
	assert.ErrorIs(t, err, errors.ErrNotStarted)
}

func TestRegisterClient_Validation(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.RegisterClient(testutil.NewFakeClient("main")))
	err := app.RegisterClient(testutil.NewFakeClient("main"))
	assert.ErrorIs(t, err, errors.ErrDuplicateID)
	assert.ErrorIs(t, app.RegisterClient(nil), errors.ErrNilHandler)
}
