package tescord

import (
	"context"
	"strings"

	"github.com/tescord/tescord/client"
	"github.com/tescord/tescord/errors"
	"github.com/tescord/tescord/types"
)

// Publish refreshes the caches, folds every cached command combination into
// platform command definitions with their interaction localizations, and
// upserts them through the configured publisher once per registered client.
// Per-client failures are aggregated; each attempt emits a publish success or
// error event.
func (t *Tescord) Publish(ctx context.Context, guildID string) error {
	if t.publisher == nil {
		return errors.WrapPublish(errors.ErrMissingConfig, "Tescord", "Publish", "publisher")
	}

	t.Refresh()
	definitions := t.buildCommandDefinitions()

	var errs []error
	for _, c := range t.Clients() {
		err := t.publisher.Publish(ctx, c.ID(), definitions, guildID)
		t.metrics.IncPublish(c.ID(), err)

		payload := &types.PublishPayload{
			ClientID: c.ID(),
			GuildID:  guildID,
			Commands: len(definitions),
			Err:      err,
		}
		if err != nil {
			t.logger.Error("command publish failed", "client", c.ID(), "guild", guildID, "error", err)
			t.EmitEvent(ctx, types.BrandEvent(t.cfg.Brand, types.EventPublishError), payload)
			errs = append(errs, errors.WrapPublish(err, "Tescord", "Publish", "client "+c.ID()))
			continue
		}
		t.logger.Info("commands published", "client", c.ID(), "guild", guildID, "commands", len(definitions))
		t.EmitEvent(ctx, types.BrandEvent(t.cfg.Brand, types.EventPublishSuccess), payload)
	}
	return errors.Join(errs...)
}

// buildCommandDefinitions folds the cached combinations into the platform
// shape: one word is a top-level command, two words a subcommand, three words
// a subcommand group with a subcommand. Context-menu commands publish as-is.
func (t *Tescord) buildCommandDefinitions() []client.CommandDefinition {
	t.mu.RLock()
	list := append([]*cachedInteraction(nil), t.commandList...)
	t.mu.RUnlock()

	tops := make(map[string]*client.CommandDefinition)
	var order []string
	var menus []client.CommandDefinition

	for _, entry := range list {
		it := entry.interaction

		if it.Kind != types.KindSlashCommand {
			menus = append(menus, client.CommandDefinition{
				Name:              entry.combination,
				Kind:              it.Kind,
				NameLocalizations: t.wordLocalizations(it.ID, entry.combination),
			})
			continue
		}

		words := strings.Fields(entry.combination)
		top, seen := tops[words[0]]
		if !seen {
			top = &client.CommandDefinition{
				Name:              words[0],
				Kind:              types.KindSlashCommand,
				NameLocalizations: t.wordLocalizations(it.ID, words[0]),
			}
			tops[words[0]] = top
			order = append(order, words[0])
		}

		switch len(words) {
		case 1:
			t.fillLeaf(top, it.ID, it.Description, it.Options)
		case 2:
			child := ensureChild(top, words[1], t.wordLocalizations(it.ID, words[1]))
			t.fillLeaf(child, it.ID, it.Description, it.Options)
		case 3:
			group := ensureChild(top, words[1], t.wordLocalizations(it.ID, words[1]))
			child := ensureChild(group, words[2], t.wordLocalizations(it.ID, words[2]))
			t.fillLeaf(child, it.ID, it.Description, it.Options)
		}
	}

	out := make([]client.CommandDefinition, 0, len(order)+len(menus))
	for _, name := range order {
		out = append(out, *tops[name])
	}
	out = append(out, menus...)
	return out
}

// fillLeaf writes the invocable-level fields onto a definition node.
func (t *Tescord) fillLeaf(def *client.CommandDefinition, commandID, description string, options []types.CommandOption) {
	def.Description = description
	def.Options = options
	def.DescriptionLocalizations = t.descriptionLocalizations(commandID)
}

// wordLocalizations collects, per language, the localized form of one
// command word for one registered command id.
func (t *Tescord) wordLocalizations(commandID, word string) map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out map[string]string
	for lang, commands := range t.interLocales {
		cl, ok := commands[commandID]
		if !ok {
			continue
		}
		if localized := cl.Names[word]; localized != "" {
			if out == nil {
				out = make(map[string]string)
			}
			out[lang] = localized
		}
	}
	return out
}

func (t *Tescord) descriptionLocalizations(commandID string) map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out map[string]string
	for lang, commands := range t.interLocales {
		cl, ok := commands[commandID]
		if !ok || cl.Description == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[lang] = cl.Description
	}
	return out
}

// ensureChild finds or appends a named child on a definition node. The
// returned pointer is only valid until the next append on the same parent.
func ensureChild(parent *client.CommandDefinition, name string, nameLocalizations map[string]string) *client.CommandDefinition {
	for i := range parent.Children {
		if parent.Children[i].Name == name {
			return &parent.Children[i]
		}
	}
	parent.Children = append(parent.Children, client.CommandDefinition{
		Name:              name,
		Kind:              types.KindSlashCommand,
		NameLocalizations: nameLocalizations,
	})
	return &parent.Children[len(parent.Children)-1]
}
