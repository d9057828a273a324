package tescord

import (
	"golang.org/x/text/language"

	"github.com/tescord/tescord/inspector"
	"github.com/tescord/tescord/locale"
	"github.com/tescord/tescord/pack"
	"github.com/tescord/tescord/types"
)

// Refresh rebuilds the flattened dispatch caches and the merged locale state
// from the current container tree. It walks the tree depth-first, caches
// every interaction under its literal keys, collects event registrations and
// inspectors in traversal order, merges every locale store first-registered-
// wins, backfills missing keys from the default language and rebuilds the
// language matcher. Callers re-run it after structural changes; Start and
// Publish run it implicitly.
func (t *Tescord) Refresh() {
	commands := make(map[commandKey]*cachedInteraction)
	var commandList []*cachedInteraction
	components := make(map[componentKey]*cachedInteraction)
	componentIDs := make(map[string]*cachedInteraction)
	var events []cachedEvent
	var inspectors []cachedInspector

	merged := make(map[string]map[string]any)
	interLocales := make(map[string]map[string]locale.CommandLocale)

	var walk func(p *pack.Pack, path []string)
	walk = func(p *pack.Pack, path []string) {
		path = append(path, p.ID())

		for _, it := range p.Interactions() {
			switch {
			case it.Kind.IsCommand():
				for _, combination := range it.Combinations {
					k := commandKey{kind: it.Kind, name: combination}
					if prev, taken := commands[k]; taken {
						t.logger.Warn("command combination shadowed",
							"combination", combination,
							"kind", it.Kind.String(),
							"pack", p.ID(),
							"shadowed_by", prev.owner.ID())
						continue
					}
					entry := &cachedInteraction{
						owner:       p,
						interaction: it,
						path:        append([]string(nil), path...),
						combination: combination,
					}
					commands[k] = entry
					commandList = append(commandList, entry)
				}
			default:
				k := componentKey{kind: it.Kind, id: it.ID}
				if prev, taken := components[k]; taken {
					t.logger.Warn("component id shadowed",
						"kind", it.Kind.String(),
						"id", it.ID,
						"pack", p.ID(),
						"shadowed_by", prev.owner.ID())
					continue
				}
				entry := &cachedInteraction{
					owner:       p,
					interaction: it,
					path:        append([]string(nil), path...),
				}
				components[k] = entry
				if _, taken := componentIDs[it.ID]; !taken {
					componentIDs[it.ID] = entry
				}
			}
		}

		for _, reg := range p.EventRegistrations() {
			events = append(events, cachedEvent{owner: p, reg: reg})
		}

		rootAttached := len(path) == 1
		for _, in := range p.Inspectors() {
			inspectors = append(inspectors, cachedInspector{
				inspector:    in,
				owner:        p,
				rootAttached: rootAttached,
			})
		}

		for _, store := range p.LocaleStores() {
			for _, lang := range store.Languages() {
				if data := store.MergedData(lang); data != nil {
					if merged[lang] == nil {
						merged[lang] = make(map[string]any)
					}
					locale.FillMissing(merged[lang], data)
				}
				for name, cl := range store.InteractionCommands(lang) {
					if interLocales[lang] == nil {
						interLocales[lang] = make(map[string]locale.CommandLocale)
					}
					interLocales[lang][name] = cl
				}
			}
		}

		for _, sub := range p.SubPacks() {
			walk(sub, path)
		}
	}
	walk(t.Pack, nil)

	// Missing keys in every other language resolve to the default
	// language's value.
	if base, ok := merged[t.cfg.DefaultLanguage]; ok {
		for lang, data := range merged {
			if lang == t.cfg.DefaultLanguage {
				continue
			}
			locale.FillMissing(data, base)
		}
	}

	trees := make(map[string]*locale.Tree, len(merged))
	langNames := make([]string, 0, len(merged))
	langTags := make([]language.Tag, 0, len(merged))
	// Matcher preference order: default language first.
	if data, ok := merged[t.cfg.DefaultLanguage]; ok {
		trees[t.cfg.DefaultLanguage] = locale.BuildTree(data)
		langNames = append(langNames, t.cfg.DefaultLanguage)
		langTags = append(langTags, language.Make(t.cfg.DefaultLanguage))
	}
	for lang, data := range merged {
		if lang == t.cfg.DefaultLanguage {
			continue
		}
		trees[lang] = locale.BuildTree(data)
		langNames = append(langNames, lang)
		langTags = append(langTags, language.Make(lang))
	}

	var matcher language.Matcher
	if len(langTags) > 0 {
		matcher = language.NewMatcher(langTags)
	}

	t.mu.Lock()
	t.commands = commands
	t.commandList = commandList
	t.components = components
	t.componentIDs = componentIDs
	t.events = events
	t.inspectors = inspectors
	t.trees = trees
	t.interLocales = interLocales
	t.langNames = langNames
	t.langTags = langTags
	t.matcher = matcher
	t.mu.Unlock()

	t.logger.Debug("caches refreshed",
		"commands", len(commands),
		"components", len(components),
		"events", len(events),
		"inspectors", len(inspectors),
		"languages", len(trees))
}

// resolveLanguage picks the content language for an interaction: the guild
// locale, then the user locale, matched against the merged languages, then
// the configured default.
func (t *Tescord) resolveLanguage(i *types.Interaction) string {
	t.mu.RLock()
	matcher := t.matcher
	langNames := t.langNames
	t.mu.RUnlock()

	if matcher != nil {
		var want []language.Tag
		if i.GuildLocale != "" {
			want = append(want, language.Make(i.GuildLocale))
		}
		if i.UserLocale != "" {
			want = append(want, language.Make(i.UserLocale))
		}
		if len(want) > 0 {
			if _, idx, conf := matcher.Match(want...); conf > language.No {
				return langNames[idx]
			}
		}
	}
	return t.cfg.DefaultLanguage
}

// Tree returns the merged content-locale tree for a language. The returned
// tree is nil-safe: lookups on a missing language yield empty values.
func (t *Tescord) Tree(lang string) *locale.Tree {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.trees[lang]
}

// Languages returns the merged languages, default language first.
func (t *Tescord) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.langNames...)
}

// inspectorsForUnmatched returns the inspectors consulted for unmatched
// traffic: every subtree-scoped inspector anywhere in the tree, plus
// current-pack scoped inspectors attached to the root itself.
func (t *Tescord) inspectorsForUnmatched() []cachedInspector {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]cachedInspector, 0, len(t.inspectors))
	for _, ci := range t.inspectors {
		if ci.rootAttached || ci.inspector.Domain() == inspector.DomainAllSubPacks {
			out = append(out, ci)
		}
	}
	return out
}
