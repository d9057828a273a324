package locale

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tescord/tescord/errors"
)

// Store holds the locale fragments of one container and their merged
// per-language views. Loading and disposing recompute only the affected
// language; other languages keep their merged view untouched.
type Store struct {
	id string

	mu                sync.RWMutex
	fragments         map[string][]*Fragment            // language -> fragments, registration order
	interactions      map[string][]*InteractionFragment // language -> fragments, registration order
	merged            map[string]map[string]any         // language -> merged content view
	mergedInteraction map[string]map[string]CommandLocale
}

// NewStore creates an empty store. The id is used in lifecycle events and
// error messages.
func NewStore(id string) *Store {
	return &Store{
		id:                id,
		fragments:         make(map[string][]*Fragment),
		interactions:      make(map[string][]*InteractionFragment),
		merged:            make(map[string]map[string]any),
		mergedInteraction: make(map[string]map[string]CommandLocale),
	}
}

// ID returns the store id.
func (s *Store) ID() string {
	return s.id
}

// Load registers a content fragment and recomputes the merged view for the
// fragment's language only. The returned disposer removes exactly this
// fragment and recomputes the same single language.
func (s *Store) Load(f Fragment) (Disposer, error) {
	if f.ID == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "LocaleStore", "Load", "fragment id validation")
	}
	if f.Language == "" {
		return nil, errors.WrapRegistration(
			fmt.Errorf("fragment %q has no language", f.ID),
			"LocaleStore", "Load", "language validation")
	}

	frag := &Fragment{ID: f.ID, Language: f.Language, Data: CloneMap(f.Data)}

	s.mu.Lock()
	s.fragments[f.Language] = append(s.fragments[f.Language], frag)
	s.recomputeLanguage(f.Language)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		list := s.fragments[frag.Language]
		for i, existing := range list {
			if existing == frag {
				s.fragments[frag.Language] = append(list[:i], list[i+1:]...)
				break
			}
		}
		s.recomputeLanguage(frag.Language)
	}, nil
}

// LoadInteraction registers an interaction-locale fragment. Interaction
// fragments merge with the last-registered-wins rule per command id, the
// documented asymmetry versus content fragments.
func (s *Store) LoadInteraction(f InteractionFragment) (Disposer, error) {
	if f.ID == "" {
		return nil, errors.WrapRegistration(errors.ErrEmptyID, "LocaleStore", "LoadInteraction", "fragment id validation")
	}
	if f.Language == "" {
		return nil, errors.WrapRegistration(
			fmt.Errorf("fragment %q has no language", f.ID),
			"LocaleStore", "LoadInteraction", "language validation")
	}

	frag := &InteractionFragment{ID: f.ID, Language: f.Language, Commands: f.Commands}

	s.mu.Lock()
	s.interactions[f.Language] = append(s.interactions[f.Language], frag)
	s.recomputeInteraction(f.Language)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		list := s.interactions[frag.Language]
		for i, existing := range list {
			if existing == frag {
				s.interactions[frag.Language] = append(list[:i], list[i+1:]...)
				break
			}
		}
		s.recomputeInteraction(frag.Language)
	}, nil
}

// Languages returns every language with at least one content or interaction
// fragment, sorted.
func (s *Store) Languages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.merged))
	for lang := range s.merged {
		seen[lang] = true
	}
	for lang := range s.mergedInteraction {
		seen[lang] = true
	}

	languages := make([]string, 0, len(seen))
	for lang := range seen {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// MergedData returns a deep copy of the merged content view for a language.
// Returns nil when the language has no content fragments.
func (s *Store) MergedData(language string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneMap(s.merged[language])
}

// Tree builds the lookup tree for a language's merged content view.
func (s *Store) Tree(language string) *Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.merged[language]
	if data == nil {
		return nil
	}
	return BuildTree(data)
}

// InteractionCommands returns a copy of the merged interaction view for a
// language, keyed by command id.
func (s *Store) InteractionCommands(language string) map[string]CommandLocale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	merged := s.mergedInteraction[language]
	if merged == nil {
		return nil
	}
	out := make(map[string]CommandLocale, len(merged))
	for id, cl := range merged {
		out[id] = cl
	}
	return out
}

// recomputeLanguage rebuilds the merged content view for one language.
// Callers hold the write lock.
func (s *Store) recomputeLanguage(language string) {
	fragments := s.fragments[language]
	if len(fragments) == 0 {
		delete(s.merged, language)
		delete(s.fragments, language)
		return
	}

	acc := make(map[string]any)
	for _, frag := range fragments {
		FillMissing(acc, frag.Data)
	}
	s.merged[language] = acc
}

// recomputeInteraction rebuilds the merged interaction view for one language.
// Callers hold the write lock.
func (s *Store) recomputeInteraction(language string) {
	fragments := s.interactions[language]
	if len(fragments) == 0 {
		delete(s.mergedInteraction, language)
		delete(s.interactions, language)
		return
	}

	acc := make(map[string]CommandLocale)
	for _, frag := range fragments {
		for id, cl := range frag.Commands {
			// Flat overwrite: last-registered wins per command id.
			acc[id] = cl
		}
	}
	s.mergedInteraction[language] = acc
}
