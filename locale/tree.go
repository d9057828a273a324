// Package locale stores per-container locale fragments and merges them into
// per-language lookup trees with formatting leaves. Two fragment kinds exist
// with deliberately different merge rules:
//
//   - content fragments deep-merge with first-registered-wins per key path:
//     later fragments only fill structurally-absent keys;
//   - interaction fragments overwrite flat per command id, so the
//     last-registered fragment wins.
//
// The asymmetry is a preserved behavioral contract, not an accident of
// implementation; callers depending on merge order rely on it.
package locale

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree is a merged per-language lookup tree. Inner nodes hold children; leaf
// nodes hold a string value that doubles as a positional-format template
// ("{0}", "{1}", ... placeholders). A nil *Tree is safe to traverse and
// formats to the empty string, so chained lookups never panic on missing
// keys.
type Tree struct {
	value    string
	leaf     bool
	children map[string]*Tree
}

// BuildTree converts a nested plain string tree into a Tree. Non-string,
// non-map values are stringified.
func BuildTree(data map[string]any) *Tree {
	t := &Tree{children: make(map[string]*Tree, len(data))}
	for key, value := range data {
		switch v := value.(type) {
		case map[string]any:
			t.children[key] = BuildTree(v)
		case string:
			t.children[key] = &Tree{value: v, leaf: true}
		default:
			t.children[key] = &Tree{value: fmt.Sprint(v), leaf: true}
		}
	}
	return t
}

// Child returns the child node for a single key, or nil.
func (t *Tree) Child(key string) *Tree {
	if t == nil {
		return nil
	}
	return t.children[key]
}

// Lookup traverses a dotted path ("a.b.c") and returns the node found there,
// or nil.
func (t *Tree) Lookup(path string) *Tree {
	node := t
	for _, key := range strings.Split(path, ".") {
		node = node.Child(key)
		if node == nil {
			return nil
		}
	}
	return node
}

// IsLeaf reports whether the node holds a string value.
func (t *Tree) IsLeaf() bool {
	return t != nil && t.leaf
}

// Value returns the raw string value of a leaf, or "" for inner and missing
// nodes.
func (t *Tree) Value() string {
	if t == nil {
		return ""
	}
	return t.value
}

// Format substitutes positional placeholders in the leaf value: "{0}" becomes
// the first argument stringified, "{1}" the second, and so on. Placeholders
// without a matching argument are left untouched.
func (t *Tree) Format(args ...any) string {
	if t == nil || !t.leaf {
		return ""
	}
	return FormatValue(t.value, args...)
}

// Keys returns the sorted child keys of an inner node.
func (t *Tree) Keys() []string {
	if t == nil || len(t.children) == 0 {
		return nil
	}
	keys := make([]string, 0, len(t.children))
	for key := range t.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FormatValue substitutes "{N}" placeholders in a template with the Nth
// argument stringified.
func FormatValue(template string, args ...any) string {
	if len(args) == 0 || !strings.Contains(template, "{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close += open

		index, err := strconv.Atoi(rest[open+1 : close])
		if err != nil || index < 0 || index >= len(args) {
			// Not a substitutable placeholder, emit as-is.
			b.WriteString(rest[:close+1])
		} else {
			b.WriteString(rest[:open])
			b.WriteString(fmt.Sprint(args[index]))
		}
		rest = rest[close+1:]
	}
}
