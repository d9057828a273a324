// Package pattern implements the command-name grammar used for slash-command
// registration. A pattern is a whitespace-separated list of tokens where each
// token is either a literal word, an alternation group "(a|b|c)" from which
// exactly one option is chosen, or an optional group "(word)?" which is either
// present or absent. Expansion produces every concrete literal combination.
package pattern

import (
	"strings"

	"github.com/tescord/tescord/errors"
)

// Platform naming limits enforced on expanded combinations.
const (
	// MaxWords is the maximum number of space-separated words per combination
	// (command, subcommand group, subcommand).
	MaxWords = 3
	// MaxWordLen is the maximum length of a single word.
	MaxWordLen = 32
)

// Expand expands a pattern into every literal combination. Expansion is pure
// and order-stable: tokens are processed left to right, alternation options in
// listed order, and optional groups contribute the absent branch before the
// present branch. A pattern without group syntax expands to exactly itself.
//
// A malformed group (empty alternation, empty option) contributes no branches,
// so the result may be empty; callers treat an empty result as a distinct
// validation error via Validate.
func Expand(p string) []string {
	tokens := strings.Fields(p)
	if len(tokens) == 0 {
		return nil
	}

	// Each combination is a slice of present words. Absent optional tokens
	// are simply omitted, so joining never produces empty words or double
	// spaces.
	combos := [][]string{{}}
	for _, token := range tokens {
		branches := tokenBranches(token)
		if branches == nil {
			return nil
		}

		next := make([][]string, 0, len(combos)*len(branches))
		for _, combo := range combos {
			for _, branch := range branches {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				if branch != "" {
					extended = append(extended, branch)
				}
				next = append(next, extended)
			}
		}
		combos = next
	}

	out := make([]string, 0, len(combos))
	for _, combo := range combos {
		out = append(out, strings.Join(combo, " "))
	}
	return out
}

// tokenBranches returns the words a single token can contribute to a
// combination. An absent optional is represented by the empty string. A
// malformed token returns nil.
func tokenBranches(token string) []string {
	switch {
	case strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")?"):
		word := token[1 : len(token)-2]
		if word == "" || strings.ContainsAny(word, "()|") {
			return nil
		}
		// Absent branch first keeps expansion order stable.
		return []string{"", word}

	case strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")"):
		body := token[1 : len(token)-1]
		options := strings.Split(body, "|")
		if len(options) < 2 {
			return nil
		}
		for _, opt := range options {
			if opt == "" || strings.ContainsAny(opt, "()") {
				return nil
			}
		}
		return options

	case strings.ContainsAny(token, "()|?"):
		// Group syntax that is not a complete group is malformed.
		return nil

	default:
		return []string{token}
	}
}

// Validate checks expanded combinations against the platform naming limits.
// It returns ErrNoCombinations for an empty expansion, ErrTooManyWords when a
// combination splits into more than MaxWords words, and ErrWordTooLong when
// any word exceeds MaxWordLen characters. The sentinels are distinct so
// callers can branch on the failure mode.
func Validate(combinations []string) error {
	if len(combinations) == 0 {
		return errors.WrapRegistration(errors.ErrNoCombinations,
			"pattern", "Validate", "expansion")
	}

	for _, combo := range combinations {
		words := strings.Fields(combo)
		if len(words) > MaxWords {
			return errors.WrapRegistration(errors.ErrTooManyWords,
				"pattern", "Validate", "combination "+combo)
		}
		for _, word := range words {
			if len(word) > MaxWordLen {
				return errors.WrapRegistration(errors.ErrWordTooLong,
					"pattern", "Validate", "word "+word)
			}
		}
	}
	return nil
}
