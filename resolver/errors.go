package resolver

import (
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// ErrNotResolved is returned when a path specifier matches nothing in the filesystem.
var ErrNotResolved = errors.New("module not resolved")

// NotResolvedError describes a failed path resolution.
type NotResolvedError struct {
	Specifier  string
	ResolveDir string
	// Suggestion is the closest sibling entry, empty when none is close enough.
	Suggestion string
}

func (e *NotResolvedError) Error() string {
	msg := fmt.Sprintf("could not resolve %q from %s", e.Specifier, e.ResolveDir)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}
	return msg
}

func (e *NotResolvedError) Unwrap() error {
	return ErrNotResolved
}

// maxSuggestionDistance bounds how far a suggestion may be from the request.
const maxSuggestionDistance = 3

// suggest picks the candidate closest to name, ignoring extensions.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	stem := trimExt(name)
	closest := lo.MinBy(candidates, func(a, b string) bool {
		return levenshtein.Distance(stem, trimExt(a)) < levenshtein.Distance(stem, trimExt(b))
	})
	if levenshtein.Distance(stem, trimExt(closest)) > maxSuggestionDistance {
		return ""
	}
	return closest
}

func trimExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
