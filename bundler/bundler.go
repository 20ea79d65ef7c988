// Package bundler turns a project entry into a single script.
//
// Bundler is the collaborator contract; Service implements it with esbuild,
// resolving every import through package resolver so that all reads go
// through the project filesystem.
package bundler

import (
	"context"
	"fmt"
	"strings"
)

// Request asks for one bundle.
type Request struct {
	// Entry is the entry specifier, usually the manifest's main.
	Entry string
}

// Message is a build diagnostic.
type Message struct {
	Text   string
	File   string
	Line   int
	Column int
}

func (m Message) String() string {
	if m.File == "" {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.File, m.Line, m.Column, m.Text)
}

// Result is the outcome of a build. Code is empty when Errors is not.
type Result struct {
	Code     string
	Errors   []Message
	Warnings []Message
}

// Failed reports whether the build produced errors.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Err folds the build errors into one error, nil when the build succeeded.
func (r *Result) Err() error {
	if !r.Failed() {
		return nil
	}
	lines := make([]string, len(r.Errors))
	for i, m := range r.Errors {
		lines[i] = m.String()
	}
	return fmt.Errorf("build failed with %d error(s):\n%s", len(r.Errors), strings.Join(lines, "\n"))
}

// Bundler builds bundles. Diagnostics of a failed build are reported in the
// Result; the error return is for failures of the bundler itself.
type Bundler interface {
	Bundle(ctx context.Context, req Request) (*Result, error)
}
