// Package generator routes a user request to the first responder able to
// handle it. Canned template generators cover common scaffolding asks
// without a network call; everything else falls through to the model.
package generator

import (
	"context"

	"scribe/action"
	"scribe/index"
)

// Generator produces a response for a matching request.
type Generator interface {
	// Name identifies the generator in logs and listings.
	Name() string
	// Description is a one-line summary shown to the user.
	Description() string
	// Detect reports whether this generator should handle the input.
	// Detection must be pure and fast. Only Generate may do I/O.
	Detect(input string) bool
	// Generate produces the response. Template generators ignore entries.
	Generate(ctx context.Context, input string, entries []index.Entry) (*action.Response, error)
}

// Registry holds generators in registration order plus a catch-all that is
// always consulted last, regardless of when it was supplied.
type Registry struct {
	generators []Generator
	fallback   Generator
}

// NewRegistry creates a registry with the given catch-all. The catch-all
// must match every input; Find panics on a nil fallback rather than
// silently dropping requests.
func NewRegistry(fallback Generator) *Registry {
	return &Registry{fallback: fallback}
}

// Register appends a generator. Earlier registrations win ties.
func (r *Registry) Register(g Generator) {
	r.generators = append(r.generators, g)
}

// Find returns the first generator whose Detect matches, or the catch-all.
func (r *Registry) Find(input string) Generator {
	for _, g := range r.generators {
		if g.Detect(input) {
			return g
		}
	}
	if r.fallback == nil {
		panic("generator: registry has no fallback")
	}
	return r.fallback
}

// Generators returns the registered generators followed by the catch-all.
func (r *Registry) Generators() []Generator {
	out := make([]Generator, 0, len(r.generators)+1)
	out = append(out, r.generators...)
	if r.fallback != nil {
		out = append(out, r.fallback)
	}
	return out
}
