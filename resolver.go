package sszero

import "fmt"

// Resolver maps a type reference (a name, an alias or an inline type
// expression) to its canonical descriptor. Implementations must be
// deterministic and return acyclic, finite descriptors whose container
// field names are unique. See package resolve for the standard one.
type Resolver interface {
	Resolve(ref string) (Type, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref string) (Type, error)

func (f ResolverFunc) Resolve(ref string) (Type, error) { return f(ref) }

// SynthesizeRef resolves ref with r and synthesizes its default value.
func SynthesizeRef(r Resolver, ref string, override any, opts ...Options) (any, error) {
	t, err := r.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", ref, err)
	}
	return Synthesize(t, override, opts...)
}
