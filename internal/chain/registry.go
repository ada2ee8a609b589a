package chain

import (
	"fmt"

	"github.com/synnergy-network/walletd/internal/errs"
	"github.com/synnergy-network/walletd/internal/primitives"
)

// Registry is the closed, immutable-after-init map from Chain to Provider.
// The set of chains is closed and known at startup, so a registry maps
// Chain -> provider and never mutates after construction.
type Registry struct {
	providers map[primitives.Chain]Provider
}

// NewRegistry builds an immutable Registry from the given providers. Two
// providers for the same Chain is a construction-time error.
func NewRegistry(providers ...Provider) (*Registry, error) {
	m := make(map[primitives.Chain]Provider, len(providers))
	for _, p := range providers {
		c := p.GetChain()
		if _, exists := m[c]; exists {
			return nil, fmt.Errorf("chain: duplicate provider registered for %s", c)
		}
		m[c] = p
	}
	return &Registry{providers: m}, nil
}

// Get returns the Provider for chain, or errs.ErrUnsupportedChain if none is
// registered.
func (r *Registry) Get(c primitives.Chain) (Provider, error) {
	p, ok := r.providers[c]
	if !ok {
		return nil, fmt.Errorf("chain: %s: %w", c, errs.ErrUnsupportedChain)
	}
	return p, nil
}

// Chains returns every chain this Registry has a Provider for, in no
// particular order.
func (r *Registry) Chains() []primitives.Chain {
	out := make([]primitives.Chain, 0, len(r.providers))
	for c := range r.providers {
		out = append(out, c)
	}
	return out
}
