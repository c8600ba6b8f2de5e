package secrets

import (
	"fmt"
	"strings"
)

// ChainResolver tries multiple resolvers in order until one succeeds
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver creates a new chain resolver with the given resolvers.
// Resolvers are tried in the order they are provided; nil entries are skipped.
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	chain := &ChainResolver{}
	for _, r := range resolvers {
		if r != nil {
			chain.resolvers = append(chain.resolvers, r)
		}
	}
	return chain
}

// Resolve tries each resolver in order until one succeeds.
// If all fail, returns an aggregate error with details from all attempts.
func (c *ChainResolver) Resolve(keyPath string) (string, error) {
	if len(c.resolvers) == 0 {
		return "", fmt.Errorf("no passphrase resolvers configured")
	}

	var failures []string
	for i, resolver := range c.resolvers {
		value, err := resolver.Resolve(keyPath)
		if err == nil {
			return value, nil
		}
		failures = append(failures, fmt.Sprintf("resolver %d: %s", i+1, err.Error()))
	}

	return "", fmt.Errorf("failed to find passphrase for %s after trying %d resolver(s):\n  %s",
		keyPath, len(c.resolvers), strings.Join(failures, "\n  "))
}

// PassphraseFunc adapts the chain to the byte-slice callback used when
// loading an encrypted key.
func (c *ChainResolver) PassphraseFunc() func(keyPath string) ([]byte, error) {
	return func(keyPath string) ([]byte, error) {
		value, err := c.Resolve(keyPath)
		if err != nil {
			return nil, err
		}
		return []byte(value), nil
	}
}
