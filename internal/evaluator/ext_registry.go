package evaluator

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// providerRegistry holds the named native providers available to
// configuration. Providers register themselves from init functions.
//
// Thread-safe: registration happens at startup; reads happen from every evaluator.
var providerRegistry = struct {
	mu       sync.RWMutex
	registry map[string]Provider
}{
	registry: make(map[string]Provider),
}

// RegisterProvider makes p available under name. A later registration
// under the same name replaces the earlier one.
func RegisterProvider(name string, p Provider) {
	providerRegistry.mu.Lock()
	defer providerRegistry.mu.Unlock()
	providerRegistry.registry[name] = p
}

// GetProvider returns the provider registered under name.
func GetProvider(name string) (Provider, bool) {
	providerRegistry.mu.RLock()
	defer providerRegistry.mu.RUnlock()
	p, ok := providerRegistry.registry[name]
	return p, ok
}

// GetAllProviders returns the names of all registered providers, sorted.
func GetAllProviders() []string {
	providerRegistry.mu.RLock()
	defer providerRegistry.mu.RUnlock()
	names := make([]string, 0, len(providerRegistry.registry))
	for name := range providerRegistry.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveProviders looks up each name in order.
func ResolveProviders(names []string) ([]Provider, error) {
	out := make([]Provider, 0, len(names))
	for _, name := range names {
		p, ok := GetProvider(name)
		if !ok {
			return nil, fmt.Errorf("native provider %q is not registered (known: %s)", name, strings.Join(GetAllProviders(), ", "))
		}
		out = append(out, p)
	}
	return out, nil
}

// UnregisterProvider removes a provider. Used for testing.
func UnregisterProvider(name string) {
	providerRegistry.mu.Lock()
	defer providerRegistry.mu.Unlock()
	delete(providerRegistry.registry, name)
}
