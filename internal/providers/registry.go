package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AAlexDing/astrbot-plugin-LLMTrigger/internal/config"
)

// Registry holds named provider instances. Triggers resolve providers by
// name at execution time, so registration may happen after trigger
// definitions are parsed.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces a provider under the given name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Lookup returns the provider registered under name, if any.
func (r *Registry) Lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns all registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRegistry constructs a Registry from configuration. Each entry's
// Type selects the client implementation; "openai" also covers any
// OpenAI-compatible API reachable through BaseURL.
func BuildRegistry(cfgs map[string]config.ProviderConfig) (*Registry, error) {
	r := NewRegistry()
	for name, pc := range cfgs {
		switch pc.Type {
		case "openai", "":
			r.Register(name, NewOpenAICompatProvider(pc.APIKey, pc.BaseURL, pc.Model))
		case "anthropic":
			r.Register(name, NewAnthropicProvider(pc.APIKey, pc.Model))
		default:
			return nil, fmt.Errorf("provider %q: unknown type %q", name, pc.Type)
		}
	}
	return r, nil
}
