package repositories

import (
	"fmt"
	"sort"
	"strings"

	domainRepos "github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// ProviderFactory builds a provider authenticated with token.
type ProviderFactory func(token string) domainRepos.ProviderRepository

// ProviderRegistry maps provider names to factories and keeps one client
// per name and token for the lifetime of a run.
type ProviderRegistry struct {
	factories map[string]ProviderFactory
	instances map[string]domainRepos.ProviderRepository
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
		instances: make(map[string]domainRepos.ProviderRepository),
	}
}

// Register adds a factory under name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.factories[name] = factory
}

// Get returns the provider registered under name, authenticated with
// token. Repeated calls with the same pair share one instance.
func (r *ProviderRegistry) Get(name, token string) (domainRepos.ProviderRepository, error) {
	key := name + "\x00" + token
	if provider, ok := r.instances[key]; ok {
		return provider, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	provider := factory(token)
	r.instances[key] = provider
	return provider, nil
}

// Detect returns the name of the provider whose MatchesURL accepts
// remoteURL. Providers are tried in name order with an empty token.
func (r *ProviderRegistry) Detect(remoteURL string) (string, error) {
	for _, name := range r.Names() {
		provider, err := r.Get(name, "")
		if err != nil {
			return "", err
		}
		if provider.MatchesURL(remoteURL) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no provider matches remote %q (known: %s)", remoteURL, strings.Join(r.Names(), ", "))
}

// Names returns the sorted list of registered provider names.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
