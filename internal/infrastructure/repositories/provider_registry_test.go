//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/gemupdate/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/gemupdate/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/gemupdate/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should build the provider with the given token", func(t *testing.T) {
		t.Parallel()
		// given
		var received string
		registry := infraRepos.NewProviderRegistry()
		registry.Register("github", func(token string) domainRepos.ProviderRepository {
			received = token
			return &doubles.SpyProviderRepository{ProviderName: "github"}
		})

		// when
		provider, err := registry.Get("github", "secret")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github", provider.Name())
		assert.Equal(t, "secret", received)
	})

	t.Run("should list the known providers for an unknown name", func(t *testing.T) {
		t.Parallel()
		// given
		registry := infraRepos.NewProviderRegistry()
		registry.Register("gitlab", func(string) domainRepos.ProviderRepository { return &doubles.DummyProviderRepository{} })
		registry.Register("github", func(string) domainRepos.ProviderRepository { return &doubles.DummyProviderRepository{} })

		// when
		_, err := registry.Get("bitbucket", "secret")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "github, gitlab")
		assert.Equal(t, []string{"github", "gitlab"}, registry.Names())
	})
}

func TestProviderRegistryCaching(t *testing.T) {
	t.Parallel()

	t.Run("should share one instance per name and token", func(t *testing.T) {
		t.Parallel()
		// given
		builds := 0
		registry := infraRepos.NewProviderRegistry()
		registry.Register("github", func(string) domainRepos.ProviderRepository {
			builds++
			return &doubles.SpyProviderRepository{ProviderName: "github"}
		})

		// when
		first, _ := registry.Get("github", "a")
		second, _ := registry.Get("github", "a")
		_, _ = registry.Get("github", "b")

		// then
		assert.Same(t, first, second)
		assert.Equal(t, 2, builds)
	})
}

func TestProviderRegistryDetect(t *testing.T) {
	t.Parallel()

	// given
	registry := infraRepos.NewProviderRegistry()
	registry.Register("github", func(string) domainRepos.ProviderRepository {
		return &doubles.SpyProviderRepository{ProviderName: "github", URLPattern: "github.com"}
	})
	registry.Register("gitlab", func(string) domainRepos.ProviderRepository {
		return &doubles.SpyProviderRepository{ProviderName: "gitlab", URLPattern: "gitlab.com"}
	})

	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{name: "should detect an SSH GitHub remote", url: "git@github.com:acme/shop.git", expected: "github"},
		{name: "should detect an HTTPS GitLab remote", url: "https://gitlab.com/acme/shop.git", expected: "gitlab"},
		{name: "should reject an unknown host", url: "https://bitbucket.org/acme/shop.git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { //nolint:paralleltest // shared registry
			// when
			name, err := registry.Detect(tt.url)

			// then
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}
