//go:build unit

package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/infrastructure/repositories/github"
	"github.com/rios0rios0/gemupdate/test/domain/entitybuilders"
)

func apiServer(t *testing.T, handler http.HandlerFunc) *github.GitHubProviderRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	return github.NewGitHubProviderRepositoryWithBaseURL("token", baseURL)
}

func TestGitHubProviderRepository(t *testing.T) {
	t.Parallel()

	t.Run("should return github as its name", func(t *testing.T) {
		t.Parallel()
		// given
		p := github.NewGitHubProviderRepository("token")

		// when
		name := p.Name()

		// then
		assert.Equal(t, "github", name)
	})

	t.Run("MatchesURL", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			url      string
			expected bool
		}{
			{name: "should match HTTPS GitHub URL", url: "https://github.com/org/repo.git", expected: true},
			{name: "should match SSH GitHub URL", url: "git@github.com:org/repo.git", expected: true},
			{name: "should not match GitLab URL", url: "https://gitlab.com/org/repo.git", expected: false},
			{name: "should not match Azure DevOps URL", url: "https://dev.azure.com/org/project/_git/repo", expected: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				// given
				p := github.NewGitHubProviderRepository("token")

				// when
				result := p.MatchesURL(tt.url)

				// then
				assert.Equal(t, tt.expected, result)
			})
		}
	})

	t.Run("should open a pull request with short branch names", func(t *testing.T) {
		t.Parallel()
		// given
		var received map[string]interface{}
		p := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/repos/acme/shop/pulls", r.URL.Path)
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"number":12,"title":"update ` + "`rack`" + `","html_url":"https://github.com/acme/shop/pull/12","state":"open"}`))
		})
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		pr, err := p.CreatePullRequest(context.Background(), repo, entities.PullRequestInput{
			SourceBranch: "refs/heads/update_rack",
			TargetBranch: "refs/heads/main",
			Title:        "update `rack`",
			Description:  "Updates `rack`.",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, 12, pr.ID)
		assert.Equal(t, "https://github.com/acme/shop/pull/12", pr.URL)
		assert.Equal(t, "update_rack", received["head"])
		assert.Equal(t, "main", received["base"])
		assert.Equal(t, "Updates `rack`.", received["body"])
	})

	t.Run("should surface an API rejection", func(t *testing.T) {
		t.Parallel()
		// given
		p := apiServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
		})
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		pr, err := p.CreatePullRequest(context.Background(), repo, entities.PullRequestInput{
			SourceBranch: "refs/heads/update_rack",
			TargetBranch: "refs/heads/main",
		})

		// then
		require.Error(t, err)
		assert.Nil(t, pr)
	})

	t.Run("should find an open pull request by head branch", func(t *testing.T) {
		t.Parallel()
		// given
		p := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/acme/shop/pulls", r.URL.Path)
			assert.Equal(t, "acme:update_rack", r.URL.Query().Get("head"))
			assert.Equal(t, "open", r.URL.Query().Get("state"))
			_, _ = w.Write([]byte(`[{"number":3}]`))
		})
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		exists, err := p.PullRequestExists(context.Background(), repo, "update_rack")

		// then
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("should report no pull request for an empty list", func(t *testing.T) {
		t.Parallel()
		// given
		p := apiServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		repo := entitybuilders.NewRepositoryBuilder().BuildRepository()

		// when
		exists, err := p.PullRequestExists(context.Background(), repo, "refs/heads/update_rack")

		// then
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
