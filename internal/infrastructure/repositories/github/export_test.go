//go:build unit

package github

//nolint:gochecknoglobals // test export
var NewGitHubProviderRepositoryWithBaseURL = newGitHubProviderRepository
