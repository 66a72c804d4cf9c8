//go:build unit

package gitlab

//nolint:gochecknoglobals // test export
var NewGitLabProviderRepositoryWithOptions = newGitLabProviderRepository
