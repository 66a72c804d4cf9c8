//go:build unit

package azuredevops

//nolint:gochecknoglobals // test export
var NewAzureDevOpsProviderRepositoryWithBaseURL = newAzureDevOpsProviderRepository
