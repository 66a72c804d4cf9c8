package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository, PullRequest and PullRequestInput are the gitforge entities
// shared by every provider. DefaultBranch is kept as a full ref
// ("refs/heads/main"); branch inputs may be short names or full refs.
type (
	Repository       = gitforgeEntities.Repository
	PullRequest      = gitforgeEntities.PullRequest
	PullRequestInput = gitforgeEntities.PullRequestInput
)
