package entities

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ProviderGitHub      = "github"
	ProviderGitLab      = "gitlab"
	ProviderAzureDevOps = "azuredevops"

	defaultBranchRef = "refs/heads/main"
)

// RemoteInfo holds the parsed components of a Git remote URL.
type RemoteInfo struct {
	ProviderType string
	Org          string
	Project      string // Azure DevOps only
	RepoName     string
}

// ParseRemoteURL extracts provider, org, project and repo name from a Git
// remote URL (SSH or HTTPS form).
func ParseRemoteURL(rawURL string) (*RemoteInfo, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")

	if strings.Contains(cleaned, "dev.azure.com") {
		return parseAzureDevOpsURL(cleaned)
	}

	for _, host := range []struct{ domain, provider string }{
		{"github.com", ProviderGitHub},
		{"gitlab.com", ProviderGitLab},
	} {
		if !strings.Contains(cleaned, host.domain) {
			continue
		}
		org, name, err := parseStandardGitURL(cleaned, host.domain)
		if err != nil {
			return nil, err
		}
		return &RemoteInfo{ProviderType: host.provider, Org: org, RepoName: name}, nil
	}

	return nil, fmt.Errorf("unsupported git remote URL: %s", rawURL)
}

func parseAzureDevOpsURL(url string) (*RemoteInfo, error) {
	if strings.HasPrefix(url, "git@") {
		_, pathPart, found := strings.Cut(url, ":v3/")
		parts := strings.Split(pathPart, "/")
		if !found || len(parts) < 3 { //nolint:mnd // org/project/repo
			return nil, fmt.Errorf("invalid Azure DevOps SSH URL: %s", url)
		}
		return &RemoteInfo{
			ProviderType: ProviderAzureDevOps,
			Org:          parts[0],
			Project:      parts[1],
			RepoName:     parts[2],
		}, nil
	}

	parts := strings.Split(url, "/")
	for i, p := range parts {
		if p == "_git" && i+1 < len(parts) && i >= 2 {
			return &RemoteInfo{
				ProviderType: ProviderAzureDevOps,
				Org:          parts[i-2],
				Project:      parts[i-1],
				RepoName:     parts[i+1],
			}, nil
		}
	}

	return nil, fmt.Errorf("invalid Azure DevOps URL: %s", url)
}

// parseStandardGitURL splits "git@host:org/repo" and "https://host/org/repo"
// into org and repo. GitLab subgroups stay part of the org.
func parseStandardGitURL(url, hostname string) (string, string, error) {
	var pathPart string

	if strings.HasPrefix(url, "git@") {
		_, after, ok := strings.Cut(url, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid SSH URL: %s", url)
		}
		pathPart = after
	} else {
		_, after, ok := strings.Cut(url, hostname)
		if !ok {
			return "", "", fmt.Errorf("hostname %s not found in URL: %s", hostname, url)
		}
		pathPart = strings.TrimPrefix(after, "/")
	}

	pathPart = strings.Trim(pathPart, "/")
	idx := strings.LastIndex(pathPart, "/")
	if idx <= 0 || idx == len(pathPart)-1 {
		return "", "", fmt.Errorf("cannot extract org/repo from URL: %s", url)
	}

	return pathPart[:idx], pathPart[idx+1:], nil
}

// ParseRepositoryEntry turns a configured repository into a Repository. An
// entry is either a remote URL or a slug: "org/repo" for GitHub and GitLab,
// "org/project/repo" for Azure DevOps.
func ParseRepositoryEntry(entry, defaultProvider string) (Repository, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return Repository{}, errors.New("empty repository entry")
	}

	var remote *RemoteInfo
	if strings.Contains(entry, "://") || strings.HasPrefix(entry, "git@") {
		parsed, err := ParseRemoteURL(entry)
		if err != nil {
			return Repository{}, err
		}
		remote = parsed
	} else {
		parsed, err := parseSlug(entry, defaultProvider)
		if err != nil {
			return Repository{}, err
		}
		remote = parsed
	}

	return Repository{
		ID:            remote.RepoName,
		Name:          remote.RepoName,
		Organization:  remote.Org,
		Project:       remote.Project,
		DefaultBranch: defaultBranchRef,
		RemoteURL:     HTTPSRemoteURL(remote),
		ProviderName:  remote.ProviderType,
	}, nil
}

func parseSlug(slug, provider string) (*RemoteInfo, error) {
	if provider == "" {
		provider = ProviderGitHub
	}
	parts := strings.Split(strings.Trim(slug, "/"), "/")

	if provider == ProviderAzureDevOps {
		if len(parts) != 3 { //nolint:mnd // org/project/repo
			return nil, fmt.Errorf("invalid Azure DevOps repository %q, expected org/project/repo", slug)
		}
		return &RemoteInfo{ProviderType: provider, Org: parts[0], Project: parts[1], RepoName: parts[2]}, nil
	}

	if len(parts) < 2 { //nolint:mnd // org + repo
		return nil, fmt.Errorf("invalid repository %q, expected org/repo", slug)
	}
	return &RemoteInfo{
		ProviderType: provider,
		Org:          strings.Join(parts[:len(parts)-1], "/"),
		RepoName:     parts[len(parts)-1],
	}, nil
}

// HTTPSRemoteURL returns the anonymous HTTPS clone URL of a remote.
func HTTPSRemoteURL(remote *RemoteInfo) string {
	switch remote.ProviderType {
	case ProviderAzureDevOps:
		return fmt.Sprintf("https://dev.azure.com/%s/%s/_git/%s", remote.Org, remote.Project, remote.RepoName)
	case ProviderGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s.git", remote.Org, remote.RepoName)
	default:
		return fmt.Sprintf("https://github.com/%s/%s.git", remote.Org, remote.RepoName)
	}
}

// TokenUsername is the HTTPS user name a provider expects next to a token.
func TokenUsername(providerType string) string {
	switch providerType {
	case ProviderGitLab:
		return "oauth2"
	case ProviderAzureDevOps:
		return "pat"
	default:
		return "x-access-token"
	}
}

// TokenFromEnv looks up the conventional token variables of a provider.
func TokenFromEnv(providerType string) string {
	var names []string
	switch providerType {
	case ProviderGitHub:
		names = []string{"GITHUB_TOKEN", "GH_TOKEN"}
	case ProviderAzureDevOps:
		names = []string{"AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"}
	case ProviderGitLab:
		names = []string{"GITLAB_TOKEN", "GL_TOKEN"}
	}
	for _, name := range names {
		if t := os.Getenv(name); t != "" {
			return t
		}
	}
	return ""
}

// TokenEnvHint names the variables TokenFromEnv reads, for error messages.
func TokenEnvHint(providerType string) string {
	switch providerType {
	case ProviderGitHub:
		return "GITHUB_TOKEN or GH_TOKEN"
	case ProviderAzureDevOps:
		return "AZURE_DEVOPS_EXT_PAT or SYSTEM_ACCESSTOKEN"
	case ProviderGitLab:
		return "GITLAB_TOKEN or GL_TOKEN"
	default:
		return "<unknown provider>"
	}
}
