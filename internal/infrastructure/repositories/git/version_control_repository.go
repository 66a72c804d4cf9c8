package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	formatcfg "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const (
	remoteName   = "origin"
	dirFileMode  = 0o755
	fetchRefSpec = "+refs/heads/*:refs/remotes/origin/*"
)

// host describes how a code hosting platform is reached over HTTPS and SSH.
type host struct {
	provider string
	https    string
	ssh      string
}

//nolint:gochecknoglobals // fixed host table
var knownHosts = []host{
	{provider: entities.ProviderGitHub, https: "https://github.com/", ssh: "git@github.com:"},
	{provider: entities.ProviderGitLab, https: "https://gitlab.com/", ssh: "git@gitlab.com:"},
	{provider: entities.ProviderAzureDevOps, https: "https://dev.azure.com/", ssh: "git@ssh.dev.azure.com:v3/"},
}

// VersionControlRepository clones and fetches with go-git and hands out
// working trees that shell out to the git binary for everything go-git
// cannot do (merges, path checkouts, diffs).
type VersionControlRepository struct {
	runner   repositories.ProcessRunner
	provider string
	token    string
}

// NewVersionControlRepository creates a VersionControlRepository.
func NewVersionControlRepository(runner repositories.ProcessRunner) *VersionControlRepository {
	return &VersionControlRepository{runner: runner}
}

var _ repositories.VersionControlRepository = (*VersionControlRepository)(nil)

// Configure writes an isolated global git config holding the commit
// identity and the remote rewrites, and points every later git command at
// it through GIT_CONFIG_GLOBAL. The user's own global config is carried
// over when readable.
func (r *VersionControlRepository) Configure(
	_ context.Context,
	identity repositories.GitIdentity,
	providerType, token string,
) (func(), error) {
	cfg := formatcfg.New()
	if home, err := os.UserHomeDir(); err == nil {
		if existing, openErr := os.Open(filepath.Join(home, ".gitconfig")); openErr == nil {
			if decodeErr := formatcfg.NewDecoder(existing).Decode(cfg); decodeErr != nil {
				logger.Warnf("Ignoring unreadable ~/.gitconfig: %v", decodeErr)
				cfg = formatcfg.New()
			}
			_ = existing.Close()
		}
	}

	applyGitSettings(cfg, identity, providerType, token)

	file, err := os.CreateTemp("", "gemupdate-gitconfig-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp git config: %w", err)
	}
	encodeErr := formatcfg.NewEncoder(file).Encode(cfg)
	closeErr := file.Close()
	if err = errors.Join(encodeErr, closeErr); err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("failed to write temp git config: %w", err)
	}

	r.provider = providerType
	r.token = token
	r.runner.Setenv("GIT_CONFIG_GLOBAL", file.Name())
	r.runner.Setenv("GIT_TERMINAL_PROMPT", "0")

	if token == "" {
		logger.Warn("No auth token configured, remotes are accessed anonymously")
	}

	return func() {
		r.runner.Setenv("GIT_CONFIG_GLOBAL", "")
		if removeErr := os.Remove(file.Name()); removeErr != nil {
			logger.Debugf("Failed to remove %s: %v", file.Name(), removeErr)
		}
	}, nil
}

// applyGitSettings sets the commit identity and rewrites SSH remotes to
// HTTPS. The configured provider's host gets the token embedded; the other
// hosts are rewritten to anonymous HTTPS.
func applyGitSettings(cfg *formatcfg.Config, identity repositories.GitIdentity, providerType, token string) {
	cfg.Section("user").
		SetOption("name", identity.Name).
		SetOption("email", identity.Email)

	for _, h := range knownHosts {
		if token != "" && h.provider == providerType {
			authenticated := strings.Replace(h.https, "https://",
				"https://"+entities.TokenUsername(h.provider)+":"+token+"@", 1)
			cfg.Section("url").Subsection(authenticated).
				AddOption("insteadOf", h.ssh).
				AddOption("insteadOf", h.https)
			continue
		}
		cfg.Section("url").Subsection(h.https).AddOption("insteadOf", h.ssh)
	}
}

// EnsureReady clones the repository when dir holds no checkout, otherwise
// fetches origin. The checked-out files are not touched by a fetch.
func (r *VersionControlRepository) EnsureReady(
	ctx context.Context,
	repo entities.Repository,
	dir string,
) (repositories.WorkingTree, error) {
	existing, err := gogit.PlainOpen(dir)
	switch {
	case err == nil:
		logger.Infof("Fetching %s in %s", repo.RemoteURL, dir)
		fetchErr := existing.FetchContext(ctx, &gogit.FetchOptions{
			RemoteName: remoteName,
			RefSpecs:   []gitconfig.RefSpec{fetchRefSpec},
			Auth:       r.auth(repo.ProviderName),
			Prune:      true,
		})
		if fetchErr != nil && !errors.Is(fetchErr, gogit.NoErrAlreadyUpToDate) {
			return nil, fmt.Errorf("failed to fetch %s: %w", repo.RemoteURL, fetchErr)
		}
		return newWorkingTree(dir, existing, r.runner), nil

	case errors.Is(err, gogit.ErrRepositoryNotExists):
		logger.Infof("Cloning %s into %s", repo.RemoteURL, dir)
		if mkdirErr := os.MkdirAll(filepath.Dir(dir), dirFileMode); mkdirErr != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(dir), mkdirErr)
		}
		cloned, cloneErr := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
			URL:        repo.RemoteURL,
			RemoteName: remoteName,
			Auth:       r.auth(repo.ProviderName),
		})
		if cloneErr != nil {
			return nil, fmt.Errorf("failed to clone %s: %w", repo.RemoteURL, cloneErr)
		}
		return newWorkingTree(dir, cloned, r.runner), nil

	default:
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
}

// Open returns a handle on the checkout containing dir.
func (r *VersionControlRepository) Open(_ context.Context, dir string) (repositories.WorkingTree, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%s has no working tree: %w", dir, err)
	}
	return newWorkingTree(worktree.Filesystem.Root(), repo, r.runner), nil
}

func (r *VersionControlRepository) auth(providerType string) transport.AuthMethod {
	if r.token == "" || (providerType != "" && providerType != r.provider) {
		return nil
	}
	return &githttp.BasicAuth{
		Username: entities.TokenUsername(providerType),
		Password: r.token,
	}
}
