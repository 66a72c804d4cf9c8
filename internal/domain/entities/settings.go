package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLimit         = 2
	DefaultProposalDelay = 5 * time.Second
	DefaultMetadataURL   = "https://rubygems.org"

	defaultGitUserName  = "gemupdate[bot]"
	defaultGitUserEmail = "gemupdate[bot]@users.noreply.github.com"

	envPrefix = "GEMUPDATE_"
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings is the configuration of a run. It is built once by NewSettings
// and handed down explicitly; nothing reads configuration from globals.
type Settings struct {
	Token        string              `yaml:"token"          hcl:"token,optional"`
	Provider     string              `yaml:"provider"       hcl:"provider,optional"`
	Limit        int                 `yaml:"limit"          hcl:"limit,optional"`
	Repositories []string            `yaml:"repositories"   hcl:"repositories,optional"`
	Projects     map[string][]string `yaml:"projects"       hcl:"projects,optional"`
	WorkDir      string              `yaml:"work_dir"       hcl:"work_dir,optional"`
	GitUserName  string              `yaml:"git_user_name"  hcl:"git_user_name,optional"`
	GitUserEmail string              `yaml:"git_user_email" hcl:"git_user_email,optional"`
	Delay        string              `yaml:"proposal_delay" hcl:"proposal_delay,optional"`
	Changelog    bool                `yaml:"changelog"      hcl:"changelog,optional"`
	MetadataURL  string              `yaml:"metadata_url"   hcl:"metadata_url,optional"`

	ProposalDelay time.Duration `yaml:"-"`

	warnings []*ConfigurationWarning
}

// NewSettings loads the configuration file at path (YAML, or HCL when the
// extension is .hcl), then applies GEMUPDATE_* environment overrides. An
// empty path means environment only. A .env file in the working directory
// is loaded first when present. Missing values are reported through
// Warnings, not as errors.
func NewSettings(path string) (*Settings, error) {
	_ = godotenv.Load()

	settings := &Settings{}
	if path != "" {
		if err := settings.decodeFile(path); err != nil {
			return nil, err
		}
	}

	settings.Token = resolveToken(settings.Token)
	settings.applyEnv()
	settings.applyDefaults()
	settings.validate()

	return settings, nil
}

func (s *Settings) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		if decodeErr := hclsimple.Decode(filepath.Base(path), data, nil, s); decodeErr != nil {
			return fmt.Errorf("failed to parse config file: %w", decodeErr)
		}
		return nil
	}

	if unmarshalErr := yaml.Unmarshal(data, s); unmarshalErr != nil {
		return fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	return nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(envPrefix + "TOKEN"); v != "" {
		s.Token = v
	}
	if v := os.Getenv(envPrefix + "PROVIDER"); v != "" {
		s.Provider = v
	}
	if v := os.Getenv(envPrefix + "LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			s.warn(envPrefix+"LIMIT", fmt.Sprintf("%q is not a number, keeping %d", v, s.Limit))
		} else {
			s.Limit = limit
		}
	}
	if v := os.Getenv(envPrefix + "REPOS"); v != "" {
		s.Repositories = strings.Fields(v)
	}
	if v := os.Getenv(envPrefix + "PROJECTS"); v != "" {
		s.Projects = ParseProjectPairs(v)
	}
	if v := os.Getenv(envPrefix + "WORKDIR"); v != "" {
		s.WorkDir = v
	}
	if v := os.Getenv(envPrefix + "DELAY"); v != "" {
		s.Delay = v
	}
	if v := os.Getenv(envPrefix + "CHANGELOG"); v != "" {
		s.Changelog = v == "true" || v == "1"
	}
	if v := os.Getenv(envPrefix + "METADATA_URL"); v != "" {
		s.MetadataURL = v
	}
	if v := os.Getenv(envPrefix + "GIT_USER_NAME"); v != "" {
		s.GitUserName = v
	}
	if v := os.Getenv(envPrefix + "GIT_USER_EMAIL"); v != "" {
		s.GitUserEmail = v
	}
}

func (s *Settings) applyDefaults() {
	if s.Provider == "" {
		s.Provider = ProviderGitHub
	}
	if s.Token == "" {
		s.Token = TokenFromEnv(s.Provider)
	}
	if s.Limit <= 0 {
		if s.Limit < 0 {
			s.warn("limit", fmt.Sprintf("%d is not a valid limit, using %d", s.Limit, DefaultLimit))
		}
		s.Limit = DefaultLimit
	}
	if s.WorkDir == "" {
		s.WorkDir = defaultWorkDir()
	}
	if s.GitUserName == "" {
		s.GitUserName = defaultGitUserName
	}
	if s.GitUserEmail == "" {
		s.GitUserEmail = defaultGitUserEmail
	}
	if s.MetadataURL == "" {
		s.MetadataURL = DefaultMetadataURL
	}

	s.ProposalDelay = DefaultProposalDelay
	if s.Delay != "" {
		delay, err := time.ParseDuration(s.Delay)
		if err != nil || delay < 0 {
			s.warn("proposal_delay", fmt.Sprintf("%q is not a valid duration, using %s", s.Delay, DefaultProposalDelay))
		} else {
			s.ProposalDelay = delay
		}
	}
}

func (s *Settings) validate() {
	if s.Token == "" {
		s.warn("token", fmt.Sprintf(
			"no auth token configured; set %sTOKEN or %s", envPrefix, TokenEnvHint(s.Provider),
		))
	}
	if len(s.Repositories) == 0 {
		s.warn("repositories", fmt.Sprintf("no repositories configured; set %sREPOS", envPrefix))
	}
}

func (s *Settings) warn(setting, message string) {
	s.warnings = append(s.warnings, &ConfigurationWarning{Setting: setting, Message: message})
}

// OverrideToken replaces the token with one given on the command line and
// drops the missing-token warning it answers. An empty token is ignored.
func (s *Settings) OverrideToken(token string) {
	if token == "" {
		return
	}
	s.Token = token

	kept := s.warnings[:0]
	for _, warning := range s.warnings {
		if warning.Setting != "token" {
			kept = append(kept, warning)
		}
	}
	s.warnings = kept
}

// Warnings returns the configuration problems found while loading.
func (s *Settings) Warnings() []*ConfigurationWarning {
	return s.warnings
}

// ProjectsFor returns the subproject paths configured for a repository
// entry. An empty result means the repository root is the only project.
func (s *Settings) ProjectsFor(repository string) []string {
	return s.Projects[repository]
}

// UpdateOptions derives the workflow options from the settings.
func (s *Settings) UpdateOptions(dryRun bool) UpdateOptions {
	return UpdateOptions{
		DryRun:        dryRun,
		Limit:         s.Limit,
		ProposalDelay: s.ProposalDelay,
		Changelog:     s.Changelog,
		MetadataURL:   s.MetadataURL,
	}
}

// ParseProjectPairs reads space separated "repo:subproject" pairs. The last
// colon splits the pair so that SSH remotes can be used as repo keys.
// Malformed pairs are dropped.
func ParseProjectPairs(raw string) map[string][]string {
	projects := make(map[string][]string)
	for _, pair := range strings.Fields(raw) {
		idx := strings.LastIndex(pair, ":")
		if idx <= 0 || idx == len(pair)-1 {
			logger.Warnf("Ignoring malformed project entry %q (expected repo:subproject)", pair)
			continue
		}
		repo, project := pair[:idx], pair[idx+1:]
		projects[repo] = append(projects[repo], project)
	}
	return projects
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", "configs"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	patterns := []string{
		".gemupdate.yaml",
		".gemupdate.yml",
		"gemupdate.yaml",
		"gemupdate.yml",
		"gemupdate.hcl",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands ${ENV_VAR} references and, if the result is the path
// of an existing file, reads the token from that file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func defaultWorkDir() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "gemupdate")
	}
	return "repos"
}
