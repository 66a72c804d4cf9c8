package entities

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionChange is the old and new pinned version of one dependency, read
// from a lock file diff.
type VersionChange struct {
	Old string
	New string
}

// IsZero reports whether no version change was found.
func (v VersionChange) IsZero() bool {
	return v.Old == "" && v.New == ""
}

// BumpKind classifies the change as "major", "minor" or "patch". Versions
// that are not semver-like yield an empty string.
func (v VersionChange) BumpKind() string {
	oldVer := canonicalSemver(v.Old)
	newVer := canonicalSemver(v.New)
	if !semver.IsValid(oldVer) || !semver.IsValid(newVer) {
		return ""
	}
	switch {
	case semver.Major(oldVer) != semver.Major(newVer):
		return string(SeverityMajor)
	case semver.MajorMinor(oldVer) != semver.MajorMinor(newVer):
		return string(SeverityMinor)
	default:
		return string(SeverityPatch)
	}
}

// canonicalSemver turns a gem version ("7.1.3", "7.1") into the "v"-prefixed
// form semver expects. Gem pre-release markers ("7.1.0.rc1") are not semver
// and are left invalid on purpose.
func canonicalSemver(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}

// ExtractVersionChange finds the removed and added lines of the named gem
// in a unified lock file diff. Only resolved gem lines (four spaces of
// indentation) count; requirement lines nested under other gems are
// ignored. The pair "-    rack (2.2.8)" and "+    rack (3.0.9)" yields
// Old 2.2.8 and New 3.0.9.
func ExtractVersionChange(diff, name string) VersionChange {
	pattern := regexp.MustCompile(
		`^([-+]) {4}` + regexp.QuoteMeta(name) + ` \(([^)]+)\)\s*$`,
	)

	change := VersionChange{}
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if match[1] == "-" && change.Old == "" {
			change.Old = match[2]
		}
		if match[1] == "+" && change.New == "" {
			change.New = match[2]
		}
	}
	return change
}

// CompareURL builds a hosted "compare" link between two release tags of a
// dependency source repository. Only GitHub and GitLab hosted sources get a
// link; anything else returns an empty string.
func CompareURL(sourceURI string, change VersionChange) string {
	if sourceURI == "" || change.Old == "" || change.New == "" {
		return ""
	}

	parsed, err := url.Parse(strings.TrimSpace(sourceURI))
	if err != nil || parsed.Host == "" {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) < 2 { //nolint:mnd // owner + repo
		return ""
	}
	repoPath := segments[0] + "/" + strings.TrimSuffix(segments[1], ".git")

	switch strings.TrimPrefix(parsed.Host, "www.") {
	case "github.com":
		return fmt.Sprintf("https://github.com/%s/compare/v%s...v%s", repoPath, change.Old, change.New)
	case "gitlab.com":
		return fmt.Sprintf("https://gitlab.com/%s/-/compare/v%s...v%s", repoPath, change.Old, change.New)
	default:
		return ""
	}
}

// ProposalDescription renders the body of the pull request opened for a
// candidate.
func ProposalDescription(candidate UpgradeCandidate, sourceURI string, change VersionChange) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Updates `%s`", candidate.Name))
	if !change.IsZero() {
		sb.WriteString(fmt.Sprintf(" from `%s` to `%s`", change.Old, change.New))
		if kind := change.BumpKind(); kind != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", kind))
		}
	}
	sb.WriteString(".\n\n")

	if sourceURI != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n", sourceURI))
	}
	if compare := CompareURL(sourceURI, change); compare != "" {
		sb.WriteString(fmt.Sprintf("Compare: %s\n", compare))
	}

	sb.WriteString("\n---\n")
	sb.WriteString("*This PR was automatically created by gemupdate*\n")
	return sb.String()
}
