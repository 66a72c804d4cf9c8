package entities

import "fmt"

// Severity is the version-bump tier a dependency was reported under.
type Severity string

const (
	SeverityPatch Severity = "patch"
	SeverityMinor Severity = "minor"
	SeverityMajor Severity = "major"
)

// Severities returns the tiers in scan order. Earlier tiers win when the
// same dependency shows up more than once.
func Severities() []Severity {
	return []Severity{SeverityPatch, SeverityMinor, SeverityMajor}
}

// ParseSeverity converts a tier name into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	for _, s := range Severities() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q (expected patch, minor or major)", raw)
}

// UpgradeCandidate is one outdated dependency found in a severity tier.
type UpgradeCandidate struct {
	Name           string
	Severity       Severity
	StalenessScore int
	Newest         string // newest version reported by the dependency manager
	Installed      string // version currently pinned in the lock file
}

// BranchName is the working branch used to update this candidate.
func (c UpgradeCandidate) BranchName() string {
	return BranchNameFor(c.Name)
}

// BranchNameFor derives the update branch for a dependency.
func BranchNameFor(name string) string {
	return "update_" + name
}

// CommitMessage is the message used for the upgrade commit and the proposal title.
func (c UpgradeCandidate) CommitMessage() string {
	return fmt.Sprintf("update `%s`", c.Name)
}
