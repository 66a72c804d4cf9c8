//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
)

// CandidateBuilder helps create test upgrade candidates with a fluent interface.
type CandidateBuilder struct {
	*testkit.BaseBuilder
	name      string
	severity  entities.Severity
	score     int
	newest    string
	installed string
}

// NewCandidateBuilder creates a new candidate builder with sensible defaults.
func NewCandidateBuilder() *CandidateBuilder {
	return &CandidateBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "rack",
		severity:    entities.SeverityPatch,
		score:       1,
		newest:      "2.2.9",
		installed:   "2.2.8",
	}
}

// WithName sets the gem name.
func (b *CandidateBuilder) WithName(name string) *CandidateBuilder {
	b.name = name
	return b
}

// WithSeverity sets the tier the gem was reported under.
func (b *CandidateBuilder) WithSeverity(severity entities.Severity) *CandidateBuilder {
	b.severity = severity
	return b
}

// WithScore sets the staleness score.
func (b *CandidateBuilder) WithScore(score int) *CandidateBuilder {
	b.score = score
	return b
}

// WithVersions sets the installed and newest versions and derives the score.
func (b *CandidateBuilder) WithVersions(installed, newest string) *CandidateBuilder {
	b.installed = installed
	b.newest = newest
	b.score = entities.StalenessScore(newest, installed)
	return b
}

// Build creates the candidate (satisfies testkit.Builder interface).
func (b *CandidateBuilder) Build() interface{} {
	return b.BuildCandidate()
}

// BuildCandidate creates the candidate with a concrete return type.
func (b *CandidateBuilder) BuildCandidate() entities.UpgradeCandidate {
	return entities.UpgradeCandidate{
		Name:           b.name,
		Severity:       b.severity,
		StalenessScore: b.score,
		Newest:         b.newest,
		Installed:      b.installed,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CandidateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "rack"
	b.severity = entities.SeverityPatch
	b.score = 1
	b.newest = "2.2.9"
	b.installed = "2.2.8"
	return b
}

// Clone creates a deep copy of the CandidateBuilder.
func (b *CandidateBuilder) Clone() testkit.Builder {
	return &CandidateBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		severity:    b.severity,
		score:       b.score,
		newest:      b.newest,
		installed:   b.installed,
	}
}
