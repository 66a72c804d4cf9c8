//go:build unit

package entities_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/test/domain/entitybuilders"
)

const bundlerOutdatedReport = `Fetching gem metadata from https://rubygems.org/.........
Resolving dependencies...

Outdated gems included in the bundle:
  * foo (newest 1.2.10, installed 1.1.0, requested ~> 1.1)
  * bar (newest 2.0.1, installed 2.0.0)
  * nokogiri (newest 1.16.2 x86_64-linux, installed 1.15.5 x86_64-linux)
`

func TestParseOutdatedReport(t *testing.T) {
	t.Parallel()

	t.Run("should parse every candidate line of a bundler report", func(t *testing.T) {
		t.Parallel()
		// given
		report := bundlerOutdatedReport

		// when
		candidates := entities.ParseOutdatedReport(report, entities.SeverityMinor)

		// then
		require.Len(t, candidates, 3)
		assert.Equal(t, entities.UpgradeCandidate{
			Name:           "foo",
			Severity:       entities.SeverityMinor,
			StalenessScore: 1100,
			Newest:         "1.2.10",
			Installed:      "1.1.0",
		}, candidates[0])
		assert.Equal(t, "bar", candidates[1].Name)
		assert.Equal(t, 1, candidates[1].StalenessScore)
		assert.Equal(t, "1.16.2", candidates[2].Newest)
		assert.Equal(t, "1.15.5", candidates[2].Installed)
	})

	t.Run("should parse the parseable report format without bullets", func(t *testing.T) {
		t.Parallel()
		// given
		report := "foo (newest 1.2.10, installed 1.1.0, requested ~> 1.1)\n" +
			"bar (newest 2.0.1, installed 2.0.0)\n"

		// when
		candidates := entities.ParseOutdatedReport(report, entities.SeverityMinor)

		// then
		require.Len(t, candidates, 2)
		assert.Equal(t, entities.UpgradeCandidate{
			Name:           "foo",
			Severity:       entities.SeverityMinor,
			StalenessScore: 1100,
			Newest:         "1.2.10",
			Installed:      "1.1.0",
		}, candidates[0])
		assert.Equal(t, "bar", candidates[1].Name)
	})

	t.Run("should accept lines without leading whitespace", func(t *testing.T) {
		t.Parallel()
		// given
		report := "* rack (newest 3.0.9, installed 2.2.8)"

		// when
		candidates := entities.ParseOutdatedReport(report, entities.SeverityMajor)

		// then
		require.Len(t, candidates, 1)
		assert.Equal(t, "rack", candidates[0].Name)
		assert.Equal(t, entities.SeverityMajor, candidates[0].Severity)
	})

	t.Run("should return an empty slice when nothing is outdated", func(t *testing.T) {
		t.Parallel()
		// given
		report := "Resolving dependencies...\nBundle up to date!\n"

		// when
		candidates := entities.ParseOutdatedReport(report, entities.SeverityPatch)

		// then
		assert.NotNil(t, candidates)
		assert.Empty(t, candidates)
	})

	t.Run("should ignore malformed lines", func(t *testing.T) {
		t.Parallel()
		// given
		report := "  * foo newest 1.0.0\n  * (newest 1.0, installed 0.9)\n"

		// when
		candidates := entities.ParseOutdatedReport(report, entities.SeverityPatch)

		// then
		assert.Empty(t, candidates)
	})
}

func TestStalenessScore(t *testing.T) {
	t.Parallel()

	t.Run("should subtract the dotless versions", func(t *testing.T) {
		t.Parallel()
		// given
		newest, installed := "1.2.10", "1.1.0"

		// when
		score := entities.StalenessScore(newest, installed)

		// then
		assert.Equal(t, 1100, score)
	})

	t.Run("should read only the leading digits of a pre-release version", func(t *testing.T) {
		t.Parallel()
		// given
		newest, installed := "2.0.0.rc1", "1.9.0"

		// when
		score := entities.StalenessScore(newest, installed)

		// then
		assert.Equal(t, 10, score)
	})

	t.Run("should score zero when a version does not start with a digit", func(t *testing.T) {
		t.Parallel()
		// given
		newest, installed := "edge", "1.9.0"

		// when
		score := entities.StalenessScore(newest, installed)

		// then
		assert.Equal(t, 0, score)
	})

	t.Run("should keep the segment-count quirk of the heuristic", func(t *testing.T) {
		t.Parallel()
		// given
		newest, installed := "1.10", "1.9.9"

		// when
		score := entities.StalenessScore(newest, installed)

		// then
		assert.Equal(t, 110-199, score)
	})
}

func TestRankCandidates(t *testing.T) {
	t.Parallel()

	t.Run("should rank foo before bar and drop the later tier duplicate", func(t *testing.T) {
		t.Parallel()
		// given
		patch := []entities.UpgradeCandidate{
			entitybuilders.NewCandidateBuilder().WithName("bar").WithVersions("2.0.0", "2.0.1").BuildCandidate(),
		}
		minor := []entities.UpgradeCandidate{
			entitybuilders.NewCandidateBuilder().
				WithName("foo").WithSeverity(entities.SeverityMinor).WithVersions("1.1.0", "1.2.10").BuildCandidate(),
			entitybuilders.NewCandidateBuilder().
				WithName("bar").WithSeverity(entities.SeverityMinor).WithVersions("2.0.0", "2.1.0").BuildCandidate(),
		}

		// when
		ranked := entities.RankCandidates(patch, minor)

		// then
		require.Len(t, ranked, 2)
		assert.Equal(t, "foo", ranked[0].Name)
		assert.Equal(t, 1100, ranked[0].StalenessScore)
		assert.Equal(t, "bar", ranked[1].Name)
		assert.Equal(t, entities.SeverityPatch, ranked[1].Severity)
	})

	t.Run("should keep scan order between equal scores", func(t *testing.T) {
		t.Parallel()
		// given
		tier := []entities.UpgradeCandidate{
			entitybuilders.NewCandidateBuilder().WithName("a").WithScore(5).BuildCandidate(),
			entitybuilders.NewCandidateBuilder().WithName("b").WithScore(5).BuildCandidate(),
			entitybuilders.NewCandidateBuilder().WithName("c").WithScore(7).BuildCandidate(),
		}

		// when
		ranked := entities.RankCandidates(tier)

		// then
		assert.Equal(t, []string{"c", "a", "b"}, names(ranked))
	})

	t.Run("should return an empty slice for empty tiers", func(t *testing.T) {
		t.Parallel()
		// when
		ranked := entities.RankCandidates(nil, []entities.UpgradeCandidate{})

		// then
		assert.NotNil(t, ranked)
		assert.Empty(t, ranked)
	})
}

func TestLimitCandidates(t *testing.T) {
	t.Parallel()

	candidates := []entities.UpgradeCandidate{
		entitybuilders.NewCandidateBuilder().WithName("a").BuildCandidate(),
		entitybuilders.NewCandidateBuilder().WithName("b").BuildCandidate(),
		entitybuilders.NewCandidateBuilder().WithName("c").BuildCandidate(),
		entitybuilders.NewCandidateBuilder().WithName("d").BuildCandidate(),
		entitybuilders.NewCandidateBuilder().WithName("e").BuildCandidate(),
	}

	t.Run("should keep the first two of five", func(t *testing.T) {
		t.Parallel()
		// when
		limited := entities.LimitCandidates(candidates, 2)

		// then
		assert.Equal(t, []string{"a", "b"}, names(limited))
	})

	t.Run("should keep everything when the limit is larger", func(t *testing.T) {
		t.Parallel()
		// when
		limited := entities.LimitCandidates(candidates, 10)

		// then
		assert.Len(t, limited, 5)
	})

	t.Run("should return nothing for a zero limit", func(t *testing.T) {
		t.Parallel()
		// when
		limited := entities.LimitCandidates(candidates, 0)

		// then
		assert.Empty(t, limited)
	})
}

func TestRankCandidatesProperties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ranked output is sorted by descending score", prop.ForAll(
		func(patch, minor, major []int) bool {
			ranked := entities.RankCandidates(tierOf(patch), tierOf(minor), tierOf(major))
			return sort.SliceIsSorted(ranked, func(i, j int) bool {
				return ranked[i].StalenessScore > ranked[j].StalenessScore
			})
		},
		genScores(), genScores(), genScores(),
	))

	properties.Property("every name appears once and no name is lost", prop.ForAll(
		func(patch, minor, major []int) bool {
			tiers := [][]entities.UpgradeCandidate{tierOf(patch), tierOf(minor), tierOf(major)}
			ranked := entities.RankCandidates(tiers...)

			want := map[string]bool{}
			for _, tier := range tiers {
				for _, candidate := range tier {
					want[candidate.Name] = true
				}
			}
			got := map[string]bool{}
			for _, candidate := range ranked {
				if got[candidate.Name] {
					return false
				}
				got[candidate.Name] = true
			}
			return len(got) == len(want)
		},
		genScores(), genScores(), genScores(),
	))

	properties.Property("the earliest tier wins for duplicated names", prop.ForAll(
		func(patch, minor []int) bool {
			ranked := entities.RankCandidates(
				tierWithSeverity(patch, entities.SeverityPatch),
				tierWithSeverity(minor, entities.SeverityMinor),
			)
			for _, candidate := range ranked {
				index := indexOf(candidate.Name)
				if index < len(patch) && candidate.Severity != entities.SeverityPatch {
					return false
				}
			}
			return true
		},
		genScores(), genScores(),
	))

	properties.Property("a version never scores against itself", prop.ForAll(
		func(major, minor, patch int) bool {
			version := fmt.Sprintf("%d.%d.%d", major, minor, patch)
			return entities.StalenessScore(version, version) == 0
		},
		gen.IntRange(0, 99), gen.IntRange(0, 99), gen.IntRange(0, 99),
	))

	properties.TestingRun(t)
}

// genScores generates one tier worth of scores; the position in the tier
// becomes the gem name, so tiers overlap on their first entries.
func genScores() gopter.Gen {
	return gen.SliceOf(gen.IntRange(-50, 5000))
}

func tierOf(scores []int) []entities.UpgradeCandidate {
	return tierWithSeverity(scores, entities.SeverityPatch)
}

func tierWithSeverity(scores []int, severity entities.Severity) []entities.UpgradeCandidate {
	tier := make([]entities.UpgradeCandidate, 0, len(scores))
	for i, score := range scores {
		tier = append(tier, entities.UpgradeCandidate{
			Name:           fmt.Sprintf("gem%d", i),
			Severity:       severity,
			StalenessScore: score,
		})
	}
	return tier
}

func indexOf(name string) int {
	var index int
	_, _ = fmt.Sscanf(strings.TrimPrefix(name, "gem"), "%d", &index)
	return index
}

func names(candidates []entities.UpgradeCandidate) []string {
	result := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		result = append(result, candidate.Name)
	}
	return result
}
