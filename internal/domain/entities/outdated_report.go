package entities

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// outdatedLinePattern matches bundler report lines in both the parseable
// form "rails (newest 7.1.3, installed 7.0.8, requested ~> 7.0)" and the
// older bulleted form "  * rails (newest 7.1.3, installed 7.0.8)". A
// platform suffix after a version ("1.16.2 x86_64-linux") is dropped.
var outdatedLinePattern = regexp.MustCompile(
	`^\s*(?:\*\s+)?([^\s*(]\S*)\s+\(newest\s+([^,\s)]+)[^,)]*,\s+installed\s+([^,\s)]+)`,
)

// ParseOutdatedReport extracts the candidates reported for a single tier.
// Banners, blank lines and anything else not matching the report format are
// skipped; an empty report yields an empty slice.
func ParseOutdatedReport(output string, severity Severity) []UpgradeCandidate {
	candidates := []UpgradeCandidate{}
	for _, line := range strings.Split(output, "\n") {
		match := outdatedLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		candidates = append(candidates, UpgradeCandidate{
			Name:           match[1],
			Severity:       severity,
			StalenessScore: StalenessScore(match[2], match[3]),
			Newest:         match[2],
			Installed:      match[3],
		})
	}
	return candidates
}

// StalenessScore ranks how far behind a dependency is. Both versions are
// read as base-10 integers once their dots are removed, so "1.2.10" vs
// "1.1.0" scores 1210 - 110 = 1100. This is an approximate ordering, not a
// semantic version comparison: versions with a different number of segments
// ("1.10" vs "1.9.9") can be misordered. Only the leading digits count, so
// the pre-release "2.0.0.rc1" reads as 200; a version that does not start
// with a digit scores 0.
func StalenessScore(newest, installed string) int {
	newestValue, err := versionDigits(newest)
	if err != nil {
		return 0
	}
	installedValue, err := versionDigits(installed)
	if err != nil {
		return 0
	}
	return newestValue - installedValue
}

func versionDigits(version string) (int, error) {
	dotless := strings.ReplaceAll(strings.TrimSpace(version), ".", "")
	end := strings.IndexFunc(dotless, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		dotless = dotless[:end]
	}
	return strconv.Atoi(dotless)
}

// RankCandidates concatenates the per-tier results in the given order, keeps
// the first occurrence of every dependency name and sorts the result by
// descending staleness. Ties keep their scan order.
func RankCandidates(tiers ...[]UpgradeCandidate) []UpgradeCandidate {
	seen := make(map[string]struct{})
	ranked := []UpgradeCandidate{}
	for _, tier := range tiers {
		for _, candidate := range tier {
			if _, ok := seen[candidate.Name]; ok {
				continue
			}
			seen[candidate.Name] = struct{}{}
			ranked = append(ranked, candidate)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].StalenessScore > ranked[j].StalenessScore
	})
	return ranked
}

// LimitCandidates returns at most limit candidates. A non-positive limit
// returns nothing.
func LimitCandidates(candidates []UpgradeCandidate, limit int) []UpgradeCandidate {
	if limit <= 0 {
		return []UpgradeCandidate{}
	}
	if len(candidates) <= limit {
		return candidates
	}
	return candidates[:limit]
}
