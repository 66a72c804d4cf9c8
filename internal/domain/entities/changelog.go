package entities

import (
	"fmt"
	"strings"
)

const (
	ChangelogFile = "CHANGELOG.md"

	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
)

// ChangelogEntry is the Keep-a-Changelog bullet recorded for an upgrade.
func ChangelogEntry(candidate UpgradeCandidate) string {
	if candidate.Installed == "" || candidate.Newest == "" {
		return fmt.Sprintf("- changed the `%s` dependency to its latest %s version", candidate.Name, candidate.Severity)
	}
	return fmt.Sprintf(
		"- changed the `%s` dependency from `%s` to `%s`",
		candidate.Name, candidate.Installed, candidate.Newest,
	)
}

// InsertChangelogEntry adds a bullet to the "### Changed" block of the
// "## [Unreleased]" section. The block is created when missing. Content
// without an Unreleased section, or already holding the bullet, is
// returned unchanged.
func InsertChangelogEntry(content, entry string) string {
	lines := strings.Split(content, "\n")

	start := indexOfLine(lines, 0, len(lines), unreleasedHeading)
	if start < 0 {
		return content
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "## [") {
			end = i
			break
		}
	}

	if indexOfLine(lines, start, end, entry) >= 0 {
		return content
	}

	changed := indexOfLine(lines, start+1, end, changedHeading)
	if changed < 0 {
		return spliceLines(lines, start+1, "", changedHeading, "", entry)
	}

	at := changed
	for i := changed + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "- ") {
			break
		}
		at = i
	}
	return spliceLines(lines, at+1, entry)
}

func indexOfLine(lines []string, from, to int, want string) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

func spliceLines(lines []string, at int, extra ...string) string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	result = append(result, lines[at:]...)
	return strings.Join(result, "\n")
}
