//go:build unit

package controllers_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/infrastructure/controllers"
	commanddoubles "github.com/rios0rios0/gemupdate/test/domain/commanddoubles"
	"github.com/rios0rios0/gemupdate/test/domain/entitybuilders"
)

func TestOutdatedControllerExecute(t *testing.T) {
	t.Parallel()

	t.Run("should print one row per candidate in ranked order", func(t *testing.T) {
		t.Parallel()
		// given
		stub := &commanddoubles.StubOutdatedCommand{Candidates: []entities.UpgradeCandidate{
			entitybuilders.NewCandidateBuilder().WithName("rails").WithSeverity(entities.SeverityMajor).
				WithVersions("6.1.7", "7.1.3").BuildCandidate(),
			entitybuilders.NewCandidateBuilder().WithName("rack").BuildCandidate(),
		}}
		controller := controllers.NewOutdatedController(stub)
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		dir := t.TempDir()

		// when
		controller.Execute(cmd, []string{dir})

		// then
		require.Equal(t, []string{dir}, stub.Dirs)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"GEM", "TIER", "INSTALLED", "NEWEST", "SCORE"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"rails", "major", "6.1.7", "7.1.3", "96"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"rack", "patch", "2.2.8", "2.2.9", "1"}, strings.Fields(lines[2]))
	})
}

func TestControllerBinds(t *testing.T) {
	t.Parallel()

	t.Run("should mount run, local and outdated subcommands", func(t *testing.T) {
		t.Parallel()
		// given
		all := controllers.NewControllers(
			controllers.NewRunController(&commanddoubles.StubRunCommand{}),
			controllers.NewLocalController(&commanddoubles.StubLocalCommand{}),
			controllers.NewOutdatedController(&commanddoubles.StubOutdatedCommand{}),
		)

		// when
		uses := make([]string, 0, len(*all))
		for _, controller := range *all {
			uses = append(uses, controller.GetBind().Use)
		}

		// then
		assert.Equal(t, []string{"run", "local [path]", "outdated [path]"}, uses)
	})
}
