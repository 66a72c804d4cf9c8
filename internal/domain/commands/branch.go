package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

// changeBranch switches the tree to name (creating it from HEAD when it
// exists neither locally nor on origin), runs work and then switches back to
// the branch that was checked out before. Anything work left uncommitted is
// discarded first so it cannot follow the tree back. The switch back runs on
// every exit path; an error from work is returned as is, joined with a failed
// restore.
func changeBranch(
	ctx context.Context,
	tree repositories.WorkingTree,
	name string,
	work func(originalBranch string) error,
) (err error) {
	original, err := tree.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current branch: %w", err)
	}

	switched := false
	defer func() {
		// restore even when ctx was cancelled mid-work
		restoreCtx := context.WithoutCancel(ctx)
		if switched {
			if discardErr := tree.Discard(restoreCtx); discardErr != nil {
				logger.Errorf("Failed to discard changes on %q: %v", name, discardErr)
				err = errors.Join(err, fmt.Errorf("failed to discard changes on %q: %w", name, discardErr))
			}
		}
		if restoreErr := tree.Checkout(restoreCtx, original, false); restoreErr != nil {
			logger.Errorf("Failed to restore branch %q: %v", original, restoreErr)
			err = errors.Join(err, fmt.Errorf("failed to restore branch %q: %w", original, restoreErr))
		}
	}()

	exists, err := tree.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up branch %q: %w", name, err)
	}
	if err = tree.Checkout(ctx, name, !exists); err != nil {
		return fmt.Errorf("failed to switch to branch %q: %w", name, err)
	}
	switched = true

	logger.Debugf("Switched from %q to %q (created: %v)", original, name, !exists)
	return work(original)
}
