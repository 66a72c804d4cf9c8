package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/gemupdate/internal/domain/entities"
	"github.com/rios0rios0/gemupdate/internal/domain/repositories"
)

const changelogFileMode = 0o644

// Update is the interface for the per-project update workflow.
type Update interface {
	Execute(ctx context.Context, target UpdateTarget, opts entities.UpdateOptions) (*UpdateReport, error)
}

// UpdateTarget is the checkout (and optional subproject) to update.
type UpdateTarget struct {
	Repository entities.Repository
	Project    string
	Tree       repositories.WorkingTree
	Provider   repositories.ProviderRepository // nil disables proposals
}

// UpdateReport summarises one pass of the workflow over a project.
type UpdateReport struct {
	Updated   []string
	Failed    []string
	Proposals []entities.PullRequest
}

// UpdateCommand installs the project dependencies, ranks the outdated ones
// and walks the top candidates through branch, merge, upgrade, commit, push
// and proposal, one at a time.
type UpdateCommand struct {
	dependencyManager repositories.DependencyManagerRepository
	metadata          repositories.MetadataRepository
	outdated          Outdated
	wait              func(ctx context.Context, delay time.Duration) error
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	dependencyManager repositories.DependencyManagerRepository,
	metadata repositories.MetadataRepository,
	outdated Outdated,
) *UpdateCommand {
	return &UpdateCommand{
		dependencyManager: dependencyManager,
		metadata:          metadata,
		outdated:          outdated,
		wait:              sleepContext,
	}
}

// Execute runs the workflow for one project. Errors of single candidates
// are logged and recorded in the report; only failures before the first
// candidate (install, detection) are returned.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	target UpdateTarget,
	opts entities.UpdateOptions,
) (*UpdateReport, error) {
	dir := filepath.Join(target.Tree.Dir(), filepath.FromSlash(target.Project))
	label := projectLabel(target)

	logger.Infof("[%s] Installing dependencies", label)
	if err := it.dependencyManager.Install(ctx, dir); err != nil {
		return nil, fmt.Errorf("failed to install dependencies: %w", err)
	}

	candidates, err := it.outdated.Execute(ctx, dir)
	if err != nil {
		return nil, err
	}

	selected := entities.LimitCandidates(candidates, opts.Limit)
	if len(selected) < len(candidates) {
		logger.Infof("[%s] Updating %d of %d outdated dependencies", label, len(selected), len(candidates))
	}

	report := &UpdateReport{}
	for _, candidate := range selected {
		if opts.DryRun {
			logger.Infof(
				"[%s] [DRY RUN] Would update %s (%s, %s -> %s, score %d)",
				label, candidate.Name, candidate.Severity, candidate.Installed, candidate.Newest, candidate.StalenessScore,
			)
			continue
		}

		wc := newWorkflowContext(target, candidate)
		pr, candidateErr := it.processCandidate(ctx, wc, opts)
		if candidateErr != nil {
			logger.Errorf("[%s] Failed to update %s: %v", label, candidate.Name, candidateErr)
			report.Failed = append(report.Failed, candidate.Name)
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			continue
		}

		report.Updated = append(report.Updated, candidate.Name)
		if pr != nil {
			report.Proposals = append(report.Proposals, *pr)
		}
	}

	return report, nil
}

// processCandidate is the per-dependency state machine. The original branch
// is restored by changeBranch on every exit path; commits already made on
// the update branch are left in place.
func (it *UpdateCommand) processCandidate(
	ctx context.Context,
	wc *WorkflowContext,
	opts entities.UpdateOptions,
) (*entities.PullRequest, error) {
	var pr *entities.PullRequest

	err := changeBranch(ctx, wc.Tree, wc.BranchName, func(originalBranch string) error {
		wc.OriginalBranch = originalBranch

		if err := it.mergeDefaultBranch(ctx, wc); err != nil {
			return err
		}

		logger.Infof("Upgrading %s within its %s tier", wc.Candidate.Name, wc.Candidate.Severity)
		if err := it.dependencyManager.Upgrade(ctx, wc.ProjectDir(), wc.Candidate); err != nil {
			return fmt.Errorf("failed to upgrade %s: %w", wc.Candidate.Name, err)
		}

		if opts.Changelog {
			recordChangelog(wc)
		}

		if err := wc.Tree.Commit(ctx, wc.Candidate.CommitMessage()); err != nil {
			logger.Warnf("Commit for %s failed, continuing: %v", wc.Candidate.Name, err)
		}
		if err := wc.Tree.Push(ctx); err != nil {
			logger.Warnf("Push of %s failed, continuing: %v", wc.BranchName, err)
		}

		// give the platform time to register the pushed branch
		if err := it.wait(ctx, opts.ProposalDelay); err != nil {
			return err
		}

		pr = it.propose(ctx, wc, opts)
		return nil
	})

	return pr, err
}

// mergeDefaultBranch brings the update branch up to date with the default
// branch. A conflicting merge is assumed to come from the lock file and is
// resolved by taking the default branch's lock file.
func (it *UpdateCommand) mergeDefaultBranch(ctx context.Context, wc *WorkflowContext) error {
	defaultBranch := wc.DefaultBranch()

	mergeErr := wc.Tree.MergeFrom(ctx, defaultBranch)
	if mergeErr == nil {
		return nil
	}

	var failure *entities.CommandFailure
	if !errors.As(mergeErr, &failure) {
		return fmt.Errorf("failed to merge %s: %w", defaultBranch, mergeErr)
	}

	lockFile := wc.TreePath(it.dependencyManager.LockFile())
	logger.Warnf("Merging %s into %s failed, taking %s from %s", defaultBranch, wc.BranchName, lockFile, defaultBranch)

	err := wc.Tree.CheckoutPath(ctx, defaultBranch, lockFile)
	if err == nil {
		err = wc.Tree.Commit(ctx, "merge "+defaultBranch)
	}
	if err != nil {
		if abortErr := wc.Tree.AbortMerge(context.WithoutCancel(ctx)); abortErr != nil {
			err = errors.Join(err, abortErr)
		}
		return fmt.Errorf("failed to recover merge of %s: %w", defaultBranch, err)
	}
	return nil
}

// propose opens the pull request for the update branch. Failures are logged
// and swallowed: the branch is already pushed.
func (it *UpdateCommand) propose(
	ctx context.Context,
	wc *WorkflowContext,
	opts entities.UpdateOptions,
) *entities.PullRequest {
	if wc.Provider == nil {
		logger.Warnf("No provider configured for %s, skipping pull request", wc.Repository.Name)
		return nil
	}

	exists, err := wc.Provider.PullRequestExists(ctx, wc.Repository, wc.BranchName)
	if err != nil {
		logger.Warnf("Failed to check existing pull requests for %q: %v", wc.BranchName, err)
	}
	if exists {
		logger.Infof("Pull request for %q already exists, skipping", wc.BranchName)
		return nil
	}

	lockFile := wc.TreePath(it.dependencyManager.LockFile())
	diff, err := wc.Tree.Diff(ctx, wc.DefaultBranch(), wc.BranchName, lockFile)
	if err != nil {
		logger.Warnf("Failed to diff %s: %v", lockFile, err)
	}
	change := entities.ExtractVersionChange(diff, wc.Candidate.Name)
	sourceURI := it.metadata.SourceURI(ctx, opts.MetadataURL, wc.Candidate.Name)

	pr, err := wc.Provider.CreatePullRequest(ctx, wc.Repository, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + wc.BranchName,
		TargetBranch: wc.Repository.DefaultBranch,
		Title:        wc.Candidate.CommitMessage(),
		Description:  entities.ProposalDescription(wc.Candidate, sourceURI, change),
	})
	if err != nil {
		logger.Errorf("Failed to create pull request for %s: %v", wc.Candidate.Name, err)
		return nil
	}

	logger.Infof("Created PR #%d: %s", pr.ID, pr.URL)
	return pr
}

// recordChangelog adds an Unreleased entry to the project's changelog.
func recordChangelog(wc *WorkflowContext) {
	changelogPath := filepath.Join(wc.ProjectDir(), entities.ChangelogFile)

	content, err := os.ReadFile(changelogPath)
	if err != nil {
		logger.Debugf("No %s in %s, skipping changelog entry", entities.ChangelogFile, wc.ProjectDir())
		return
	}

	modified := entities.InsertChangelogEntry(string(content), entities.ChangelogEntry(wc.Candidate))
	if modified == string(content) {
		return
	}
	if err = os.WriteFile(changelogPath, []byte(modified), changelogFileMode); err != nil {
		logger.Warnf("Failed to update %s: %v", changelogPath, err)
	}
}

func projectLabel(target UpdateTarget) string {
	label := target.Repository.Organization + "/" + target.Repository.Name
	if target.Project != "" {
		label += ":" + target.Project
	}
	return label
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
