package scan

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/rs/zerolog"
	"github.com/sofmeright/lintscope/src/logging"
)

// TargetBranchEnv overrides the branch changes are computed against.
const TargetBranchEnv = "LINTSCOPE_TARGET_BRANCH"

// Delta detects changed files relative to a baseline.
type Delta struct {
	RootDir      string
	TargetBranch string

	logger zerolog.Logger
}

// ChangedFiles returns the set of slash-separated paths changed relative to
// the baseline: uncommitted (staged, unstaged and untracked) changes plus
// commits not on the target branch.
// Returns nil (scan everything) if git is unavailable or no baseline exists.
func (d *Delta) ChangedFiles(ctx context.Context) (map[string]bool, error) {
	d.logger = logging.WithComponent("delta")

	repo, err := git.PlainOpen(d.RootDir)
	if err != nil {
		d.logger.Debug().Err(err).Msg("not a git repo, scanning all files")
		return nil, nil
	}

	worktreeChanges, err := d.worktreeChanges(repo)
	if err != nil {
		d.logger.Warn().Err(err).Msg("worktree diff failed, scanning all files")
		return nil, nil
	}

	branchChanges, err := d.branchChanges(ctx, repo)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.logger.Warn().Err(err).Msg("branch diff failed, scanning all files")
		return nil, nil
	}

	changed := make(map[string]bool, len(worktreeChanges)+len(branchChanges))
	for p := range worktreeChanges {
		changed[p] = true
	}
	for p := range branchChanges {
		changed[p] = true
	}

	d.logger.Debug().Int("changed", len(changed)).Msg("delta computed")
	return changed, nil
}

// worktreeChanges returns files with uncommitted modifications.
func (d *Delta) worktreeChanges(repo *git.Repository) (map[string]bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}

	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	changed := make(map[string]bool)
	for path, s := range status {
		if s.Worktree == git.Unmodified && s.Staging == git.Unmodified {
			continue
		}
		changed[path] = true
	}
	return changed, nil
}

// branchChanges returns files changed between HEAD and the target branch.
func (d *Delta) branchChanges(ctx context.Context, repo *git.Repository) (map[string]bool, error) {
	targetBranch := d.targetBranch(repo)

	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	headCommit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting HEAD commit: %w", err)
	}

	targetRef, err := repo.Reference(plumbing.NewBranchReferenceName(targetBranch), true)
	if err != nil {
		targetRef, err = repo.Reference(plumbing.NewRemoteReferenceName("origin", targetBranch), true)
		if err != nil {
			d.logger.Debug().Str("branch", targetBranch).Msg("target branch not found, skipping branch diff")
			return nil, nil
		}
	}
	targetCommit, err := repo.CommitObject(targetRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting target commit: %w", err)
	}

	// On the target branch itself, diff the latest commit against its parent.
	if headCommit.Hash == targetCommit.Hash {
		if headCommit.NumParents() == 0 {
			return nil, nil
		}
		parent, err := headCommit.Parent(0)
		if err != nil {
			return nil, nil
		}
		targetCommit = parent
	}

	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, err
	}
	targetTree, err := targetCommit.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, targetTree, headTree, &object.DiffTreeOptions{})
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	changed := make(map[string]bool)
	for _, change := range changes {
		if name := changeName(change); name != "" {
			changed[name] = true
		}
	}
	return changed, nil
}

// targetBranch determines the branch to diff against.
func (d *Delta) targetBranch(repo *git.Repository) string {
	if d.TargetBranch != "" {
		return d.TargetBranch
	}
	if branch := os.Getenv(TargetBranchEnv); branch != "" {
		return branch
	}

	ciVars := []string{
		"CI_MERGE_REQUEST_TARGET_BRANCH_NAME", // GitLab CI
		"GITHUB_BASE_REF",                     // GitHub Actions
		"BITBUCKET_PR_DESTINATION_BRANCH",     // Bitbucket
		"CHANGE_TARGET",                       // Jenkins
	}
	for _, v := range ciVars {
		if branch := os.Getenv(v); branch != "" {
			return branch
		}
	}

	if branch := defaultBranch(repo); branch != "" {
		return branch
	}
	return "main"
}

// defaultBranch reads the symbolic ref origin/HEAD.
func defaultBranch(repo *git.Repository) string {
	ref, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", "HEAD"), false)
	if err != nil {
		return ""
	}
	const prefix = "refs/remotes/origin/"
	target := ref.Target().String()
	if strings.HasPrefix(target, prefix) {
		return strings.TrimPrefix(target, prefix)
	}
	return ""
}

func changeName(change *object.Change) string {
	action, err := change.Action()
	if err != nil {
		return ""
	}
	switch action {
	case merkletrie.Insert, merkletrie.Modify:
		return change.To.Name
	case merkletrie.Delete:
		return change.From.Name
	}
	return ""
}

// FilterByDelta keeps only the files in changedSet. A nil set keeps every
// file.
func FilterByDelta(files []FileInfo, changedSet map[string]bool) []FileInfo {
	if changedSet == nil {
		return files
	}

	filtered := make([]FileInfo, 0, len(changedSet))
	for _, f := range files {
		if changedSet[strings.TrimPrefix(f.Path, "./")] {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
