package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// GitStore keeps snapshot files in a local git clone and pushes every
// change. Keys are file paths within the repo.
type GitStore struct {
	repo   string // path to the local clone
	branch string // branch to commit and push to
}

// NewGitStore creates a git-backed store. repo is the path to an
// existing local clone.
func NewGitStore(repo, branch string) *GitStore {
	return &GitStore{repo: repo, branch: branch}
}

// Put writes data to key within the repo, commits, and pushes. A put
// that changes nothing is not committed.
func (g *GitStore) Put(ctx context.Context, key string, data []byte) error {
	if err := g.git(ctx, "checkout", g.branch); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}

	// Pull latest to minimize conflicts.
	// Ignore errors since the remote might not have the branch yet.
	_ = g.git(ctx, "pull", "--ff-only", "origin", g.branch)

	filePath := filepath.Join(g.repo, key)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	if err := g.git(ctx, "add", key); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	// Nothing staged means the stored snapshot is already current.
	if err := g.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		return nil
	}

	if err := g.git(ctx, "commit", "-m", "mirror: update "+key); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}

	if err := g.git(ctx, "push", "origin", g.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	return nil
}

// Get pulls the branch and reads key from the clone.
func (g *GitStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := g.git(ctx, "checkout", g.branch); err != nil {
		return nil, fmt.Errorf("git checkout: %w", err)
	}
	_ = g.git(ctx, "pull", "--ff-only", "origin", g.branch)

	data, err := os.ReadFile(filepath.Join(g.repo, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (g *GitStore) git(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.repo
	cmd.Stdout = os.Stderr // redirect to stderr so it's visible in logs
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
