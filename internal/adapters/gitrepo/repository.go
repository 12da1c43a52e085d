package gitrepo

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"chipwarden/internal/ports"
)

// Repository tracks archive history with go-git. Every archival becomes one
// commit covering the new versioned file and the updated changelog.
type Repository struct{}

var _ ports.Repository = (*Repository)(nil)

func New() *Repository {
	return &Repository{}
}

// Init creates a git repository at root if one does not already exist.
func (r *Repository) Init(root string) error {
	_, err := git.PlainInit(root, false)
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// StageAndCommit stages the given root-relative paths and commits them.
func (r *Repository) StageAndCommit(root string, relPaths []string, message string) error {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, rel := range relPaths {
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "chipwarden",
			Email: "chipwarden@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
