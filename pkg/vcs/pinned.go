// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// PinnedTag returns the tag a git checkout in dir is pinned to. A checkout is
// pinned when HEAD is detached at a tagged commit, which is what installing
// with a version produces. A checkout that tracks a branch is never pinned
// and yields "".
func PinnedTag(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open git repository %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return "", nil
	}

	tags, err := repo.Tags()
	if err != nil {
		return "", fmt.Errorf("list tags: %w", err)
	}

	var pinned string
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if tag, tagErr := repo.TagObject(target); tagErr == nil {
			if commit, commitErr := tag.Commit(); commitErr == nil {
				target = commit.Hash
			}
		}
		if target == head.Hash() {
			pinned = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk tags: %w", err)
	}
	return pinned, nil
}
