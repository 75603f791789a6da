// Package git attaches repository context to completed intervals.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/xvierd/purrmodoro/internal/ports"
)

// ShortHashLen is the number of hex digits kept from a commit hash.
const ShortHashLen = 7

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository containing workingDir (searching parent
// directories) and reports its current branch and short commit hash.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD detached"
	}

	info := &ports.GitInfo{
		Branch: branch,
		Commit: ShortCommit(head.Hash().String()),
	}

	remotes, err := repo.Remotes()
	if err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = RepoName(urls[0])
		}
	}

	return info, nil
}

// IsNotRepository reports whether err means there is no repository at all.
func IsNotRepository(err error) bool {
	return errors.Is(err, git.ErrRepositoryNotExists)
}

// RepoName extracts "owner/repo" from an SSH or HTTPS remote URL.
func RepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// git@github.com:user/repo
	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	// https://github.com/user/repo
	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > ShortHashLen {
		return commit[:ShortHashLen]
	}
	return commit
}
