// Package github reads the support corpus (FAQ and reviews) from a GitHub repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/google/go-github/v81/github"

	"github.com/bull/support-router/internal/corpus"
)

// Fetcher reads corpus files from one repository at a fixed ref.
// It implements corpus.Source.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	ref      string
	basePath string
}

// NewFetcher creates a fetcher for owner/repo at ref. Paths passed to ReadFile
// are resolved under basePath.
func NewFetcher(client *Client, owner, repo, ref, basePath string) *Fetcher {
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		ref:      ref,
		basePath: basePath,
	}
}

var _ corpus.Source = (*Fetcher)(nil)

// ReadFile fetches one file's decoded content. A missing file or a directory
// yields corpus.ErrSourceNotFound.
func (f *Fetcher) ReadFile(ctx context.Context, name string) ([]byte, error) {
	fullPath := path.Join(f.basePath, name)

	var opts *github.RepositoryContentGetOptions
	if f.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: f.ref}
	}

	fileContent, _, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, fullPath, opts)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s:%s", corpus.ErrSourceNotFound, f.owner, f.repo, fullPath)
		}
		return nil, fmt.Errorf("failed to get content of %s: %w", fullPath, err)
	}

	if fileContent == nil {
		return nil, fmt.Errorf("%w: %s is not a file", corpus.ErrSourceNotFound, fullPath)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", fullPath, err)
	}
	return []byte(content), nil
}

// LatestCommitSHA returns the SHA of the most recent commit touching basePath at ref.
func (f *Fetcher) LatestCommitSHA(ctx context.Context) (string, error) {
	commits, _, err := f.client.Repositories.ListCommits(
		ctx,
		f.owner,
		f.repo,
		&github.CommitsListOptions{
			SHA:  f.ref,
			Path: f.basePath,
			ListOptions: github.ListOptions{
				PerPage: 1,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get latest commit: %w", err)
	}

	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", f.basePath)
	}

	if commits[0].SHA == nil {
		return "", fmt.Errorf("commit SHA is nil")
	}

	return *commits[0].SHA, nil
}
