// Package github provides a client for reading release tags and
// assets from the GitHub Releases API.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"

	"github.com/clean-dependency-project/manifestctl/internal/tags"
)

// Sentinel errors for GitHub operations.
var (
	ErrInvalidRepo     = errors.New("repository must be in format 'owner/repo'")
	ErrReleaseNotFound = errors.New("release not found")
)

const listPageSize = 100

// Client wraps the GitHub API client for release operations.
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a GitHub API client for the given repository in
// "owner/repo" form. An empty token yields an unauthenticated client,
// which is sufficient for public release metadata.
func NewClient(token, repository string) (*Client, error) {
	owner, repo, err := parseRepository(repository)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		client: client,
		owner:  owner,
		repo:   repo,
	}, nil
}

// Owner returns the repository owner.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Client) Repo() string { return c.repo }

// ListReleases returns every published release tag with its assets.
func (c *Client) ListReleases(ctx context.Context) ([]tags.TagRecord, error) {
	var records []tags.TagRecord
	opts := &github.ListOptions{PerPage: listPageSize}

	for {
		releases, resp, err := c.client.Repositories.ListReleases(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases for %s/%s: %w", c.owner, c.repo, err)
		}
		for _, r := range releases {
			if r.GetDraft() {
				continue
			}
			records = append(records, toTagRecord(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return records, nil
}

// GetReleaseByTag retrieves one release by its tag name. Returns
// ErrReleaseNotFound if the tag has no release.
func (c *Client) GetReleaseByTag(ctx context.Context, tag string) (*tags.TagRecord, error) {
	if tag == "" {
		return nil, fmt.Errorf("release tag cannot be empty")
	}

	release, resp, err := c.client.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, ErrReleaseNotFound
		}
		return nil, fmt.Errorf("failed to get release %s: %w", tag, err)
	}

	record := toTagRecord(release)
	return &record, nil
}

func toTagRecord(r *github.RepositoryRelease) tags.TagRecord {
	record := tags.TagRecord{TagName: r.GetTagName()}
	for _, a := range r.Assets {
		record.Assets = append(record.Assets, tags.Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetBrowserDownloadURL(),
		})
	}
	return record
}

// parseRepository splits a repository string into owner and repo.
// Returns an error if the format is invalid.
func parseRepository(repository string) (owner, repo string, err error) {
	if repository == "" {
		return "", "", ErrInvalidRepo
	}

	parts := strings.Split(repository, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: got %s", ErrInvalidRepo, repository)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: owner or repo is empty", ErrInvalidRepo)
	}

	return owner, repo, nil
}
