// Package ghclient discovers the repositories that belong to a GitHub account.
package ghclient

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v62/github"

	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/schema"
)

// GitHubLister implements the RepoLister interface on top of the GitHub REST API.
type GitHubLister struct {
	client       *github.Client
	token        string
	includeForks bool
	logf         func(format string, args ...any)
}

var _ contract.RepoLister = &GitHubLister{} // Compile-time check

// NewGitHubLister creates a lister. An empty token limits discovery to
// public repositories.
func NewGitHubLister(token string, includeForks bool) *GitHubLister {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubLister{
		client:       client,
		token:        token,
		includeForks: includeForks,
		logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// SetBaseURL points the lister at an alternate API endpoint. The URL must
// end with a trailing slash.
func (l *GitHubLister) SetBaseURL(rawURL string) error {
	client, err := l.client.WithEnterpriseURLs(rawURL, rawURL)
	if err != nil {
		return err
	}
	l.client = client
	return nil
}

// ListRepositories implements the RepoLister interface. With a token it lists
// every repository the authenticated user can access, private, collaborator,
// and organization repos included; otherwise it lists the named user's public
// repositories. Results preserve the API's ordering across pages. Forks are
// skipped with a diagnostic unless includeForks is set.
func (l *GitHubLister) ListRepositories(ctx context.Context, user string) ([]schema.RemoteRepo, error) {
	var repos []schema.RemoteRepo
	page := 1
	for {
		var batch []*github.Repository
		var resp *github.Response
		var err error
		if l.token != "" {
			// No type filter here, the API default covers all accessible repos
			opts := &github.RepositoryListByAuthenticatedUserOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: 100},
			}
			batch, resp, err = l.client.Repositories.ListByAuthenticatedUser(ctx, opts)
		} else {
			opts := &github.RepositoryListByUserOptions{
				Type:        "owner",
				ListOptions: github.ListOptions{Page: page, PerPage: 100},
			}
			batch, resp, err = l.client.Repositories.ListByUser(ctx, user, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot list repositories for %q: %w", user, err)
		}
		for _, r := range batch {
			remote := schema.RemoteRepo{
				Name:     r.GetName(),
				FullName: r.GetFullName(),
				CloneURL: r.GetCloneURL(),
				Fork:     r.GetFork(),
			}
			if remote.Fork && !l.includeForks {
				l.logf("Skipping forked repository: %s", remote.FullName)
				continue
			}
			repos = append(repos, remote)
		}
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}
	return repos, nil
}
