package contract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// Clone implements the GitClient interface. When a token is provided it is
// embedded as basic-auth credentials in the clone URL. The credential never
// appears in error output because failures report the original URL.
func (c *LocalGitClient) Clone(ctx context.Context, cloneURL, destPath, token string) error {
	authURL := cloneURL
	if token != "" {
		withAuth, err := injectToken(cloneURL, token)
		if err != nil {
			return fmt.Errorf("cannot build authenticated URL for %q: %w", cloneURL, err)
		}
		authURL = withAuth
	}
	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", authURL, destPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		sanitized := strings.ReplaceAll(strings.TrimSpace(string(out)), authURL, cloneURL)
		return fmt.Errorf("git clone of %q failed: %s", cloneURL, sanitized)
	}
	return nil
}

// Pull implements the GitClient interface. Mirror checkouts are never edited
// locally, so only fast-forward updates are accepted.
func (c *LocalGitClient) Pull(ctx context.Context, repoPath string) error {
	_, err := c.Run(ctx, repoPath, "pull", "--ff-only", "--quiet")
	return err
}

// HeadHash implements the GitClient interface.
func (c *LocalGitClient) HeadHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// injectToken rewrites an https clone URL to carry the token as userinfo.
func injectToken(cloneURL, token string) (string, error) {
	u, err := url.Parse(cloneURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("token authentication requires an https URL, got %q", u.Scheme)
	}
	u.User = url.UserPassword(token, "x-oauth-basic")
	return u.String(), nil
}
