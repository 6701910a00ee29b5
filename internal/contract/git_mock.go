package contract

import (
	"context"

	"github.com/huangsam/repocensus/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []interface{}{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, cloneURL, destPath, token string) error {
	ret := m.Called(ctx, cloneURL, destPath, token)
	return ret.Error(0)
}

// Pull implements the GitClient interface.
func (m *MockGitClient) Pull(ctx context.Context, repoPath string) error {
	ret := m.Called(ctx, repoPath)
	return ret.Error(0)
}

// HeadHash implements the GitClient interface.
func (m *MockGitClient) HeadHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	hash, _ := ret.Get(0).(string)
	return hash, ret.Error(1)
}

// MockRepoLister is a mock implementation of RepoLister for testing.
type MockRepoLister struct {
	mock.Mock
}

var _ RepoLister = &MockRepoLister{} // Compile-time check

// ListRepositories implements the RepoLister interface.
func (m *MockRepoLister) ListRepositories(ctx context.Context, user string) ([]schema.RemoteRepo, error) {
	ret := m.Called(ctx, user)
	repos, _ := ret.Get(0).([]schema.RemoteRepo)
	return repos, ret.Error(1)
}
