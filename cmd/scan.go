package cmd

import (
	"github.com/huangsam/repocensus/core"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/spf13/cobra"
)

// scanCmd runs the full account-wide census.
var scanCmd = &cobra.Command{
	Use:   "scan [user]",
	Short: "Discover, mirror, and count every repository of a GitHub account.",
	Long: `Discover all repositories for a GitHub account, mirror them locally,
and count lines and characters of code per repository and per language.

The census helps you:
- See which repositories hold the bulk of your code
- Compare language footprints across your whole account
- Track growth over time when run history is enabled
- Spot repositories full of generated or vendored noise via excludes

Clones are kept under the mirror directory and fast-forwarded on the next run,
so repeated scans only pay for what changed. Results are cached per repository
HEAD commit, so unchanged repositories are not re-read at all.

Examples:
  # Census of all public repositories for a user
  repocensus scan octocat

  # Include private repositories with a token
  repocensus scan octocat --token-file ~/.github_token

  # Include forks and skip vendored code
  repocensus scan octocat --include-forks --exclude vendor/,node_modules/

  # Show bigger tables and export the summary as JSON
  repocensus scan octocat --top 20 --output json --output-file census.json

  # Record the run for trend tracking
  repocensus scan octocat --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScan(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run census", err)
		}
	},
}
