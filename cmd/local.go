package cmd

import (
	"github.com/huangsam/repocensus/core"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/spf13/cobra"
)

// localCmd runs the census over already-acquired repositories.
var localCmd = &cobra.Command{
	Use:   "local [dir]",
	Short: "Count repositories already present under a local directory.",
	Long: `Run the census over repositories that already exist on disk, without
talking to GitHub. Every immediate subdirectory of the given directory is
treated as one repository.

Use this when:
- Repositories were mirrored by a previous scan
- You want to census repositories from multiple accounts or hosts
- Working offline or behind a firewall
- Measuring a curated set of checkouts

Examples:
  # Census everything under ./repos (the default mirror directory)
  repocensus local repos

  # Census a workspace with excludes
  repocensus local ~/src --exclude vendor/,*.min.js

  # CSV output of the full rankings
  repocensus local repos --output csv --output-file census.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLocal(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run local census", err)
		}
	},
}
