// main is the entry point for the repocensus CLI.
package main

import (
	"os"

	"github.com/huangsam/repocensus/cmd"
	"github.com/huangsam/repocensus/internal/contract"
	"github.com/huangsam/repocensus/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Stores are initialized lazily by the command setup hooks, so close
	// them here rather than in each command.
	iocache.CloseStores()

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
