package main

import (
	"fmt"

	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/spf13/cobra"
)

func (c *cli) newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the post cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the next build will be served from the cache",
		Args:  cobra.NoArgs,
		RunE:  c.runCacheStatus,
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the cache file and cached pages",
		Args:  cobra.NoArgs,
		RunE:  c.runCacheClear,
	})

	return cacheCmd
}

func (c *cli) runCacheStatus(cmd *cobra.Command, args []string) error {
	orchestrator, err := c.newOrchestrator(cmd, domain.DefaultCommonOptions())
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	status, err := orchestrator.CacheStatus()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache file:      %s\n", status.Path)
	if !status.Exists {
		fmt.Fprintln(out, "State:           missing")
	} else if status.Fresh {
		fmt.Fprintln(out, "State:           fresh")
	} else {
		fmt.Fprintln(out, "State:           stale")
	}
	fmt.Fprintf(out, "Manifest digest: %s\n", shortDigest(status.ManifestDigest))
	if status.StoredDigest != "" {
		fmt.Fprintf(out, "Stored digest:   %s\n", shortDigest(status.StoredDigest))
	}
	if status.Pages >= 0 {
		fmt.Fprintf(out, "Cached pages:    %d\n", status.Pages)
	}
	return nil
}

func (c *cli) runCacheClear(cmd *cobra.Command, args []string) error {
	orchestrator, err := c.newOrchestrator(cmd, domain.DefaultCommonOptions())
	if err != nil {
		return err
	}
	defer orchestrator.Close()

	if err := orchestrator.ClearCache(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}
