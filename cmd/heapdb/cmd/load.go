/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/heapdb/pkg/heap"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load -p <pageSize> <source.csv>",
	Short: "Load a CSV export into a heap file",
	Long: `Load a pedestrian sensor CSV export into heap.<pageSize> in the data
directory. An existing heap file for the same page size is replaced.

Rows that fail to parse or cannot fit in a page abort the load unless
--skip-bad-rows is given (or load.row_policy is "skip" in the config file).

Example:
  heapdb load -p 4096 pedestrian_counts.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setupRuntime(cmd)
		if err != nil {
			return err
		}

		pageSize, _ := cmd.Flags().GetInt("page-size")
		if !cmd.Flags().Changed("page-size") {
			pageSize = rt.cfg.PageSize
		}

		policy, err := heap.ParseRowPolicy(rt.cfg.Load.RowPolicy)
		if err != nil {
			return err
		}
		if skip, _ := cmd.Flags().GetBool("skip-bad-rows"); skip {
			policy = heap.RowPolicySkip
		}

		return runLoad(cmd.OutOrStdout(), rt, args[0], pageSize, policy)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().IntP("page-size", "p", 4096, "Page size in bytes")
	loadCmd.Flags().Bool("skip-bad-rows", false, "Skip malformed or oversized rows instead of aborting")
}

func runLoad(out io.Writer, rt *runtime, sourcePath string, pageSize int, policy heap.RowPolicy) (err error) {
	defer rt.flushMetricsOnReturn(&err)

	loader, err := heap.NewLoader(heap.LoaderConfig{
		PageSize:  pageSize,
		RowPolicy: policy,
		Logger:    rt.logger,
		Metrics:   rt.metrics,
	})
	if err != nil {
		return err
	}

	result, err := loader.LoadFile(sourcePath, rt.cfg.HeapFilePath(pageSize), rt.cfg.Load.BufferSize)
	if err != nil {
		return err
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "skipped %d bad rows\n", len(result.Skipped))
	}
	fmt.Fprintf(out, "write %d records, %d pages into heap file, cost %dms.\n",
		result.Rows, result.Pages, result.Elapsed.Milliseconds())

	return nil
}
