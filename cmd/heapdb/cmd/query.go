/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/heapdb/pkg/codec"
	"github.com/ssargent/heapdb/pkg/heap"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <queryText> <pageSize>",
	Short: "Find records by composite key",
	Long: `Scan heap.<pageSize> and print every record whose composite key equals
queryText exactly. The key is the source Date_Time and Sensor_ID joined by
an underscore.

Example:
  heapdb query "11/01/2019 05:00:00 PM_34" 4096`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageSize, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid page size %q: %w", args[1], err)
		}

		rt, err := setupRuntime(cmd)
		if err != nil {
			return err
		}

		return runQuery(cmd.OutOrStdout(), rt, args[0], pageSize)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(out io.Writer, rt *runtime, query string, pageSize int) (err error) {
	defer rt.flushMetricsOnReturn(&err)

	scanner, err := heap.NewScanner(heap.ScannerConfig{
		PageSize: pageSize,
		Logger:   rt.logger,
		Metrics:  rt.metrics,
	})
	if err != nil {
		return err
	}

	result, err := scanner.ScanFile(rt.cfg.HeapFilePath(pageSize), query, func(r *codec.Record) error {
		_, err := fmt.Fprintln(out, r.String())
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "find %d records in %dms.\n", result.Count, result.Elapsed.Milliseconds())

	return nil
}
