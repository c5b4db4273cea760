/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ssargent/heapdb/pkg/heap"
)

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C79FF"}
	successColor = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02D98E"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#FF6B6B"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cleanStyle = lipgloss.NewStyle().
			Foreground(successColor)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <pageSize>",
	Short: "Show per-page statistics of a heap file",
	Long: `Decode every page of heap.<pageSize> and print its record count, used
and free bytes and whether the padding after the last record is all zero.

Example:
  heapdb inspect 4096`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageSize, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page size %q: %w", args[0], err)
		}

		rt, err := setupRuntime(cmd)
		if err != nil {
			return err
		}

		return runInspect(cmd.OutOrStdout(), rt.cfg.HeapFilePath(pageSize), pageSize)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(out io.Writer, path string, pageSize int) error {
	stats, err := heap.InspectFile(path, pageSize)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%d-byte pages)", path, pageSize)))

	var records, free, dirty int
	for _, ps := range stats {
		records += ps.Records
		free += ps.FreeBytes

		padding := cleanStyle.Render("clean")
		if !ps.CleanPadding {
			padding = dirtyStyle.Render("dirty")
			dirty++
		}

		fmt.Fprintf(out, "%s %-6d %s %-5d %s %-6d %s %-6d %s %s\n",
			labelStyle.Render("page"), ps.Index,
			labelStyle.Render("records"), ps.Records,
			labelStyle.Render("used"), ps.UsedBytes,
			labelStyle.Render("free"), ps.FreeBytes,
			labelStyle.Render("padding"), padding,
		)
	}

	summary := []string{
		fmt.Sprintf("pages: %d", len(stats)),
		fmt.Sprintf("records: %d", records),
		fmt.Sprintf("free bytes: %d", free),
	}
	if dirty > 0 {
		summary = append(summary, dirtyStyle.Render(fmt.Sprintf("dirty pages: %d", dirty)))
	}
	fmt.Fprintln(out, summaryStyle.Render(strings.Join(summary, "\n")))

	return nil
}
