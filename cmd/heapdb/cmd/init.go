/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/heapdb/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default heapdb config file",
	Long: `Write a default configuration file so page size, row policy, logging
and metrics settings do not have to be passed on every run.

Examples:
	  heapdb init
	  heapdb init --config ./heapdb.yaml --data-dir ./data --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		return runInit(cmd.OutOrStdout(), configPath, dataDir, force)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInit(out io.Writer, configPath, dataDir string, force bool) error {
	if config.ConfigExists(configPath) && !force {
		fmt.Fprintf(out, "Config already exists at %s. Use --force to overwrite.\n", configPath)
		return nil
	}

	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Config written to %s\n", configPath)
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	fmt.Fprintf(out, "Page size: %d\n", cfg.PageSize)
	return nil
}
