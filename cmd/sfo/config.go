package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/sfo/internal/config"
	"github.com/franz/sfo/internal/store"
	"github.com/franz/sfo/internal/util"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the application configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with defaults",
	Long: `Create a configuration file with default folders rooted under --base.

An existing configuration is never overwritten. The generated configuration
is also snapshotted into the database history.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE:  runConfigShow,
}

var configHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show configuration snapshots, newest first",
	RunE:  runConfigHistory,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configHistoryCmd)

	home, _ := os.UserHomeDir()
	configInitCmd.Flags().String("base", home, "base directory for the default folders")
	configHistoryCmd.Flags().IntP("limit", "n", 10, "number of snapshots to show")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists at %s", path)
	}

	base, _ := cmd.Flags().GetString("base")
	cfg := config.Default(base)
	if err := cfg.Save(path); err != nil {
		return err
	}
	util.SuccessLog("Wrote %s", path)

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		util.WarnLog("Configuration not snapshotted: %v", err)
		return nil
	}
	defer st.Close()

	if err := st.SaveConfigSnapshot(cfg.JSON(), "initial configuration"); err != nil {
		util.WarnLog("Configuration not snapshotted: %v", err)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Config file:       %s\n", configPath())
	fmt.Printf("Watch folder:      %s\n", cfg.WatchFolder)
	fmt.Printf("Organized folder:  %s\n", cfg.OrganizedFolder)
	fmt.Printf("Duplicate folder:  %s\n", cfg.DuplicateFolder)
	fmt.Printf("Auto rename:       %t\n", cfg.AutoRename)
	fmt.Printf("Duplicate check:   %t\n", cfg.EnableDuplicates)
	fmt.Printf("Content analysis:  %t\n", cfg.AIClassification)
	fmt.Printf("Max file size:     %d MB\n", cfg.MaxFileSizeMB)
	fmt.Printf("Scan interval:     %d s\n", cfg.ScanIntervalSec)
	return nil
}

func runConfigHistory(cmd *cobra.Command, args []string) error {
	applyLogLevel()

	st, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	snaps, err := st.ConfigHistory(limit)
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		util.InfoLog("No configuration snapshots")
		return nil
	}

	for _, snap := range snaps {
		fmt.Printf("%4d  %s  %s\n", snap.ID,
			snap.Timestamp.Format("2006-01-02 15:04:05"), snap.Description)
		fmt.Printf("      %s\n", snap.ConfigJSON)
	}
	return nil
}
