package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/qnetsim/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "qnetsim",
	Short: "qnetsim - discrete-event simulator for open queueing networks",
	Long: `qnetsim simulates open queueing networks of multi-server stations with
priority classes, customer abandonment, server breakdowns and repair, and
probabilistic routing between stations, then reports steady-state statistics
with a replication-based confidence interval on throughput.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"qnetsim version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
