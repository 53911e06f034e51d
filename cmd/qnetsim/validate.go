package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/qnetsim/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate a configuration file without running it",
	Long: `Validate parses the given YAML file and checks every configuration
invariant (node/server/distribution consistency, routing matrix references,
probability ranges) without running a single replication. It exits non-zero
on the first violation found.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "YAML configuration file (required)")
	_ = validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	in, err := config.Load(filename)
	if err != nil {
		return err
	}

	fmt.Printf("OK: %d node(s), sim_time=%.2f, warmup=%.2f, batch_count=%d\n",
		len(in.Nodes), in.SimTime, in.Warmup, in.BatchCount)
	return nil
}
