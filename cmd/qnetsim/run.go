package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/qnetsim/pkg/config"
	"github.com/cuemby/qnetsim/pkg/log"
	"github.com/cuemby/qnetsim/pkg/metrics"
	"github.com/cuemby/qnetsim/pkg/replication"
	"github.com/cuemby/qnetsim/pkg/simevent"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation batch from a YAML configuration file",
	Long: `Run executes config.batch_count independent replications of the network
described in the given YAML file and prints the aggregated steady-state
statistics, including a confidence interval on throughput.

Examples:
  qnetsim run -f network.yaml
  qnetsim run -f network.yaml --metrics-addr :9090`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "YAML configuration file (required)")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the batch runs (e.g. :9090)")
	_ = runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	logger := log.WithComponent("cli")

	in, err := config.Load(filename)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info().Str("addr", metricsAddr).Msg("serving metrics")
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	broker := simevent.NewBroker()
	driver := replication.New(in, broker)

	res, err := driver.Run(context.Background())
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	printResult(os.Stdout, in, res)
	return nil
}
