package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/cuemby/qnetsim/pkg/config"
	"github.com/cuemby/qnetsim/pkg/simtypes"
)

// printResult writes a human-readable summary of a completed batch to w.
func printResult(w *os.File, in *config.Input, res *simtypes.Result) {
	fmt.Fprintf(w, "Replications: %d\n", in.BatchCount)
	fmt.Fprintf(w, "Throughput:   %.6f  (95%% CI [%.6f, %.6f])\n\n", res.Throughput, res.ThroughputCI[0], res.ThroughputCI[1])

	nodes := make([]string, 0, len(in.Nodes))
	nodes = append(nodes, in.Nodes...)
	sort.Strings(nodes)

	fmt.Fprintf(w, "%-12s %10s %10s %10s %10s %10s\n", "node", "mean_q", "util", "completed", "renege_p", "mean_wait")
	for _, node := range nodes {
		fmt.Fprintf(w, "%-12s %10.4f %10.4f %10d %10.4f %10.4f\n",
			node,
			res.MeanQueueLength[node],
			res.Utilization[node],
			res.Completions[node],
			res.RenegingProb[node],
			res.MeanWaitTime[node],
		)
	}
}
