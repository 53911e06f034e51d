package engine

import "github.com/cuemby/qnetsim/pkg/simtypes"

// buildResult computes steady-state statistics from the post-warmup area
// integrals and counters each station accumulated. All of it is denominated
// in effective time — sim_time minus warmup, a fixed quantity — per
// spec.md §6 (REDESIGN FLAG: the original MoCaSim.py divides by the full
// sim_time instead, ignoring warmup entirely).
//
// ThroughputCI is left degenerate ([throughput, throughput]); a real
// confidence interval only exists across multiple replications, and is
// filled in by pkg/replication.
func (s *Scheduler) buildResult() *simtypes.Result {
	res := simtypes.NewResult(s.input.Nodes)

	effTime := s.input.SimTime - s.input.Warmup // positive: config.Validate enforces warmup < sim_time

	for _, node := range s.input.Nodes {
		st := s.stations[node]

		res.MeanQueueLength[node] = st.QueueArea() / effTime

		utilDenom := float64(len(st.Servers))*effTime - st.TotalDownArea()
		if utilDenom > 0 {
			res.Utilization[node] = st.TotalBusyArea() / utilDenom
		}

		res.Completions[node] = st.Completions

		denom := st.PostWarmupReneges + st.PostWarmupCompletions
		if denom > 0 {
			res.RenegingProb[node] = float64(st.PostWarmupReneges) / float64(denom)
		}

		res.MeanWaitTime[node] = mean(st.Waits)
		res.MeanSystemTime[node] = mean(st.Sojourns)
	}

	res.Throughput = float64(s.exits) / effTime
	res.ThroughputCI = [2]float64{res.Throughput, res.Throughput}

	return res
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
