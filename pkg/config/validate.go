package config

import "fmt"

// ConfigError reports a single configuration problem detected at
// construction time (spec.md §7). It is never used for sampling degeneracy,
// stale events, or queue exhaustion — those are ordinary control flow, not
// errors.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

func configErr(field, reason string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(reason, args...)}
}

// Validate checks every configuration invariant spec.md §7 names. It
// returns the first violation found.
func Validate(in *Input) error {
	if len(in.Nodes) == 0 {
		return configErr("nodes", "must list at least one node")
	}

	nodeSet := make(map[string]bool, len(in.Nodes))
	for _, n := range in.Nodes {
		nodeSet[n] = true
	}

	if in.SimTime <= 0 {
		return configErr("sim_time", "must be positive, got %v", in.SimTime)
	}
	if in.Warmup < 0 {
		return configErr("warmup", "must be non-negative, got %v", in.Warmup)
	}
	if in.Warmup >= in.SimTime {
		return configErr("warmup", "must be less than sim_time (%v), got %v", in.SimTime, in.Warmup)
	}
	if in.BatchCount <= 0 {
		return configErr("batch_count", "must be a positive integer, got %d", in.BatchCount)
	}

	for _, n := range in.Nodes {
		count, ok := in.Servers[n]
		if !ok {
			return configErr("servers", "node %q has no server count configured", n)
		}
		if count <= 0 {
			return configErr("servers", "node %q server count must be positive, got %d", n, count)
		}

		if _, ok := in.ServiceDists[n]; !ok {
			return configErr("service_dists", "node %q has no service distribution configured", n)
		}

		if prios, ok := in.Priorities[n]; ok && len(prios) == 0 {
			return configErr("priorities", "node %q priority list must be non-empty when present", n)
		}

		if bd, ok := in.BreakdownDists[n]; ok && bd.Kind != "" {
			rd, hasRepair := in.RepairDists[n]
			if !hasRepair || rd.Kind == "" {
				return configErr("repair_dists", "node %q configures a breakdown distribution but no repair distribution", n)
			}
		}
	}

	for n := range in.Priorities {
		if !nodeSet[n] {
			return configErr("priorities", "node %q is not a configured node", n)
		}
	}

	for src, dests := range in.RoutingMatrix {
		if !nodeSet[src] {
			return configErr("routing_matrix", "source node %q is not a configured node", src)
		}
		for dst, prob := range dests {
			if !nodeSet[dst] {
				return configErr("routing_matrix", "destination node %q (from %q) is not a configured node", dst, src)
			}
			if prob < 0 || prob > 1 {
				return configErr("routing_matrix", "probability %q->%q must be in [0,1], got %v", src, dst, prob)
			}
		}
	}

	return nil
}
