// Package engine implements the Scheduler: the discrete-event dispatch loop
// that drives one replication from its first arrival to sim_time. It owns
// the event queue, the per-node stations, the active-departure and
// pending-renege registries that guard against acting on stale events, and
// the single pseudo-random Source every sampler in the replication shares.
package engine
