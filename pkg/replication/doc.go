// Package replication runs a batch of independent replications of the same
// configuration and aggregates their throughput into a confidence interval.
// Replications share no mutable state — each gets its own Scheduler, its own
// Source, and its own seed — so the batch runs concurrently via
// golang.org/x/sync/errgroup (spec.md §5).
package replication
