// Package metrics defines and registers the Prometheus collectors that
// instrument the simulation engine itself: events dispatched, stale-event
// discards, reneges, breakdowns, and per-replication timing. Exposed over
// HTTP via Handler for scraping during long batch runs.
package metrics
