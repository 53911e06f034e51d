// Package config loads and validates the simulation's input configuration
// (spec.md §6): nodes, per-node distributions, server counts, priority
// classes, routing matrix, and run parameters. Every configuration error
// spec.md §7 names is surfaced here, at construction time, before any
// replication runs.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/qnetsim/pkg/sampling"
)

// DistSpec is the YAML shape for a distribution: {kind: exponential, rate: 1.0}
// or {kind: constant, value: 2.0}.
type DistSpec struct {
	Kind  string  `yaml:"kind"`
	Rate  float64 `yaml:"rate,omitempty"`
	Value float64 `yaml:"value,omitempty"`
}

// Resolve builds a sampling.Sampler bound to src from this spec. Returns an
// error for an unknown kind.
func (d DistSpec) Resolve(src *sampling.Source) (sampling.Sampler, error) {
	switch d.Kind {
	case "exponential":
		return sampling.NewExponential(d.Rate, src), nil
	case "constant", "degenerate":
		return sampling.NewDegenerate(d.Value, src), nil
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", d.Kind)
	}
}

// Raw is the YAML document shape, mirroring spec.md §6's Input record before
// distributions are resolved against a concrete Source.
type Raw struct {
	Nodes          []string                    `yaml:"nodes"`
	ArrivalDists   map[string]DistSpec         `yaml:"arrival_dists,omitempty"`
	ServiceDists   map[string]DistSpec         `yaml:"service_dists"`
	Servers        map[string]int              `yaml:"servers"`
	Priorities     map[string][]int            `yaml:"priorities,omitempty"`
	PatienceDists  map[string]DistSpec         `yaml:"patience_dists,omitempty"`
	BreakdownDists map[string]DistSpec         `yaml:"breakdown_dists,omitempty"`
	RepairDists    map[string]DistSpec         `yaml:"repair_dists,omitempty"`
	RoutingMatrix  map[string]map[string]float64 `yaml:"routing_matrix,omitempty"`
	SimTime        float64                     `yaml:"sim_time"`
	Warmup         float64                     `yaml:"warmup"`
	BatchCount     int                         `yaml:"batch_count"`
	Seed           uint64                      `yaml:"seed"`
}

// Input is the fully-typed, validated configuration consumed by
// pkg/engine.Scheduler and pkg/replication.Driver. Distribution fields are
// left unresolved (DistSpec) here; each replication resolves its own copies
// against its own Source so that replications never share sampler state
// (spec.md §5).
type Input struct {
	Nodes          []string
	ArrivalDists   map[string]DistSpec
	ServiceDists   map[string]DistSpec
	Servers        map[string]int
	Priorities     map[string][]int
	PatienceDists  map[string]DistSpec
	BreakdownDists map[string]DistSpec
	RepairDists    map[string]DistSpec
	RoutingMatrix  map[string]map[string]float64
	SimTime        float64
	Warmup         float64
	BatchCount     int
	Seed           uint64
}

// Load reads and parses a YAML configuration file, then validates it.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	in := &Input{
		Nodes:          raw.Nodes,
		ArrivalDists:   raw.ArrivalDists,
		ServiceDists:   raw.ServiceDists,
		Servers:        raw.Servers,
		Priorities:     raw.Priorities,
		PatienceDists:  raw.PatienceDists,
		BreakdownDists: raw.BreakdownDists,
		RepairDists:    raw.RepairDists,
		RoutingMatrix:  raw.RoutingMatrix,
		SimTime:        raw.SimTime,
		Warmup:         raw.Warmup,
		BatchCount:     raw.BatchCount,
		Seed:           raw.Seed,
	}

	if err := Validate(in); err != nil {
		return nil, err
	}
	return in, nil
}

// PrioritiesFor returns the configured priority classes for node, defaulting
// to []int{0} when the node has none configured (spec.md §6).
func (in *Input) PrioritiesFor(node string) []int {
	if p, ok := in.Priorities[node]; ok && len(p) > 0 {
		return p
	}
	return []int{0}
}

// WithSeed returns a shallow copy of in with a different seed and batch
// count of 1 — used by pkg/replication to build one independent replication
// input per batch (spec.md §4.4).
func (in *Input) WithSeed(seed uint64) *Input {
	cp := *in
	cp.Seed = seed
	cp.BatchCount = 1
	return &cp
}

// RoutingEntry is one destination/probability pair out of a node's routing
// row, in the fixed order RoutingDestinations produces.
type RoutingEntry struct {
	Dest string
	Prob float64
}

// RoutingDestinations returns node's routing row sorted by destination name.
// The routing_matrix is parsed into a Go map, whose iteration order is
// randomized per process; sorting here is what makes the routing handler's
// cumulative-probability walk reproducible across runs with the same seed.
func (in *Input) RoutingDestinations(node string) []RoutingEntry {
	row := in.RoutingMatrix[node]
	if len(row) == 0 {
		return nil
	}
	entries := make([]RoutingEntry, 0, len(row))
	for dest, prob := range row {
		entries = append(entries, RoutingEntry{Dest: dest, Prob: prob})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Dest < entries[j].Dest })
	return entries
}
