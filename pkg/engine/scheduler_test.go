package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/qnetsim/pkg/config"
)

func singleNodeInput() *config.Input {
	return &config.Input{
		Nodes:        []string{"A"},
		ArrivalDists: map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 2.0}},
		ServiceDists: map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 5.0}},
		Servers:      map[string]int{"A": 2},
		SimTime:      200,
		Warmup:       20,
		BatchCount:   1,
		Seed:         42,
	}
}

func TestRunProducesNonNegativeStatistics(t *testing.T) {
	sched, err := New(singleNodeInput(), nil)
	require.NoError(t, err)

	res, err := sched.Run()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Throughput, 0.0)
	assert.GreaterOrEqual(t, res.MeanQueueLength["A"], 0.0)
	assert.GreaterOrEqual(t, res.Utilization["A"], 0.0)
	assert.LessOrEqual(t, res.Utilization["A"], 1.01) // small float slack
	assert.GreaterOrEqual(t, res.Completions["A"], int64(0))
}

func TestRunIsDeterministic(t *testing.T) {
	in := singleNodeInput()

	s1, err := New(in, nil)
	require.NoError(t, err)
	r1, err := s1.Run()
	require.NoError(t, err)

	s2, err := New(in, nil)
	require.NoError(t, err)
	r2, err := s2.Run()
	require.NoError(t, err)

	assert.Equal(t, r1.Throughput, r2.Throughput, "identical seed must reproduce identical throughput")
	assert.Equal(t, r1.Completions, r2.Completions)
	assert.Equal(t, r1.MeanQueueLength, r2.MeanQueueLength)
}

func TestDifferentSeedsDivergeOrMatchByChance(t *testing.T) {
	in := singleNodeInput()
	other := in.WithSeed(999)

	s1, err := New(in, nil)
	require.NoError(t, err)
	r1, err := s1.Run()
	require.NoError(t, err)

	s2, err := New(other, nil)
	require.NoError(t, err)
	r2, err := s2.Run()
	require.NoError(t, err)

	// Not a correctness assertion — just demonstrates the seed is actually
	// being consumed rather than silently ignored.
	if r1.Completions["A"] == r2.Completions["A"] && r1.Throughput == r2.Throughput {
		t.Skip("seeds coincidentally produced identical summaries")
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	in := singleNodeInput()
	in.SimTime = 0
	_, err := New(in, nil)
	assert.Error(t, err)
}

func TestRoutingKeepsCustomersInNetwork(t *testing.T) {
	in := &config.Input{
		Nodes:         []string{"A", "B"},
		ArrivalDists:  map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 3.0}},
		ServiceDists:  map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 10.0}, "B": {Kind: "exponential", Rate: 10.0}},
		Servers:       map[string]int{"A": 1, "B": 1},
		RoutingMatrix: map[string]map[string]float64{"A": {"B": 1.0}},
		SimTime:       100,
		Warmup:        10,
		BatchCount:    1,
		Seed:          7,
	}

	sched, err := New(in, nil)
	require.NoError(t, err)
	res, err := sched.Run()
	require.NoError(t, err)

	assert.Greater(t, res.Completions["B"], int64(0))
}

func TestBreakdownWithoutRepairIsRejectedAtConstruction(t *testing.T) {
	in := singleNodeInput()
	in.BreakdownDists = map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 0.01}}
	_, err := New(in, nil)
	assert.Error(t, err, "breakdown without repair is a configuration error, caught at construction")
}

func TestBreakdownAndRepairRun(t *testing.T) {
	in := singleNodeInput()
	in.BreakdownDists = map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 0.02}}
	in.RepairDists = map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 0.5}}

	sched, err := New(in, nil)
	require.NoError(t, err)
	res, err := sched.Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Utilization["A"], 0.0)
}

func TestNoArrivalDistributionMeansNoExternalArrivals(t *testing.T) {
	in := singleNodeInput()
	delete(in.ArrivalDists, "A")

	sched, err := New(in, nil)
	require.NoError(t, err)
	res, err := sched.Run()
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.Completions["A"])
	assert.Equal(t, 0.0, res.Throughput)
}
