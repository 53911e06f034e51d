package replication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/qnetsim/pkg/config"
	"github.com/cuemby/qnetsim/pkg/simtypes"
)

func testInput(batchCount int) *config.Input {
	return &config.Input{
		Nodes:        []string{"A"},
		ArrivalDists: map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 2.0}},
		ServiceDists: map[string]config.DistSpec{"A": {Kind: "exponential", Rate: 5.0}},
		Servers:      map[string]int{"A": 2},
		SimTime:      150,
		Warmup:       15,
		BatchCount:   batchCount,
		Seed:         1,
	}
}

func TestDriverSingleBatchIsDegenerateCI(t *testing.T) {
	d := New(testInput(1), nil)
	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Throughput, res.ThroughputCI[0])
	assert.Equal(t, res.Throughput, res.ThroughputCI[1])
}

func TestDriverMultiBatchProducesWiderOrEqualCI(t *testing.T) {
	d := New(testInput(5), nil)
	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.ThroughputCI[0], res.Throughput)
	assert.GreaterOrEqual(t, res.ThroughputCI[1], res.Throughput)
}

func TestDriverUsesDistinctSeedsPerBatch(t *testing.T) {
	in := testInput(3)
	seeds := map[uint64]bool{}
	for b := 0; b < in.BatchCount; b++ {
		seeds[in.Seed+seedStride*uint64(b)] = true
	}
	assert.Len(t, seeds, 3, "every batch must derive a distinct seed")
}

func TestAggregateEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
}

func TestAggregateSingleResultPassesThrough(t *testing.T) {
	r := simtypes.NewResult([]string{"A"})
	r.Throughput = 3.5
	got := Aggregate([]*simtypes.Result{r})
	assert.Same(t, r, got)
}

func TestConfidenceIntervalDegenerateForOneSample(t *testing.T) {
	mean, ci := confidenceInterval([]float64{4.2})
	assert.Equal(t, 4.2, mean)
	assert.Equal(t, [2]float64{4.2, 4.2}, ci)
}

func TestConfidenceIntervalBracketsMean(t *testing.T) {
	mean, ci := confidenceInterval([]float64{1, 2, 3, 4, 5})
	assert.Equal(t, 3.0, mean)
	assert.True(t, ci[0] < mean && ci[1] > mean)
}
