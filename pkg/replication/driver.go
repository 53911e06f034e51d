package replication

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cuemby/qnetsim/pkg/config"
	"github.com/cuemby/qnetsim/pkg/engine"
	"github.com/cuemby/qnetsim/pkg/log"
	"github.com/cuemby/qnetsim/pkg/metrics"
	"github.com/cuemby/qnetsim/pkg/simevent"
	"github.com/cuemby/qnetsim/pkg/simtypes"
)

// seedStride is the per-batch seed offset (spec.md §4.4): replication b
// uses seed base_seed + seedStride*b, so batches never share a random
// stream regardless of how many are configured.
const seedStride = 1000

// Driver runs config.BatchCount independent replications of input and
// aggregates their throughput into a confidence interval.
type Driver struct {
	input  *config.Input
	broker *simevent.Broker
	logger zerolog.Logger
}

// New creates a Driver for input. broker may be nil if no caller wants
// per-event notifications.
func New(input *config.Input, broker *simevent.Broker) *Driver {
	return &Driver{
		input:  input,
		broker: broker,
		logger: log.WithComponent("replication"),
	}
}

// Run executes every replication concurrently — they share no mutable
// state, so an errgroup with one goroutine per replication is safe — and
// returns the aggregated Result. A single replication's Scheduler
// construction or run error aborts the whole batch.
func (d *Driver) Run(ctx context.Context) (*simtypes.Result, error) {
	batchID := uuid.New().String()
	logger := d.logger.With().Str("batch_id", batchID).Int("batch_count", d.input.BatchCount).Logger()
	logger.Info().Msg("starting replication batch")

	results := make([]*simtypes.Result, d.input.BatchCount)

	g, gctx := errgroup.WithContext(ctx)
	for b := 0; b < d.input.BatchCount; b++ {
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := d.runOne(b)
			if err != nil {
				return fmt.Errorf("replication %d: %w", b, err)
			}
			results[b] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info().Msg("replication batch complete")
	return Aggregate(results), nil
}

// runOne runs a single replication with a derived seed and records its
// duration and observed throughput.
func (d *Driver) runOne(batch int) (*simtypes.Result, error) {
	seed := d.input.Seed + seedStride*uint64(batch)
	replInput := d.input.WithSeed(seed)

	sched, err := engine.New(replInput, d.broker)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewTimer()
	res, err := sched.Run()
	timer.ObserveDuration(metrics.ReplicationDuration)
	if err != nil {
		return nil, err
	}

	metrics.ReplicationsCompletedTotal.Inc()
	metrics.ThroughputObserved.Observe(res.Throughput)

	return res, nil
}

// Aggregate combines per-replication results into one Result: Throughput and
// ThroughputCI become the batch mean and its confidence interval; every
// other per-node statistic passes through from the last replication
// unchanged (spec.md §4.4). Returns nil if results is empty.
func Aggregate(results []*simtypes.Result) *simtypes.Result {
	n := len(results)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return results[0]
	}

	throughputs := make([]float64, n)
	for i, r := range results {
		throughputs[i] = r.Throughput
	}

	mean, ci := confidenceInterval(throughputs)

	// The returned result is that of the last replication, with only
	// Throughput/ThroughputCI overwritten by the batch aggregate — every
	// other per-node metric passes through from that last replication
	// unchanged (spec.md §4.4).
	out := results[n-1]
	out.Throughput = mean
	out.ThroughputCI = ci
	return out
}

// confidenceInterval computes the sample mean and a mean ± 2·SE confidence
// interval from xs, using Bessel's correction for the sample variance
// (spec.md §4.4). With a single observation the interval is degenerate —
// [mean, mean] — since a variance cannot be estimated from one sample.
func confidenceInterval(xs []float64) (mean float64, ci [2]float64) {
	n := len(xs)
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	if n < 2 {
		return mean, [2]float64{mean, mean}
	}

	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	variance := sumSq / float64(n-1)
	se := math.Sqrt(variance / float64(n))
	halfWidth := 2 * se

	return mean, [2]float64{mean - halfWidth, mean + halfWidth}
}
