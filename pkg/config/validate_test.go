package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() *Input {
	return &Input{
		Nodes:        []string{"A"},
		ServiceDists: map[string]DistSpec{"A": {Kind: "exponential", Rate: 1.0}},
		Servers:      map[string]int{"A": 1},
		SimTime:      10,
		Warmup:       0,
		BatchCount:   1,
		Seed:         1,
	}
}

func TestValidateAcceptsMinimalInput(t *testing.T) {
	in := baseInput()
	require.NoError(t, Validate(in))
}

func TestValidateRejectsNoNodes(t *testing.T) {
	in := baseInput()
	in.Nodes = nil
	assert.Error(t, Validate(in))
}

func TestValidateRejectsNonPositiveSimTime(t *testing.T) {
	in := baseInput()
	in.SimTime = 0
	assert.Error(t, Validate(in))
}

func TestValidateRejectsWarmupGESimTime(t *testing.T) {
	in := baseInput()
	in.Warmup = 10
	in.SimTime = 10
	assert.Error(t, Validate(in))
}

func TestValidateRejectsMissingServiceDist(t *testing.T) {
	in := baseInput()
	delete(in.ServiceDists, "A")
	assert.Error(t, Validate(in))
}

func TestValidateRejectsNonPositiveServerCount(t *testing.T) {
	in := baseInput()
	in.Servers["A"] = 0
	assert.Error(t, Validate(in))
}

func TestValidateRejectsBreakdownWithoutRepair(t *testing.T) {
	in := baseInput()
	in.BreakdownDists = map[string]DistSpec{"A": {Kind: "exponential", Rate: 0.1}}
	assert.Error(t, Validate(in))
}

func TestValidateAcceptsBreakdownWithRepair(t *testing.T) {
	in := baseInput()
	in.BreakdownDists = map[string]DistSpec{"A": {Kind: "exponential", Rate: 0.1}}
	in.RepairDists = map[string]DistSpec{"A": {Kind: "exponential", Rate: 1.0}}
	assert.NoError(t, Validate(in))
}

func TestValidateRejectsUnknownRoutingDestination(t *testing.T) {
	in := baseInput()
	in.RoutingMatrix = map[string]map[string]float64{"A": {"Z": 0.5}}
	assert.Error(t, Validate(in))
}

func TestValidateRejectsOutOfRangeProbability(t *testing.T) {
	in := baseInput()
	in.Nodes = []string{"A", "B"}
	in.ServiceDists["B"] = DistSpec{Kind: "exponential", Rate: 1.0}
	in.Servers["B"] = 1
	in.RoutingMatrix = map[string]map[string]float64{"A": {"B": 1.5}}
	assert.Error(t, Validate(in))
}

func TestValidateRejectsBatchCountZero(t *testing.T) {
	in := baseInput()
	in.BatchCount = 0
	assert.Error(t, Validate(in))
}
