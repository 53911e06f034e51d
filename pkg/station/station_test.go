package station

import (
	"testing"

	"github.com/cuemby/qnetsim/pkg/simtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueuePriorityOrder(t *testing.T) {
	s := New("A", 1, []int{0, 1})

	low := simtypes.NewCustomer(1, 1, 0)
	high := simtypes.NewCustomer(2, 0, 0)

	require.NoError(t, s.Enqueue(low))
	require.NoError(t, s.Enqueue(high))

	next, ok := s.PopNextCustomer()
	require.True(t, ok)
	assert.Equal(t, simtypes.CustomerID(2), next.ID, "higher priority (lower number) must pop first")

	next, ok = s.PopNextCustomer()
	require.True(t, ok)
	assert.Equal(t, simtypes.CustomerID(1), next.ID)

	_, ok = s.PopNextCustomer()
	assert.False(t, ok)
}

func TestEnqueueUnknownPriorityErrors(t *testing.T) {
	s := New("A", 1, []int{0})
	cust := simtypes.NewCustomer(1, 7, 0)
	err := s.Enqueue(cust)
	assert.Error(t, err)
}

func TestFindIdleServer(t *testing.T) {
	s := New("A", 2, []int{0})
	srv, ok := s.FindIdleServer()
	require.True(t, ok)
	assert.Equal(t, 0, srv.Index)

	s.Servers[0].State = simtypes.ServerBusy
	srv, ok = s.FindIdleServer()
	require.True(t, ok)
	assert.Equal(t, 1, srv.Index)

	s.Servers[1].State = simtypes.ServerDown
	_, ok = s.FindIdleServer()
	assert.False(t, ok)
}

func TestQueueLength(t *testing.T) {
	s := New("A", 1, []int{0, 1})
	assert.Equal(t, 0, s.QueueLength())
	_ = s.Enqueue(simtypes.NewCustomer(1, 0, 0))
	_ = s.Enqueue(simtypes.NewCustomer(2, 1, 0))
	assert.Equal(t, 2, s.QueueLength())
}

func TestUpdateIntegralsGatedByWarmup(t *testing.T) {
	s := New("A", 1, []int{0})
	s.Servers[0].State = simtypes.ServerBusy
	s.UpdateIntegrals(0)
	s.UpdateIntegrals(5)
	assert.Equal(t, 0.0, s.BusyArea(0), "no accumulation before warmup")

	s.ResetAtWarmup(5)
	s.UpdateIntegrals(10)
	assert.Equal(t, 5.0, s.BusyArea(0))
}

func TestResetAtWarmupZeroesCounters(t *testing.T) {
	s := New("A", 1, []int{0})
	s.ResetAtWarmup(0)
	s.Servers[0].State = simtypes.ServerBusy
	s.UpdateIntegrals(3)
	assert.Equal(t, 3.0, s.BusyArea(0))

	s.ResetAtWarmup(3)
	assert.Equal(t, 0.0, s.BusyArea(0))
	assert.Equal(t, 0.0, s.QueueArea())
}

func TestRemoveCustomer(t *testing.T) {
	s := New("A", 1, []int{0, 1})
	_ = s.Enqueue(simtypes.NewCustomer(1, 0, 0))
	_ = s.Enqueue(simtypes.NewCustomer(2, 1, 0))

	assert.True(t, s.RemoveCustomer(2))
	assert.Equal(t, 1, s.QueueLength())
	assert.False(t, s.RemoveCustomer(99))
}
