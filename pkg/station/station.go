// Package station implements the per-node state model: ordered priority
// queues of waiting customers, a fixed set of servers, and the
// time-integrated counters the engine uses to compute steady-state metrics.
package station

import (
	"fmt"
	"sort"

	"github.com/cuemby/qnetsim/pkg/simtypes"
)

// Station is one node in the queueing network.
type Station struct {
	Name       string
	priorities []int // ordered ascending; lowest number = highest priority
	queues     map[int][]*simtypes.Customer
	Servers    []*simtypes.Server

	queueArea     float64
	lastQueueTime float64
	busyArea      []float64
	downArea      []float64
	lastServerAt  []float64

	Completions           int64
	PostWarmupCompletions  int64
	PostWarmupReneges      int64
	Waits                  []float64
	Sojourns               []float64
	WarmupDone             bool
}

// New creates a Station with numServers servers, all idle, and the given
// ordered priority classes (lowest number = highest priority).
func New(name string, numServers int, priorities []int) *Station {
	prios := make([]int, len(priorities))
	copy(prios, priorities)
	sort.Ints(prios)

	servers := make([]*simtypes.Server, numServers)
	for i := range servers {
		servers[i] = simtypes.NewServer(i)
	}

	queues := make(map[int][]*simtypes.Customer, len(prios))
	for _, p := range prios {
		queues[p] = nil
	}

	return &Station{
		Name:         name,
		priorities:   prios,
		queues:       queues,
		Servers:      servers,
		busyArea:     make([]float64, numServers),
		downArea:     make([]float64, numServers),
		lastServerAt: make([]float64, numServers),
	}
}

// TopPriority returns the station's highest-priority (lowest-numbered) class
// — the class assigned to external arrivals (spec.md §4.3).
func (s *Station) TopPriority() int {
	return s.priorities[0]
}

// HasPriority reports whether class is one of this station's configured
// priority classes.
func (s *Station) HasPriority(class int) bool {
	_, ok := s.queues[class]
	return ok
}

// Enqueue appends cust to the queue of its priority class. Returns an error
// if the class is not one of the station's configured priorities — this
// would be a configuration bug, since every arrival's priority is assigned
// from the station's own priority list.
func (s *Station) Enqueue(cust *simtypes.Customer) error {
	q, ok := s.queues[cust.Priority]
	if !ok {
		return fmt.Errorf("station %s: no queue configured for priority class %d", s.Name, cust.Priority)
	}
	s.queues[cust.Priority] = append(q, cust)
	return nil
}

// PopNextCustomer scans priority classes from lowest number (highest
// priority) upward and returns the head of the first non-empty queue.
// Returns (nil, false) if every queue is empty.
func (s *Station) PopNextCustomer() (*simtypes.Customer, bool) {
	for _, p := range s.priorities {
		q := s.queues[p]
		if len(q) == 0 {
			continue
		}
		cust := q[0]
		s.queues[p] = q[1:]
		return cust, true
	}
	return nil, false
}

// RemoveCustomer removes cust from whichever priority queue currently holds
// it (used by renege handling). Linear search is acceptable here: reneges
// are rare relative to arrivals (spec.md §9). Returns false if cust was not
// found in any queue.
func (s *Station) RemoveCustomer(id simtypes.CustomerID) bool {
	for _, p := range s.priorities {
		q := s.queues[p]
		for i, c := range q {
			if c.ID == id {
				s.queues[p] = append(q[:i], q[i+1:]...)
				return true
			}
		}
	}
	return false
}

// FindIdleServer returns the lowest-indexed idle server, or (nil, false).
func (s *Station) FindIdleServer() (*simtypes.Server, bool) {
	for _, srv := range s.Servers {
		if srv.State == simtypes.ServerIdle {
			return srv, true
		}
	}
	return nil, false
}

// QueueLength returns the sum of all priority-class queue sizes.
func (s *Station) QueueLength() int {
	total := 0
	for _, q := range s.queues {
		total += len(q)
	}
	return total
}

// UpdateIntegrals closes the open time interval since the previous update:
// queue-area accumulates queue-length × Δt, and each server's busy-area or
// down-area accumulates Δt depending on its current state. Accumulation is
// gated by WarmupDone so the transient period never pollutes steady-state
// statistics (spec.md invariant 5).
func (s *Station) UpdateIntegrals(now float64) {
	if s.WarmupDone {
		dt := now - s.lastQueueTime
		s.queueArea += float64(s.QueueLength()) * dt
	}
	s.lastQueueTime = now

	for i, srv := range s.Servers {
		if s.WarmupDone {
			dt := now - s.lastServerAt[i]
			switch srv.State {
			case simtypes.ServerBusy:
				s.busyArea[i] += dt
			case simtypes.ServerDown:
				s.downArea[i] += dt
			}
		}
		s.lastServerAt[i] = now
	}
}

// ResetAtWarmup zeroes every area counter and re-anchors the per-series
// last-update timestamps to now, then marks warm-up as done. Called exactly
// once, the instant the simulation clock crosses the warm-up boundary.
func (s *Station) ResetAtWarmup(now float64) {
	s.queueArea = 0
	s.lastQueueTime = now
	for i := range s.Servers {
		s.busyArea[i] = 0
		s.downArea[i] = 0
		s.lastServerAt[i] = now
	}
	s.WarmupDone = true
}

// QueueArea returns the accumulated queue-length time integral.
func (s *Station) QueueArea() float64 { return s.queueArea }

// BusyArea returns the accumulated busy-time integral for server i.
func (s *Station) BusyArea(i int) float64 { return s.busyArea[i] }

// DownArea returns the accumulated down-time integral for server i.
func (s *Station) DownArea(i int) float64 { return s.downArea[i] }

// TotalBusyArea sums BusyArea across all servers.
func (s *Station) TotalBusyArea() float64 {
	var total float64
	for _, a := range s.busyArea {
		total += a
	}
	return total
}

// TotalDownArea sums DownArea across all servers.
func (s *Station) TotalDownArea() float64 {
	var total float64
	for _, a := range s.downArea {
		total += a
	}
	return total
}

// RecordCompletion records a service completion. If postWarmup, it also
// records the wait and sojourn times and increments the post-warmup
// completion counter (spec.md §4.3 Departure handler).
func (s *Station) RecordCompletion(postWarmup bool, wait, sojourn float64) {
	s.Completions++
	if postWarmup {
		s.PostWarmupCompletions++
		s.Waits = append(s.Waits, wait)
		s.Sojourns = append(s.Sojourns, sojourn)
	}
}

// RecordRenege increments the post-warmup renege counter if postWarmup.
func (s *Station) RecordRenege(postWarmup bool) {
	if postWarmup {
		s.PostWarmupReneges++
	}
}
