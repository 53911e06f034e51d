package engine

import (
	"math"

	"github.com/cuemby/qnetsim/pkg/metrics"
	"github.com/cuemby/qnetsim/pkg/simevent"
	"github.com/cuemby/qnetsim/pkg/simtypes"
)

// handleArrival admits a customer to node — either a fresh external arrival
// or a routed re-entry carrying an existing CustomerID. If a server is idle
// it starts service immediately; otherwise the customer joins its priority
// queue and, if node has a patience distribution, a renege timer is armed.
// Either way the node's self-propagating arrival chain advances (spec.md
// §4.3).
func (s *Scheduler) handleArrival(p simevent.ArrivalPayload, now float64) {
	st := s.stations[p.Node]
	cust := simtypes.NewCustomer(p.CustomerID, p.Priority, now)
	s.customers[p.CustomerID] = cust

	st.UpdateIntegrals(now)
	metrics.CustomersArrivedTotal.WithLabelValues(p.Node).Inc()
	s.publish(simevent.KindArrival, now, p.Node, p.CustomerID, "arrival")

	if srv, ok := st.FindIdleServer(); ok {
		s.startService(p.Node, cust, srv, now)
	} else {
		_ = st.Enqueue(cust) // priority is always one of the station's own classes
		if sampler, ok := s.patienceSamplers[p.Node]; ok {
			delta := sampler.Sample()
			if !math.IsInf(delta, 1) {
				s.schedule(now+delta, simevent.KindRenege, simevent.RenegePayload{Node: p.Node, CustomerID: cust.ID})
				s.pendingRenege[cust.ID] = struct{}{}
			}
		}
	}

	s.scheduleArrival(p.Node)
}

// startService occupies srv with cust and, unless the sampled service time
// is degenerate (+Inf — the server is occupied for the rest of the
// replication), schedules the matching departure.
func (s *Scheduler) startService(node string, cust *simtypes.Customer, srv *simtypes.Server, now float64) {
	st := s.stations[node]
	st.UpdateIntegrals(now)

	srv.State = simtypes.ServerBusy
	srv.Current = cust.ID
	srv.HasCust = true
	cust.ServiceStart = now
	delete(s.pendingRenege, cust.ID)
	s.activeDeparture[activeKey{node: node, server: srv.Index}] = cust.ID

	duration := s.serviceSamplers[node].Sample()
	if !math.IsInf(duration, 1) {
		s.schedule(now+duration, simevent.KindDeparture, simevent.DeparturePayload{Node: node, CustomerID: cust.ID, Server: srv.Index})
	}
}

// handleDeparture completes a service. The event is stale — and silently
// discarded — if the active-departure registry no longer names this
// customer at this (node, server) slot, which happens when a breakdown
// preempted the service the event was scheduled for. A freed server
// immediately pulls the next queued customer, then the departing customer
// either routes onward or exits the system (spec.md §4.3).
func (s *Scheduler) handleDeparture(p simevent.DeparturePayload, now float64) {
	key := activeKey{node: p.Node, server: p.Server}
	owner, ok := s.activeDeparture[key]
	if !ok || owner != p.CustomerID {
		metrics.StaleEventsDiscardedTotal.WithLabelValues(simevent.KindDeparture.String()).Inc()
		return
	}

	st := s.stations[p.Node]
	srv := st.Servers[p.Server]
	cust := s.customers[p.CustomerID]

	st.UpdateIntegrals(now)

	var wait, sojourn float64
	if s.warmupDone {
		wait = cust.ServiceStart - cust.ArrivedAt
		sojourn = now - cust.ArrivedAt
	}
	st.RecordCompletion(s.warmupDone, wait, sojourn)

	delete(s.activeDeparture, key)
	srv.State = simtypes.ServerIdle
	srv.Current = 0
	srv.HasCust = false
	st.UpdateIntegrals(now)

	s.publish(simevent.KindDeparture, now, p.Node, p.CustomerID, "departure")

	if next, ok := st.PopNextCustomer(); ok {
		s.startService(p.Node, next, srv, now)
	}

	if len(s.input.RoutingDestinations(p.Node)) > 0 {
		s.schedule(now, simevent.KindRouting, simevent.RoutingPayload{Node: p.Node, CustomerID: p.CustomerID})
		return
	}

	s.exitSystem(p.CustomerID, now)
}

// handleRouting fires at the same instant as the departure that triggered
// it. It draws one uniform sample directly from the replication's shared
// Source and walks the node's routing row — sorted by destination name for
// reproducibility, since Go map iteration order is not stable — accumulating
// probability mass. The first destination whose cumulative mass reaches the
// draw receives the customer as a fresh arrival; any residual mass below 1
// sends the customer out of the system (spec.md §4.3, Open Question).
func (s *Scheduler) handleRouting(p simevent.RoutingPayload, now float64) {
	u := s.source.Float64()
	cum := 0.0
	for _, entry := range s.input.RoutingDestinations(p.Node) {
		cum += entry.Prob
		if u <= cum {
			prio := s.stations[entry.Dest].TopPriority()
			s.schedule(now, simevent.KindArrival, simevent.ArrivalPayload{Node: entry.Dest, CustomerID: p.CustomerID, Priority: prio})
			return
		}
	}
	s.exitSystem(p.CustomerID, now)
}

// handleRenege fires when a waiting customer's patience expires. The event
// is stale — and silently discarded — if the pending-renege registry no
// longer holds this customer, which happens once the customer has already
// been taken into service (spec.md §4.3, invariant 4).
func (s *Scheduler) handleRenege(p simevent.RenegePayload, now float64) {
	if _, armed := s.pendingRenege[p.CustomerID]; !armed {
		metrics.StaleEventsDiscardedTotal.WithLabelValues(simevent.KindRenege.String()).Inc()
		return
	}

	st := s.stations[p.Node]
	st.RemoveCustomer(p.CustomerID)
	st.UpdateIntegrals(now)
	st.RecordRenege(s.warmupDone)
	delete(s.pendingRenege, p.CustomerID)
	delete(s.customers, p.CustomerID)

	if s.warmupDone {
		metrics.CustomersRenegedTotal.WithLabelValues(p.Node).Inc()
	}
	s.publish(simevent.KindRenege, now, p.Node, p.CustomerID, "renege")
}

// handleBreakdown forces a server down. Any customer currently in service at
// that server is preempted: the active-departure registry entry is
// discarded so the matching departure event (if one was even scheduled) is
// recognized as stale, and the customer is re-enqueued at its original
// priority, fully resampling its service time once a server is eventually
// free again (spec.md §4.3, Open Question: no partial-service credit).
func (s *Scheduler) handleBreakdown(p simevent.BreakdownPayload, now float64) {
	st := s.stations[p.Node]
	srv := st.Servers[p.Server]

	st.UpdateIntegrals(now)

	if srv.State == simtypes.ServerBusy {
		cust := s.customers[srv.Current]
		delete(s.activeDeparture, activeKey{node: p.Node, server: p.Server})
		cust.ServiceStart = simtypes.NotSet
		_ = st.Enqueue(cust)
		srv.Current = 0
		srv.HasCust = false
	}

	srv.State = simtypes.ServerDown
	st.UpdateIntegrals(now)

	if s.warmupDone {
		metrics.ServerBreakdownsTotal.WithLabelValues(p.Node).Inc()
	}
	s.publish(simevent.KindBreakdown, now, p.Node, 0, "breakdown")

	if sampler, ok := s.repairSamplers[p.Node]; ok {
		delta := sampler.Sample()
		if !math.IsInf(delta, 1) {
			s.schedule(now+delta, simevent.KindRepair, simevent.RepairPayload{Node: p.Node, Server: p.Server})
		}
	}
}

// handleRepair brings a server back to idle, immediately pulls a queued
// customer into service if one is waiting, and schedules this server's next
// breakdown (spec.md §4.3).
func (s *Scheduler) handleRepair(p simevent.RepairPayload, now float64) {
	st := s.stations[p.Node]
	srv := st.Servers[p.Server]

	st.UpdateIntegrals(now)
	srv.State = simtypes.ServerIdle
	st.UpdateIntegrals(now)

	s.publish(simevent.KindRepair, now, p.Node, 0, "repair")

	if next, ok := st.PopNextCustomer(); ok {
		s.startService(p.Node, next, srv, now)
	}

	s.scheduleBreakdown(p.Node, p.Server)
}
