package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/qnetsim/pkg/config"
	"github.com/cuemby/qnetsim/pkg/log"
	"github.com/cuemby/qnetsim/pkg/metrics"
	"github.com/cuemby/qnetsim/pkg/sampling"
	"github.com/cuemby/qnetsim/pkg/simevent"
	"github.com/cuemby/qnetsim/pkg/simtypes"
	"github.com/cuemby/qnetsim/pkg/station"
)

// activeKey identifies one (node, server) slot for the active-departure
// registry.
type activeKey struct {
	node   string
	server int
}

// Scheduler runs one replication: a clean-room set of stations, a single
// random Source, and an event queue, driven from first arrival to sim_time.
// Nothing here is shared across replications — that is what lets
// pkg/replication run replications concurrently.
type Scheduler struct {
	input  *config.Input
	source *sampling.Source

	stations map[string]*station.Station
	queue    *simevent.Queue

	customers map[simtypes.CustomerID]*simtypes.Customer
	nextID    simtypes.CustomerID
	seq       uint64
	clock     float64

	warmupDone bool

	// activeDeparture maps an in-service (node, server) slot to the
	// customer it is currently serving. A departure event is stale if this
	// slot no longer names the event's customer — the server moved on to
	// someone else, or the event refers to a service that was preempted by
	// a breakdown.
	activeDeparture map[activeKey]simtypes.CustomerID

	// pendingRenege records which waiting customers still have an armed
	// renege timer. A renege event is stale if its customer is missing —
	// it was already taken into service, or already reneged via another
	// event (impossible, but the registry makes it impossible by
	// construction rather than by care).
	pendingRenege map[simtypes.CustomerID]struct{}

	arrivalSamplers   map[string]sampling.Sampler
	serviceSamplers   map[string]sampling.Sampler
	patienceSamplers  map[string]sampling.Sampler
	breakdownSamplers map[string]sampling.Sampler
	repairSamplers    map[string]sampling.Sampler

	exits int64 // post-warmup system exits, for throughput

	runID  string
	logger zerolog.Logger
	broker *simevent.Broker
}

// New builds a Scheduler for one replication. It validates input again even
// though pkg/config.Load already validated the top-level document — each
// replication gets its own seed via config.Input.WithSeed and this is where
// a bad per-replication configuration is reported (spec.md §7).
func New(input *config.Input, broker *simevent.Broker) (*Scheduler, error) {
	if err := config.Validate(input); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	s := &Scheduler{
		input:             input,
		source:            sampling.NewSource(input.Seed),
		stations:          make(map[string]*station.Station, len(input.Nodes)),
		queue:             simevent.NewQueue(),
		customers:         make(map[simtypes.CustomerID]*simtypes.Customer),
		activeDeparture:   make(map[activeKey]simtypes.CustomerID),
		pendingRenege:     make(map[simtypes.CustomerID]struct{}),
		arrivalSamplers:   make(map[string]sampling.Sampler),
		serviceSamplers:   make(map[string]sampling.Sampler),
		patienceSamplers:  make(map[string]sampling.Sampler),
		breakdownSamplers: make(map[string]sampling.Sampler),
		repairSamplers:    make(map[string]sampling.Sampler),
		runID:             runID,
		logger:            log.WithReplication(runID),
		broker:            broker,
	}

	for _, node := range input.Nodes {
		s.stations[node] = station.New(node, input.Servers[node], input.PrioritiesFor(node))

		if d, ok := input.ArrivalDists[node]; ok && d.Kind != "" {
			sampler, err := d.Resolve(s.source)
			if err != nil {
				return nil, fmt.Errorf("node %q arrival distribution: %w", node, err)
			}
			s.arrivalSamplers[node] = sampler
		}

		svc, err := input.ServiceDists[node].Resolve(s.source)
		if err != nil {
			return nil, fmt.Errorf("node %q service distribution: %w", node, err)
		}
		s.serviceSamplers[node] = svc

		if d, ok := input.PatienceDists[node]; ok && d.Kind != "" {
			sampler, err := d.Resolve(s.source)
			if err != nil {
				return nil, fmt.Errorf("node %q patience distribution: %w", node, err)
			}
			s.patienceSamplers[node] = sampler
		}

		if d, ok := input.BreakdownDists[node]; ok && d.Kind != "" {
			sampler, err := d.Resolve(s.source)
			if err != nil {
				return nil, fmt.Errorf("node %q breakdown distribution: %w", node, err)
			}
			s.breakdownSamplers[node] = sampler

			rd, err := input.RepairDists[node].Resolve(s.source)
			if err != nil {
				return nil, fmt.Errorf("node %q repair distribution: %w", node, err)
			}
			s.repairSamplers[node] = rd
		}
	}

	return s, nil
}

// RunID returns the correlation ID this replication logs and publishes
// notifications under.
func (s *Scheduler) RunID() string { return s.runID }

// schedule pushes a new event, stamping it with the next sequence number so
// ties in (Time, Kind) resolve in scheduling order.
func (s *Scheduler) schedule(t float64, kind simevent.Kind, payload simevent.Payload) {
	seq := s.seq
	s.seq++
	s.queue.PushEvent(&simevent.Event{Time: t, Kind: kind, Seq: seq, Payload: payload})
}

// scheduleArrival draws the next inter-arrival gap for node and, if it lands
// before sim_time, schedules the arrival. A configured node with no arrival
// distribution never generates external arrivals (it only receives routed
// customers). A sampled gap of +Inf is degeneracy: no arrival is scheduled,
// and the self-propagating chain for this node ends here (spec.md §7).
func (s *Scheduler) scheduleArrival(node string) {
	sampler, ok := s.arrivalSamplers[node]
	if !ok {
		return
	}
	delta := sampler.Sample()
	if math.IsInf(delta, 1) {
		return
	}
	t := s.clock + delta
	if t >= s.input.SimTime {
		return
	}
	id := s.nextID
	s.nextID++
	prio := s.stations[node].TopPriority()
	s.schedule(t, simevent.KindArrival, simevent.ArrivalPayload{Node: node, CustomerID: id, Priority: prio})
}

// scheduleBreakdown draws the next time-to-failure for (node, server). A
// sampled time of +Inf means this server never breaks down; nothing is
// scheduled.
func (s *Scheduler) scheduleBreakdown(node string, server int) {
	sampler, ok := s.breakdownSamplers[node]
	if !ok {
		return
	}
	delta := sampler.Sample()
	if math.IsInf(delta, 1) {
		return
	}
	s.schedule(s.clock+delta, simevent.KindBreakdown, simevent.BreakdownPayload{Node: node, Server: server})
}

// scheduleInitialEvents seeds the queue with each node's first external
// arrival (if configured) and each server's first breakdown (if the node
// configures breakdowns) — spec.md §4.3 Initialization.
func (s *Scheduler) scheduleInitialEvents() {
	for _, node := range s.input.Nodes {
		s.scheduleArrival(node)
		for _, srv := range s.stations[node].Servers {
			s.scheduleBreakdown(node, srv.Index)
		}
	}
}

// doWarmupReset performs the one-shot warm-up boundary crossing: every
// station's accumulators are zeroed and re-anchored at the current clock.
// It runs exactly once, the instant the clock first reaches or passes
// warmup (spec.md invariant 5).
func (s *Scheduler) doWarmupReset() {
	for _, st := range s.stations {
		st.ResetAtWarmup(s.clock)
	}
	s.warmupDone = true
	s.logger.Debug().Float64("clock", s.clock).Msg("warm-up boundary crossed")
}

// exitSystem marks a customer's departure from the network entirely (no
// further routing) and, if past warm-up, counts it toward throughput.
func (s *Scheduler) exitSystem(id simtypes.CustomerID, now float64) {
	if cust, ok := s.customers[id]; ok {
		cust.Departure = now
	}
	if s.warmupDone {
		s.exits++
	}
	delete(s.customers, id)
}

// Run drives the replication from its first events to sim_time and returns
// the resulting statistics. The loop stops when the next event's time
// exceeds sim_time or when the queue is empty; an empty queue before
// sim_time is not an error, since it simply means nothing further can ever
// happen (spec.md §7).
func (s *Scheduler) Run() (*simtypes.Result, error) {
	s.scheduleInitialEvents()

	for s.queue.Len() > 0 {
		ev := s.queue.PopEvent()
		if ev.Time > s.input.SimTime {
			break
		}
		s.clock = ev.Time

		if !s.warmupDone && s.clock >= s.input.Warmup {
			s.doWarmupReset()
		}

		s.dispatch(ev)
	}

	// Close every integral out to sim_time, not just the last dispatched
	// event's time: the network sits in its final state, un-eventfully,
	// for the remainder of the horizon, and that time still counts toward
	// the area integrals (spec.md §6: effective time is sim_time − warmup,
	// a fixed quantity, not however far the event stream happened to reach).
	for _, st := range s.stations {
		st.UpdateIntegrals(s.input.SimTime)
	}

	return s.buildResult(), nil
}

// dispatch routes one popped event to its handler and records the
// observability side effects common to every event kind.
func (s *Scheduler) dispatch(ev *simevent.Event) {
	metrics.EventsDispatchedTotal.WithLabelValues(ev.Kind.String()).Inc()

	switch p := ev.Payload.(type) {
	case simevent.ArrivalPayload:
		s.handleArrival(p, ev.Time)
	case simevent.DeparturePayload:
		s.handleDeparture(p, ev.Time)
	case simevent.RoutingPayload:
		s.handleRouting(p, ev.Time)
	case simevent.RenegePayload:
		s.handleRenege(p, ev.Time)
	case simevent.BreakdownPayload:
		s.handleBreakdown(p, ev.Time)
	case simevent.RepairPayload:
		s.handleRepair(p, ev.Time)
	}
}

func (s *Scheduler) publish(kind simevent.Kind, now float64, node string, id simtypes.CustomerID, msg string) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(&simevent.Notification{Kind: kind, Time: now, Node: node, CustomerID: id, Message: msg})
}
