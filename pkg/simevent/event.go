package simevent

import "github.com/cuemby/qnetsim/pkg/simtypes"

// Kind is the event type tag. Ordering in the event queue is lexicographic
// over (time, kind); the integer values below are exactly the tie-break
// priority required by spec.md §4.1 — departure first, breakdown last. This
// is a correctness property: servers must free (departure) before routing,
// renege timers must resolve before repair brings a server back, and new
// arrivals/breakdowns must land last so the state at that instant is
// otherwise settled.
type Kind int

const (
	KindDeparture Kind = iota
	KindRouting
	KindRenege
	KindRepair
	KindArrival
	KindBreakdown
)

func (k Kind) String() string {
	switch k {
	case KindDeparture:
		return "departure"
	case KindRouting:
		return "routing"
	case KindRenege:
		return "renege"
	case KindRepair:
		return "repair"
	case KindArrival:
		return "arrival"
	case KindBreakdown:
		return "breakdown"
	default:
		return "unknown"
	}
}

// Payload carries the fields relevant to one event kind. Each kind has its
// own concrete payload type; handlers in pkg/engine recover it with a type
// switch instead of reading a loosely-typed attribute bag.
type Payload interface {
	isPayload()
}

// ArrivalPayload schedules a customer's arrival at a node — either an
// external arrival (fresh CustomerID) or a routed re-entry (carried ID).
type ArrivalPayload struct {
	Node       string
	CustomerID simtypes.CustomerID
	Priority   int
}

// DeparturePayload marks the end of a service at (Node, Server). The
// scheduler validates it against the active-departure registry before
// acting on it.
type DeparturePayload struct {
	Node       string
	CustomerID simtypes.CustomerID
	Server     int
}

// RoutingPayload fires at the same instant as the departure that triggered
// it, modeling a zero-duration transit between stations.
type RoutingPayload struct {
	Node       string
	CustomerID simtypes.CustomerID
}

// RenegePayload fires when a waiting customer's patience expires. The
// scheduler validates it against the pending-renege registry.
type RenegePayload struct {
	Node       string
	CustomerID simtypes.CustomerID
}

// BreakdownPayload forces a server down, preempting any in-progress service.
type BreakdownPayload struct {
	Node   string
	Server int
}

// RepairPayload returns a server from down to idle.
type RepairPayload struct {
	Node   string
	Server int
}

func (ArrivalPayload) isPayload()   {}
func (DeparturePayload) isPayload() {}
func (RoutingPayload) isPayload()   {}
func (RenegePayload) isPayload()    {}
func (BreakdownPayload) isPayload() {}
func (RepairPayload) isPayload()    {}

// Event is a timestamped, tagged record scheduled into a Queue. Seq
// breaks ties between events of identical (Time, Kind) in insertion order,
// which is what makes replays with a fixed seed bit-identical (spec.md §5).
type Event struct {
	Time    float64
	Kind    Kind
	Seq     uint64
	Payload Payload
}
