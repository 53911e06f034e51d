/*
Package simevent defines the scheduled Event, its six kinds and their strict
tie-break order, the min-priority Queue that holds them, and a Broker for
publishing informational Notifications to external observers.

Event is a tagged variant: each Kind carries its own Payload type
(ArrivalPayload, DeparturePayload, ...) rather than an open attribute bag, so
a handler in pkg/engine recovers the payload with a type switch instead of
probing named fields.

Queue orders events lexicographically over (Time, Kind, Seq). Kind's integer
values are the exact tie-break priority spec.md requires: departure, routing,
renege, repair, arrival, breakdown. This is a correctness property, not an
optimization — reordering it changes which customer a simultaneous departure
and breakdown race against.
*/
package simevent
