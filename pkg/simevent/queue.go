package simevent

import "container/heap"

// Queue is a min-priority queue of events ordered by (Time, Kind, Seq) —
// strict total order per spec.md §4.1. It implements container/heap.Interface
// directly; callers use PushEvent/PopEvent, which go through heap.Push/heap.Pop,
// rather than the Push/Pop/Less/Swap methods.
type Queue []*Event

func (q Queue) Len() int { return len(q) }

func (q Queue) Less(i, j int) bool {
	if q[i].Time != q[j].Time {
		return q[i].Time < q[j].Time
	}
	if q[i].Kind != q[j].Kind {
		return q[i].Kind < q[j].Kind
	}
	return q[i].Seq < q[j].Seq
}

func (q Queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *Queue) Push(x any) {
	*q = append(*q, x.(*Event))
}

func (q *Queue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}

// NewQueue returns an empty, heap-initialized Queue.
func NewQueue() *Queue {
	q := make(Queue, 0)
	heap.Init(&q)
	return &q
}

// PushEvent schedules ev into the queue.
func (q *Queue) PushEvent(ev *Event) {
	heap.Push(q, ev)
}

// PopEvent removes and returns the earliest-ordered event. Panics if the queue is
// empty; callers must check Len first.
func (q *Queue) PopEvent() *Event {
	return heap.Pop(q).(*Event)
}
