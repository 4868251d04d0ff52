package model

import (
	"container/heap"
	"sort"
)

// TaskQueue is a priority queue of tasks ordered by Task.Less. The zero value
// is ready to use.
type TaskQueue struct {
	h taskHeap
}

type taskHeap []*Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)        { *h = append(*h, x.(*Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// NewTaskQueue returns a queue holding tasks.
func NewTaskQueue(tasks ...*Task) *TaskQueue {
	q := &TaskQueue{h: make(taskHeap, 0, len(tasks))}
	for _, t := range tasks {
		q.h = append(q.h, t)
	}
	heap.Init(&q.h)
	return q
}

func (q *TaskQueue) Len() int { return q.h.Len() }

// Push inserts t.
func (q *TaskQueue) Push(t *Task) { heap.Push(&q.h, t) }

// Pop removes and returns the highest priority task, or nil when empty.
func (q *TaskQueue) Pop() *Task {
	if q.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*Task)
}

// Peek returns the highest priority task without removing it.
func (q *TaskQueue) Peek() *Task {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h[0]
}

// Remove deletes the task with the given id and returns it.
func (q *TaskQueue) Remove(id int) (*Task, bool) {
	for i, t := range q.h {
		if t.ID == id {
			heap.Remove(&q.h, i)
			return t, true
		}
	}
	return nil, false
}

// Contains reports whether a task with the given id is queued.
func (q *TaskQueue) Contains(id int) bool {
	for _, t := range q.h {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Tasks returns the queued tasks in priority order without modifying the
// queue.
func (q *TaskQueue) Tasks() []*Task {
	out := make([]*Task, len(q.h))
	copy(out, q.h)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Drain empties the queue and returns its tasks in priority order.
func (q *TaskQueue) Drain() []*Task {
	out := q.Tasks()
	q.h = q.h[:0]
	return out
}
