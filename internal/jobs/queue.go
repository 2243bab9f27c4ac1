package jobs

import (
	"errors"

	"github.com/gammazero/deque"
)

// ErrEmptyQueue is returned when popping or peeking an empty queue. Callers
// only pop within Len, so seeing it means the bookkeeping is broken.
var ErrEmptyQueue = errors.New("queue is empty")

// ProcessQueue holds the pids started for one pipeline, in start order.
// A pid lives in exactly one queue.
type ProcessQueue struct {
	q deque.Deque[int]
}

func NewProcessQueue() *ProcessQueue {
	return &ProcessQueue{}
}

func (p *ProcessQueue) PushBack(pid int) {
	p.q.PushBack(pid)
}

func (p *ProcessQueue) PopFront() (int, error) {
	if p.q.Len() == 0 {
		return 0, ErrEmptyQueue
	}
	return p.q.PopFront(), nil
}

func (p *ProcessQueue) PeekFront() (int, error) {
	if p.q.Len() == 0 {
		return 0, ErrEmptyQueue
	}
	return p.q.Front(), nil
}

func (p *ProcessQueue) PeekBack() (int, error) {
	if p.q.Len() == 0 {
		return 0, ErrEmptyQueue
	}
	return p.q.Back(), nil
}

func (p *ProcessQueue) Len() int {
	return p.q.Len()
}

func (p *ProcessQueue) IsEmpty() bool {
	return p.q.Len() == 0
}

// Pids returns a copy of the queued pids, front first.
func (p *ProcessQueue) Pids() []int {
	pids := make([]int, p.q.Len())
	for i := range pids {
		pids[i] = p.q.At(i)
	}
	return pids
}
