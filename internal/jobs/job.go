// Package jobs tracks background pipelines and the processes that belong to
// them.
package jobs

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
)

var ErrJobNotFound = errors.New("job not found")

// Job is a backgrounded pipeline. Pid is the last process started in the
// pipeline and stays the job's display pid until the whole job is gone.
type Job struct {
	ID      int
	Pid     int
	Command string
	Pids    *ProcessQueue
}

// NewJob takes ownership of pids, which must not be empty.
func NewJob(id int, pids *ProcessQueue, command string) (*Job, error) {
	last, err := pids.PeekBack()
	if err != nil {
		return nil, fmt.Errorf("job %d: %w", id, err)
	}
	return &Job{
		ID:      id,
		Pid:     last,
		Command: command,
		Pids:    pids,
	}, nil
}

// Table is the ordered set of live background jobs.
type Table struct {
	q deque.Deque[*Job]
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) PushBack(job *Job) {
	t.q.PushBack(job)
}

func (t *Table) PopFront() (*Job, error) {
	if t.q.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	return t.q.PopFront(), nil
}

func (t *Table) PeekFront() (*Job, error) {
	if t.q.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	return t.q.Front(), nil
}

func (t *Table) PeekBack() (*Job, error) {
	if t.q.Len() == 0 {
		return nil, ErrEmptyQueue
	}
	return t.q.Back(), nil
}

func (t *Table) Len() int {
	return t.q.Len()
}

func (t *Table) IsEmpty() bool {
	return t.q.Len() == 0
}

// Find returns the job with the given id without removing it.
func (t *Table) Find(id int) (*Job, error) {
	for i := 0; i < t.q.Len(); i++ {
		if job := t.q.At(i); job.ID == id {
			return job, nil
		}
	}
	return nil, fmt.Errorf("job %d: %w", id, ErrJobNotFound)
}

// List reports every job to n in table order. The table is left as is.
func (t *Table) List(n Notifier) {
	for i := 0; i < t.q.Len(); i++ {
		job := t.q.At(i)
		n.JobListed(job.ID, job.Pid, job.Command)
	}
}
