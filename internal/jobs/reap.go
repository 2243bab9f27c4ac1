package jobs

import (
	"errors"
	"fmt"
)

// Poller checks a process without blocking.
type Poller interface {
	// Poll reports whether pid has exited and was reaped.
	Poll(pid int) (exited bool, err error)
}

// Reap makes one pass over the jobs present when it is called. Exited
// processes are dropped from their job, jobs with no processes left are
// reported to n and retired, and the rest go back to the end of the table.
//
// A pid whose poll fails is dropped as well, so a broken pid cannot pin its
// job forever; the failures are returned together.
func (t *Table) Reap(p Poller, n Notifier) error {
	var errs []error

	for range t.Len() {
		job, err := t.PopFront()
		if err != nil {
			return err
		}

		for range job.Pids.Len() {
			pid, err := job.Pids.PopFront()
			if err != nil {
				return err
			}
			exited, err := p.Poll(pid)
			if err != nil {
				errs = append(errs, fmt.Errorf("job %d: poll %d: %w", job.ID, pid, err))
				continue
			}
			if !exited {
				job.Pids.PushBack(pid)
			}
		}

		if job.Pids.IsEmpty() {
			n.JobCompleted(job.ID, job.Pid, job.Command)
			continue
		}
		t.PushBack(job)
	}

	return errors.Join(errs...)
}
