package shell

import (
	"strings"

	"quash/internal/jobs"
)

// createJob wraps the processes of a background pipeline into the next
// job. Job ids are never reused.
func (s *Session) createJob(pids *jobs.ProcessQueue, line string) (*jobs.Job, error) {
	job, err := jobs.NewJob(s.nextJobID, pids, line)
	if err != nil {
		return nil, err
	}
	s.jobs.PushBack(job)
	s.nextJobID++
	s.logger.Printf("job %d created: pids %v", job.ID, pids.Pids())
	return job, nil
}

// listing renders the job table the way the jobs builtin prints it.
func (s *Session) listing() string {
	var b strings.Builder
	s.jobs.List(jobs.NewPrinter(&b))
	return b.String()
}
