package shell

import (
	"errors"
	"fmt"
	"log"
	"os"

	"quash/internal/command"
	"quash/internal/jobs"
	"quash/internal/proc"
)

type waiter interface {
	Wait(pid int) error
	Poll(pid int) (bool, error)
}

// Session owns the job state of one shell. It is not safe for concurrent
// use; the shell drives it from a single goroutine.
type Session struct {
	// Streams handed to stages that are not piped or redirected.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	self      string
	jobs      *jobs.Table
	nextJobID int
	notifier  jobs.Notifier
	waiter    waiter
	logger    *log.Logger
	finished  bool
}

// NewSession returns a session that starts stages by re-executing the
// running binary.
func NewSession(notifier jobs.Notifier, logger *log.Logger) (*Session, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error locating executable: %w", err)
	}
	if notifier == nil {
		notifier = jobs.NewPrinter(os.Stdout)
	}
	return &Session{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		self:      self,
		jobs:      jobs.NewTable(),
		nextJobID: 1,
		notifier:  notifier,
		waiter:    proc.Waiter{},
		logger:    logger,
	}, nil
}

// Finished reports whether an exit was run.
func (s *Session) Finished() bool {
	return s.finished
}

// PollJobs retires background jobs whose processes have all exited.
func (s *Session) PollJobs() error {
	return s.jobs.Reap(s.waiter, s.notifier)
}

// Run executes one script. Background jobs are polled first. A foreground
// script returns once every process it started has been reaped; a
// background one returns as soon as its stages are started.
func (s *Session) Run(script *command.Script) error {
	if script == nil {
		return nil
	}
	pids := jobs.NewProcessQueue()

	if err := s.PollJobs(); err != nil {
		s.logger.Printf("poll jobs: %v", err)
	}

	if script.IsExit() {
		s.finished = true
		return nil
	}

	errs := []error{s.launch(script, pids)}

	if !script.Background() {
		errs = append(errs, s.waitAll(pids))
		return errors.Join(errs...)
	}

	if pids.IsEmpty() {
		return errors.Join(errs...)
	}
	job, err := s.createJob(pids, script.Line)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	s.notifier.JobStarted(job.ID, job.Pid, job.Command)
	return errors.Join(errs...)
}

func (s *Session) waitAll(pids *jobs.ProcessQueue) error {
	var errs []error
	for !pids.IsEmpty() {
		pid, err := pids.PopFront()
		if err != nil {
			return err
		}
		s.logger.Printf("waiting for %d", pid)
		if err := s.waiter.Wait(pid); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
