package shell

import (
	"errors"
	"fmt"
	"os"

	"quash/internal/command"
	"quash/internal/proc"
)

var ErrNoTarget = errors.New("cd: failed to resolve path")

// runParent runs the part of c that changes the shell itself. It must never
// run in a stage.
func (s *Session) runParent(c command.Command) error {
	switch c.Type {
	case command.Export:
		return s.exportVar(c.Name, c.Value)
	case command.Cd:
		return s.changeDirectory(c)
	case command.Kill:
		return s.killJob(c.Signal, c.JobID)
	default:
		return nil
	}
}

func (s *Session) exportVar(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func (s *Session) changeDirectory(c command.Command) error {
	if !c.DirSet {
		return ErrNoTarget
	}

	if err := os.Chdir(c.Dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error getting current directory: %w", err)
	}
	return os.Setenv("PWD", dir)
}

// killJob sends sig to every process still tracked for the job. The job
// stays in the table; the next poll retires it once its processes exit.
func (s *Session) killJob(sig, id int) error {
	job, err := s.jobs.Find(id)
	if err != nil {
		return fmt.Errorf("kill: %w", err)
	}

	var errs []error
	for _, pid := range job.Pids.Pids() {
		s.logger.Printf("kill: signal %d to %d (job %d)", sig, pid, id)
		if err := proc.Signal(pid, sig); err != nil {
			errs = append(errs, fmt.Errorf("kill: %w", err))
		}
	}
	return errors.Join(errs...)
}
