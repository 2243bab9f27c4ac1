package shell

import (
	"errors"
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"

	"quash/internal/command"
	"quash/internal/jobs"
	"quash/internal/stage"
)

// launch starts one process per command up to EndOfCommands and records
// each pid in pids. Adjacent stages get their own pipe. If a stage cannot
// be started the rest of the pipeline is skipped; stages already running
// stay in pids.
func (s *Session) launch(script *command.Script, pids *jobs.ProcessQueue) error {
	var prev *os.File
	defer func() {
		if prev != nil {
			prev.Close()
		}
	}()

	var errs []error
	for i, c := range script.Commands {
		if c.Type == command.EndOfCommands {
			break
		}

		next, err := s.startStage(i, c, prev, pids)
		prev = next
		if err != nil {
			errs = append(errs, err)
			break
		}

		if c.Type.RunsInParent() {
			if err := s.runParent(c); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// startStage starts c with stdin taken from prev when it reads a pipe, and
// returns the read end of its own output pipe, if any. prev is closed in
// every case; the child holds its own copy.
func (s *Session) startStage(i int, c command.Command, prev *os.File, pids *jobs.ProcessQueue) (*os.File, error) {
	stdin, stdout := s.Stdin, s.Stdout
	if c.Flags.Has(command.PipeIn) && prev != nil {
		stdin = prev
	}

	var r, w *os.File
	if c.Flags.Has(command.PipeOut) {
		var err error
		r, w, err = os.Pipe()
		if err != nil {
			if prev != nil {
				prev.Close()
			}
			return nil, fmt.Errorf("stage %d: pipe: %w", i, err)
		}
		stdout = w
	}

	var listing string
	if c.Type == command.Jobs {
		listing = s.listing()
	}
	argv := append([]string{s.self}, stage.Args(c, listing)...)

	p, err := os.StartProcess(s.self, argv, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{stdin, stdout, s.Stderr},
	})

	if w != nil {
		w.Close()
	}
	if prev != nil {
		prev.Close()
	}
	if err != nil {
		if r != nil {
			r.Close()
		}
		return nil, fmt.Errorf("stage %d: start %s: %w", i, c.Type, err)
	}

	pid := p.Pid
	pids.PushBack(pid)
	s.logger.Printf("stage %d started: pid %d: %s %s", i, pid, c.Type, shellquote.Join(c.Args...))
	// Reaping goes through wait4 on the pid, not through p.
	if err := p.Release(); err != nil {
		s.logger.Printf("release %d: %v", pid, err)
	}
	return r, nil
}
