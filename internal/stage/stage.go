// Package stage is the child side of a pipeline. The shell starts every
// stage by re-executing its own binary with Marker as the first argument;
// the stage applies its redirections, runs the child-side part of the
// command and exits.
package stage

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"quash/internal/command"
)

// Marker is the argv[1] that selects stage mode.
const Marker = "__quash_stage"

// Invoked reports whether argv asks for stage mode.
func Invoked(argv []string) bool {
	return len(argv) > 1 && argv[1] == Marker
}

type request struct {
	typ       command.Type
	in        string
	out       string
	appendOut bool
	listing   string
	args      []string
}

// Args builds the argv (without the executable) that runs c as a stage.
// listing is the job table rendered at start time, used by jobs.
func Args(c command.Command, listing string) []string {
	argv := []string{Marker, "--type", c.Type.String()}
	if c.Flags.Has(command.RedirectIn) {
		argv = append(argv, "--in", c.RedirectInPath)
	}
	if c.Flags.Has(command.RedirectOut) {
		argv = append(argv, "--out", c.RedirectOutPath)
		if c.Flags.Has(command.RedirectAppend) {
			argv = append(argv, "--append")
		}
	}
	if c.Type == command.Jobs {
		argv = append(argv, "--jobs", listing)
	}
	argv = append(argv, "--")
	return append(argv, c.Args...)
}

func parse(args []string) (*request, error) {
	fs := pflag.NewFlagSet(Marker, pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	typ := fs.String("type", "", "command type")
	in := fs.String("in", "", "redirect stdin from file")
	out := fs.String("out", "", "redirect stdout to file")
	appendOut := fs.Bool("append", false, "append instead of truncating")
	listing := fs.String("jobs", "", "rendered job table")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	t, err := command.ParseType(*typ)
	if err != nil {
		return nil, fmt.Errorf("stage: %w", err)
	}
	return &request{
		typ:       t,
		in:        *in,
		out:       *out,
		appendOut: *appendOut,
		listing:   *listing,
		args:      fs.Args(),
	}, nil
}

// Main runs a stage. args is argv after Marker. The exit status is always 0;
// failures are reported on stderr.
func Main(args []string) int {
	req, err := parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 0
	}
	if err := req.redirect(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 0
	}
	req.run(os.Stdout, os.Stderr)
	return 0
}

// redirect points the standard streams at the requested files. It runs
// after the pipe ends were installed, so a file wins over a pipe.
func (r *request) redirect() error {
	if r.in != "" {
		f, err := os.Open(r.in)
		if err != nil {
			return fmt.Errorf("redirect input: %w", err)
		}
		defer f.Close()
		if err := unix.Dup2(int(f.Fd()), unix.Stdin); err != nil {
			return fmt.Errorf("redirect input: %w", err)
		}
	}
	if r.out != "" {
		flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		if r.appendOut {
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}
		f, err := os.OpenFile(r.out, flags, 0644)
		if err != nil {
			return fmt.Errorf("redirect output: %w", err)
		}
		defer f.Close()
		if err := unix.Dup2(int(f.Fd()), unix.Stdout); err != nil {
			return fmt.Errorf("redirect output: %w", err)
		}
	}
	return nil
}

func (r *request) run(stdout, stderr io.Writer) {
	switch r.typ {
	case command.Generic:
		if err := execProgram(r.args); err != nil {
			fmt.Fprintf(stderr, "ERROR: Failed to execute program: %v\n", err)
		}
	case command.Echo:
		fmt.Fprintln(stdout, strings.Join(r.args, " "))
	case command.Pwd:
		dir, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: pwd: %v\n", err)
			return
		}
		fmt.Fprintln(stdout, dir)
	case command.Jobs:
		fmt.Fprint(stdout, r.listing)
	case command.Export, command.Cd, command.Kill, command.Exit, command.EndOfCommands:
	default:
		fmt.Fprintf(stderr, "Unknown command type: %v\n", r.typ)
	}
}

// execProgram replaces the stage with the program named by args[0], found
// on PATH. It only returns on failure.
func execProgram(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no program given")
	}
	path, err := exec.LookPath(args[0])
	if err != nil {
		return err
	}
	return unix.Exec(path, args, os.Environ())
}
