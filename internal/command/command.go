// Package command describes the commands a parsed line hands to the shell.
package command

import "fmt"

type Type int

const (
	EndOfCommands Type = iota
	Generic
	Echo
	Export
	Cd
	Kill
	Pwd
	Jobs
	Exit
)

func (t Type) String() string {
	switch t {
	case EndOfCommands:
		return "eoc"
	case Generic:
		return "generic"
	case Echo:
		return "echo"
	case Export:
		return "export"
	case Cd:
		return "cd"
	case Kill:
		return "kill"
	case Pwd:
		return "pwd"
	case Jobs:
		return "jobs"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseType is the inverse of Type.String.
func ParseType(s string) (Type, error) {
	for t := EndOfCommands; t <= Exit; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return EndOfCommands, fmt.Errorf("unknown command type %q", s)
}

// RunsInParent reports whether the command mutates shell state and
// therefore must run in the shell process rather than in a stage child.
func (t Type) RunsInParent() bool {
	return t == Export || t == Cd || t == Kill
}

type Flags uint8

const (
	PipeIn Flags = 1 << iota
	PipeOut
	RedirectIn
	RedirectOut
	RedirectAppend
	Background
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

type Command struct {
	Type  Type
	Flags Flags

	// Generic and Echo.
	Args []string

	// Export.
	Name  string
	Value string

	// Cd. DirSet is false when the target did not resolve to anything.
	Dir    string
	DirSet bool

	// Kill.
	Signal int
	JobID  int

	RedirectInPath  string
	RedirectOutPath string
}

// Script is one parsed command line. Commands always ends with an
// EndOfCommands entry.
type Script struct {
	Line     string
	Commands []Command
}

func (s *Script) Background() bool {
	return len(s.Commands) > 0 && s.Commands[0].Flags.Has(Background)
}

// IsExit reports whether the script is a bare exit.
func (s *Script) IsExit() bool {
	return len(s.Commands) == 2 &&
		s.Commands[0].Type == Exit &&
		s.Commands[1].Type == EndOfCommands
}
