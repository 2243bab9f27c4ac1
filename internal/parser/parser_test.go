package parser

import (
	"errors"
	"reflect"
	"testing"

	"quash/internal/command"
)

func newTestParser() *Parser {
	env := map[string]string{
		"NAME":  "world",
		"SPACE": "a b",
	}
	return &Parser{
		Lookup: func(k string) string { return env[k] },
		Home:   "/home/q",
	}
}

var eoc = command.Command{Type: command.EndOfCommands}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []command.Command
	}{
		{
			name: "generic",
			line: "ls -la /tmp",
			want: []command.Command{{Type: command.Generic, Args: []string{"ls", "-la", "/tmp"}}, eoc},
		},
		{
			name: "pipeline without spaces",
			line: "cat file|sort|uniq -c",
			want: []command.Command{
				{Type: command.Generic, Args: []string{"cat", "file"}, Flags: command.PipeOut},
				{Type: command.Generic, Args: []string{"sort"}, Flags: command.PipeIn | command.PipeOut},
				{Type: command.Generic, Args: []string{"uniq", "-c"}, Flags: command.PipeIn},
				eoc,
			},
		},
		{
			name: "redirects",
			line: "sort < in.txt >> out.txt",
			want: []command.Command{{
				Type:            command.Generic,
				Args:            []string{"sort"},
				Flags:           command.RedirectIn | command.RedirectOut | command.RedirectAppend,
				RedirectInPath:  "in.txt",
				RedirectOutPath: "out.txt",
			}, eoc},
		},
		{
			name: "background pipeline",
			line: "sleep 1 | echo done &",
			want: []command.Command{
				{Type: command.Generic, Args: []string{"sleep", "1"}, Flags: command.PipeOut | command.Background},
				{Type: command.Echo, Args: []string{"done"}, Flags: command.PipeIn | command.Background},
				eoc,
			},
		},
		{
			name: "quoted operators are words",
			line: `echo "a | b" '>' c\&`,
			want: []command.Command{{Type: command.Echo, Args: []string{"a | b", ">", "c&"}}, eoc},
		},
		{
			name: "variables",
			line: `echo $NAME "${NAME}!" '$NAME' $SPACE`,
			want: []command.Command{{Type: command.Echo, Args: []string{"world", "world!", "$NAME", "a b"}}, eoc},
		},
		{
			name: "export",
			line: "export PATH=/bin:/usr/bin",
			want: []command.Command{{Type: command.Export, Name: "PATH", Value: "/bin:/usr/bin"}, eoc},
		},
		{
			name: "cd home",
			line: "cd",
			want: []command.Command{{Type: command.Cd, Dir: "/home/q", DirSet: true}, eoc},
		},
		{
			name: "cd unset variable",
			line: "cd $NOPE",
			want: []command.Command{{Type: command.Cd}, eoc},
		},
		{
			name: "kill",
			line: "kill -9 %2",
			want: []command.Command{{Type: command.Kill, Signal: 9, JobID: 2}, eoc},
		},
		{
			name: "builtins",
			line: "pwd | jobs",
			want: []command.Command{
				{Type: command.Pwd, Flags: command.PipeOut},
				{Type: command.Jobs, Flags: command.PipeIn},
				eoc,
			},
		},
		{
			name: "exit",
			line: "  exit  ",
			want: []command.Command{{Type: command.Exit}, eoc},
		},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := p.Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.line, err)
			}
			if !reflect.DeepEqual(script.Commands, tt.want) {
				t.Errorf("Parse(%q) =\n%+v\nwant\n%+v", tt.line, script.Commands, tt.want)
			}
		})
	}
}

func TestParseKeepsLine(t *testing.T) {
	script, err := newTestParser().Parse("  sleep 5 &  ")
	if err != nil {
		t.Fatal(err)
	}
	if script.Line != "sleep 5 &" {
		t.Errorf("Line = %q, want %q", script.Line, "sleep 5 &")
	}
	if !script.Background() {
		t.Error("Background() = false, want true")
	}
}

func TestParseBlank(t *testing.T) {
	script, err := newTestParser().Parse("   ")
	if err != nil || script != nil {
		t.Errorf("Parse(blank) = %v, %v, want nil, nil", script, err)
	}
}

func TestParseErrors(t *testing.T) {
	lines := []string{
		"| sort",
		"ls |",
		"ls | | wc",
		"cat <",
		"echo > | wc",
		"sleep 1 & ls",
		`echo "unterminated`,
		"export",
		"kill 9",
		"kill x 1",
		"kill 9 %0",
		"cd a b",
		"&",
	}

	p := newTestParser()
	for _, line := range lines {
		if _, err := p.Parse(line); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", line, err)
		}
	}
}
