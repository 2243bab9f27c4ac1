// Package parser turns a command line into a command.Script.
package parser

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"quash/internal/command"
)

var ErrSyntax = errors.New("syntax error")

// opMark prefixes operator tokens so they cannot be confused with a quoted
// "|" or ">" word after tokenizing.
const opMark = "\x00"

type Parser struct {
	// Lookup resolves $NAME references.
	Lookup func(string) string
	// Home is the target of a bare cd.
	Home string
}

func New(home string) *Parser {
	return &Parser{Lookup: os.Getenv, Home: home}
}

type stage struct {
	words  []string
	in     string
	out    string
	append bool
}

// Parse returns nil for a blank line.
func (p *Parser) Parse(line string) (*command.Script, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	marked, err := p.mark(line)
	if err != nil {
		return nil, err
	}
	tokens, err := shellquote.Split(marked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	stages, background, err := split(tokens)
	if err != nil {
		return nil, err
	}

	script := &command.Script{Line: line}
	for i, st := range stages {
		c, err := p.build(st.words)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			c.Flags |= command.PipeIn
		}
		if i < len(stages)-1 {
			c.Flags |= command.PipeOut
		}
		if st.in != "" {
			c.Flags |= command.RedirectIn
			c.RedirectInPath = st.in
		}
		if st.out != "" {
			c.Flags |= command.RedirectOut
			c.RedirectOutPath = st.out
			if st.append {
				c.Flags |= command.RedirectAppend
			}
		}
		if background {
			c.Flags |= command.Background
		}
		script.Commands = append(script.Commands, c)
	}
	script.Commands = append(script.Commands, command.Command{Type: command.EndOfCommands})

	return script, nil
}

// mark expands variables and isolates operators outside of quotes, leaving
// a string shellquote can split.
func (p *Parser) mark(line string) (string, error) {
	var b strings.Builder
	var single, double bool

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '\\' && !single:
			b.WriteByte(ch)
			if i+1 < len(line) {
				i++
				b.WriteByte(line[i])
			}
		case ch == '\'' && !double:
			single = !single
			b.WriteByte(ch)
		case ch == '"' && !single:
			double = !double
			b.WriteByte(ch)
		case ch == '$' && !single:
			name, n := varName(line[i+1:])
			if n == 0 {
				b.WriteByte(ch)
				continue
			}
			i += n
			val := p.Lookup(name)
			if double {
				b.WriteString(escapeDouble(val))
			} else {
				b.WriteString(shellquote.Join(val))
			}
		case single || double:
			b.WriteByte(ch)
		case ch == '>' && i+1 < len(line) && line[i+1] == '>':
			i++
			b.WriteString(" " + opMark + ">> ")
		case ch == '|' || ch == '<' || ch == '>' || ch == '&':
			b.WriteString(" " + opMark + string(ch) + " ")
		default:
			b.WriteByte(ch)
		}
	}
	if single || double {
		return "", fmt.Errorf("%w: unterminated quote", ErrSyntax)
	}
	return b.String(), nil
}

// varName reads NAME or {NAME} at the start of s and returns it with the
// number of bytes consumed.
func varName(s string) (string, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	n := 0
	for n < len(s) && isNameByte(s[n], n == 0) {
		n++
	}
	return s[:n], n
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func escapeDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return r.Replace(s)
}

func split(tokens []string) ([]stage, bool, error) {
	var stages []stage
	var cur stage
	background := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if background {
			return nil, false, fmt.Errorf("%w: unexpected %q after &", ErrSyntax, strings.TrimPrefix(tok, opMark))
		}
		if !strings.HasPrefix(tok, opMark) {
			cur.words = append(cur.words, tok)
			continue
		}

		op := strings.TrimPrefix(tok, opMark)
		switch op {
		case "|":
			if len(cur.words) == 0 {
				return nil, false, fmt.Errorf("%w: empty pipeline stage", ErrSyntax)
			}
			stages = append(stages, cur)
			cur = stage{}
		case "&":
			background = true
		case "<", ">", ">>":
			if i+1 >= len(tokens) || strings.HasPrefix(tokens[i+1], opMark) {
				return nil, false, fmt.Errorf("%w: missing file after %s", ErrSyntax, op)
			}
			i++
			if op == "<" {
				cur.in = tokens[i]
			} else {
				cur.out = tokens[i]
				cur.append = op == ">>"
			}
		}
	}

	if len(cur.words) == 0 {
		return nil, false, fmt.Errorf("%w: empty pipeline stage", ErrSyntax)
	}
	return append(stages, cur), background, nil
}

func (p *Parser) build(words []string) (command.Command, error) {
	args := words[1:]

	switch words[0] {
	case "echo":
		return command.Command{Type: command.Echo, Args: args}, nil
	case "pwd":
		return command.Command{Type: command.Pwd}, nil
	case "jobs":
		return command.Command{Type: command.Jobs}, nil
	case "exit", "quit":
		return command.Command{Type: command.Exit}, nil
	case "export":
		if len(args) != 1 {
			return command.Command{}, fmt.Errorf("%w: usage: export NAME=VALUE", ErrSyntax)
		}
		name, value, _ := strings.Cut(args[0], "=")
		if name == "" {
			return command.Command{}, fmt.Errorf("%w: export: empty name", ErrSyntax)
		}
		return command.Command{Type: command.Export, Name: name, Value: value}, nil
	case "cd":
		if len(args) > 1 {
			return command.Command{}, fmt.Errorf("%w: cd: too many arguments", ErrSyntax)
		}
		dir := p.Home
		if len(args) == 1 {
			dir = args[0]
		}
		return command.Command{Type: command.Cd, Dir: dir, DirSet: dir != ""}, nil
	case "kill":
		return parseKill(args)
	default:
		return command.Command{Type: command.Generic, Args: words}, nil
	}
}

// parseKill accepts "kill SIG JOB" where SIG may be written -N and JOB %N.
func parseKill(args []string) (command.Command, error) {
	if len(args) != 2 {
		return command.Command{}, fmt.Errorf("%w: usage: kill SIGNAL JOBID", ErrSyntax)
	}
	sig, err := strconv.Atoi(strings.TrimPrefix(args[0], "-"))
	if err != nil || sig < 0 {
		return command.Command{}, fmt.Errorf("%w: kill: bad signal %q", ErrSyntax, args[0])
	}
	job, err := strconv.Atoi(strings.TrimPrefix(args[1], "%"))
	if err != nil || job < 1 {
		return command.Command{}, fmt.Errorf("%w: kill: bad job id %q", ErrSyntax, args[1])
	}
	return command.Command{Type: command.Kill, Signal: sig, JobID: job}, nil
}
