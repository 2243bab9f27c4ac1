// Package shell runs pipelines as child processes and keeps track of the
// ones sent to the background.
package shell

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"quash/internal/config"
	"quash/internal/jobs"
	"quash/internal/parser"
)

type Shell struct {
	config     *config.Config
	parser     *parser.Parser
	session    *Session
	logger     *log.Logger
	signalChan chan os.Signal
}

func New(cfg *config.Config, logger *log.Logger) (*Shell, error) {
	session, err := NewSession(jobs.NewPrinter(os.Stdout), logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing session: %w", err)
	}

	return &Shell{
		config:     cfg,
		parser:     parser.New(cfg.HomeDir),
		session:    session,
		logger:     logger,
		signalChan: make(chan os.Signal, 1),
	}, nil
}

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run() error {
	s.setupSignalHandling()
	defer s.stopSignalHandling()

	rl, err := readline.NewEx(&readline.Config{
		Prompt: s.getPrompt(),
	})
	if err != nil {
		return fmt.Errorf("error initializing readline: %w", err)
	}
	defer rl.Close()

	for !s.session.Finished() {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		rl.SetPrompt(s.getPrompt())
	}
	return nil
}

// Execute parses and runs one line.
func (s *Shell) Execute(line string) error {
	script, err := s.parser.Parse(line)
	if err != nil {
		return err
	}
	return s.session.Run(script)
}

// Finished reports whether the user asked the shell to exit.
func (s *Shell) Finished() bool {
	return s.session.Finished()
}

func (s *Shell) getPrompt() string {
	dir, err := os.Getwd()
	if err != nil {
		dir = "?"
	}
	return fmt.Sprintf(s.config.Prompt, dir)
}
