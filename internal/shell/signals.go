package shell

import (
	"os/signal"

	"golang.org/x/sys/unix"
)

// setupSignalHandling keeps the shell alive on Ctrl-C. The foreground
// stages share the terminal's process group and still get the SIGINT.
// Children are reaped by the session, never from a SIGCHLD handler.
func (s *Shell) setupSignalHandling() {
	signal.Notify(s.signalChan, unix.SIGINT)
	go s.handleSignals()
}

func (s *Shell) stopSignalHandling() {
	signal.Stop(s.signalChan)
	close(s.signalChan)
}

func (s *Shell) handleSignals() {
	for sig := range s.signalChan {
		s.logger.Printf("received %v", sig)
	}
}
