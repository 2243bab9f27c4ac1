// Package proc waits on and signals child processes by pid.
package proc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Waiter reaps children of the current process.
type Waiter struct{}

// Wait blocks until pid exits and reaps it. A pid that is no longer our
// child counts as reaped.
func (Waiter) Wait(pid int) error {
	var status unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &status, 0, nil)
		switch {
		case err == nil, errors.Is(err, unix.ECHILD):
			return nil
		case errors.Is(err, unix.EINTR):
			continue
		default:
			return fmt.Errorf("wait %d: %w", pid, err)
		}
	}
}

// Poll reaps pid if it has exited, without blocking.
func (Waiter) Poll(pid int) (bool, error) {
	var status unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
		switch {
		case err == nil:
			return wpid == pid, nil
		case errors.Is(err, unix.ECHILD):
			return true, nil
		case errors.Is(err, unix.EINTR):
			continue
		default:
			return false, fmt.Errorf("poll %d: %w", pid, err)
		}
	}
}

// Signal delivers sig to pid.
func Signal(pid, sig int) error {
	if err := unix.Kill(pid, unix.Signal(sig)); err != nil {
		return fmt.Errorf("signal %d to %d: %w", sig, pid, err)
	}
	return nil
}
