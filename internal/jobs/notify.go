package jobs

import (
	"fmt"
	"io"
)

// Notifier receives job lifecycle events for display.
type Notifier interface {
	JobStarted(id, pid int, cmd string)
	JobCompleted(id, pid int, cmd string)
	JobListed(id, pid int, cmd string)
}

// Printer writes job events as lines of text.
type Printer struct {
	W io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{W: w}
}

func (p *Printer) JobStarted(id, pid int, cmd string) {
	fmt.Fprint(p.W, "Background job started: ")
	p.JobListed(id, pid, cmd)
}

func (p *Printer) JobCompleted(id, pid int, cmd string) {
	fmt.Fprint(p.W, "Completed: ")
	p.JobListed(id, pid, cmd)
}

func (p *Printer) JobListed(id, pid int, cmd string) {
	fmt.Fprint(p.W, FormatJob(id, pid, cmd))
}

// FormatJob renders one job as a listing line.
func FormatJob(id, pid int, cmd string) string {
	return fmt.Sprintf("[%d]\t%d\t%s\n", id, pid, cmd)
}
