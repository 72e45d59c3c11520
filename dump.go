package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"pwlsynth/app/regs"
	"pwlsynth/app/trace"
)

type styles struct {
	note    lipgloss.Style
	silence lipgloss.Style
	shape   lipgloss.Style
	sweep   lipgloss.Style
	cfg     lipgloss.Style
	read    lipgloss.Style
	pause   lipgloss.Style
}

func newStyles() styles {
	return styles{
		note:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		silence: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		shape:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		sweep:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
		cfg:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		read:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		pause:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.ANSIColor(8)),
	}
}

func (st styles) style(op trace.Op) lipgloss.Style {
	switch op.Kind {
	case trace.Pause:
		return st.pause
	case trace.Read:
		return st.read
	}
	if op.Addr == regs.Config {
		return st.cfg
	}
	switch op.Addr & 15 {
	case regs.Period, regs.Amp:
		if op.Value == 0 {
			return st.silence
		}
		return st.note
	case regs.SweepPA, regs.SweepWS:
		return st.sweep
	}
	return st.shape
}

// isTerminal is true if output is a terminal that can show styled text
func isTerminal(output io.Writer) bool {
	f, ok := output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// dumpTrace writes one line per recorded operation. Styling is only applied
// when output is a terminal.
func dumpTrace(output io.Writer, ops []trace.Op) {
	styled := isTerminal(output)
	st := newStyles()
	for i, op := range ops {
		s := op.String()
		if styled {
			s = st.style(op).Render(s)
		}
		fmt.Fprintf(output, "%5d  %s\n", i, s)
	}
}
