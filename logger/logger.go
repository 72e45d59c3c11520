// Package logger is a small central log used by every other package. Entries
// are tagged with the component that produced them and are kept in a bounded
// in-memory list. Entries can optionally be echoed to an io.Writer as they
// are logged.
//
// Logging is gated by a Permission. Components that hold a context from their
// owner pass that context so that logging can be switched off for a whole
// subsystem at once. Allow can be used where no context is available.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Permission decides whether a call to Log or Logf will be honoured.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

type deny struct{}

func (deny) AllowLogging() bool {
	return false
}

// Allow permits logging unconditionally.
var Allow Permission = allow{}

// Deny suppresses logging unconditionally.
var Deny Permission = deny{}

// maximum number of entries kept before the oldest are dropped
const maxEntries = 256

// Entry is a single log entry.
type Entry struct {
	Tag    string
	Detail string

	// number of times the same tag and detail were logged back-to-back
	Repeated int
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s: %s", e.Tag, e.Detail)
	if e.Repeated > 0 {
		s = fmt.Sprintf("%s (repeat x%d)", s, e.Repeated+1)
	}
	return s
}

type central struct {
	crit    sync.Mutex
	entries []Entry
	echo    io.Writer
}

var log central

// Log adds an entry to the central log. The detail can be of any type but
// strings, errors and fmt.Stringer values give the most useful output.
func Log(perm Permission, tag string, detail any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}

	var s string
	switch d := detail.(type) {
	case string:
		s = d
	case error:
		s = d.Error()
	case fmt.Stringer:
		s = d.String()
	default:
		s = fmt.Sprintf("%v", d)
	}

	log.add(tag, s)
}

// Logf is the same as Log but with a format string.
func Logf(perm Permission, tag string, format string, args ...any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}
	log.add(tag, fmt.Sprintf(format, args...))
}

func (l *central) add(tag string, detail string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	detail = strings.TrimSpace(detail)

	if n := len(l.entries); n > 0 {
		last := &l.entries[n-1]
		if last.Tag == tag && last.Detail == detail {
			last.Repeated++
			return
		}
	}

	e := Entry{Tag: tag, Detail: detail}
	l.entries = append(l.entries, e)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, e.String()+"\n")
	}
}

// SetEcho prints new entries to output as they are logged. A nil output
// stops echoing. If writeRecent is true the existing entries are written to
// output first.
func SetEcho(output io.Writer, writeRecent bool) {
	log.crit.Lock()
	defer log.crit.Unlock()

	log.echo = output
	if output != nil && writeRecent {
		for _, e := range log.entries {
			io.WriteString(output, e.String()+"\n")
		}
	}
}

// Tail writes the last n entries to output. A negative n writes every
// entry.
func Tail(output io.Writer, n int) {
	log.crit.Lock()
	defer log.crit.Unlock()

	start := 0
	if n >= 0 && n < len(log.entries) {
		start = len(log.entries) - n
	}
	for _, e := range log.entries[start:] {
		io.WriteString(output, e.String()+"\n")
	}
}

// Entries returns a copy of the current entries, oldest first.
func Entries() []Entry {
	log.crit.Lock()
	defer log.crit.Unlock()

	c := make([]Entry, len(log.entries))
	copy(c, log.entries)
	return c
}

// Clear removes all entries.
func Clear() {
	log.crit.Lock()
	defer log.crit.Unlock()
	log.entries = log.entries[:0]
}
