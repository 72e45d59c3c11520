// Package trace records the register traffic on a bus and stores it in a
// compact binary file.
package trace

import (
	"fmt"
	"sync"

	"pwlsynth/app/bus"
	"pwlsynth/app/regs"
)

// Kind of bus transaction.
type Kind uint8

// List of valid Kind values.
const (
	Write Kind = iota
	Read
	Pause
)

func (k Kind) String() string {
	switch k {
	case Write:
		return "write"
	case Read:
		return "read"
	case Pause:
		return "pause"
	}
	return "unknown"
}

// Op is a single recorded transaction. For a Pause the value is the pause
// length in milliseconds and the address is unused.
type Op struct {
	Kind  Kind
	Addr  uint8
	Value uint16
}

func (op Op) String() string {
	if op.Kind == Pause {
		return fmt.Sprintf("pause %dms", op.Value)
	}
	name := regs.Name(op.Addr)
	if name == "" {
		name = "?"
	}
	if ch := regs.Channel(op.Addr); ch >= 0 {
		name = fmt.Sprintf("%s[%d]", name, ch)
	}
	return fmt.Sprintf("%s %-14s (%#02x) = %#04x", op.Kind, name, op.Addr, op.Value)
}

// Recorder is a bus that passes every transaction on to another bus and
// records it. Failed transactions are not recorded.
type Recorder struct {
	crit sync.Mutex
	next bus.Bus
	ops  []Op
}

// NewRecorder returns a Recorder in front of next.
func NewRecorder(next bus.Bus) *Recorder {
	return &Recorder{next: next}
}

// Write implements the bus.Bus interface.
func (r *Recorder) Write(addr uint8, value uint16) error {
	if err := r.next.Write(addr, value); err != nil {
		return err
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	r.ops = append(r.ops, Op{Kind: Write, Addr: addr & (regs.NumAddresses - 1), Value: value})
	return nil
}

// Read implements the bus.Bus interface.
func (r *Recorder) Read(addr uint8) (uint16, error) {
	v, err := r.next.Read(addr)
	if err != nil {
		return 0, err
	}
	r.crit.Lock()
	defer r.crit.Unlock()
	r.ops = append(r.ops, Op{Kind: Read, Addr: addr & (regs.NumAddresses - 1), Value: v})
	return v, nil
}

// Pause records a pause in the traffic. Nothing reaches the bus.
func (r *Recorder) Pause(ms uint16) {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.ops = append(r.ops, Op{Kind: Pause, Value: ms})
}

// Ops returns a copy of the recorded transactions, oldest first.
func (r *Recorder) Ops() []Op {
	r.crit.Lock()
	defer r.crit.Unlock()
	c := make([]Op, len(r.ops))
	copy(c, r.ops)
	return c
}

// Writes returns only the recorded writes.
func (r *Recorder) Writes() []Op {
	r.crit.Lock()
	defer r.crit.Unlock()
	var w []Op
	for _, op := range r.ops {
		if op.Kind == Write {
			w = append(w, op)
		}
	}
	return w
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.ops = r.ops[:0]
}
