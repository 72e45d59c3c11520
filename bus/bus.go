// Package bus implements the register bus between the host and the synth.
//
// Two interchangeable backends are provided. Serial speaks the byte
// multiplexed command protocol over a narrow set of pins, and Mapped accesses
// the registers as 16-bit words in the host's address space. Both satisfy
// the Bus interface.
package bus

import (
	"errors"
)

// Bus is a 16-bit register bus. Addresses are in the range 0 to 63 and are
// wrapped into that range if larger. Both operations block until the
// transaction is complete.
type Bus interface {
	Write(addr uint8, value uint16) error
	Read(addr uint8) (uint16, error)
}

// ErrBusTimeout is returned (wrapped) by a read when the device does not
// signal that data is ready within the poll budget.
var ErrBusTimeout = errors.New("bus: timeout")

// control bits asserted alongside the data byte on the serial interface
const (
	CmdDataLow  = 1
	CmdDataHigh = 2
	CmdWrite    = 4
	CmdRead     = 8
	ReadSelHigh = 16
)

// ReadWaiting is set in the status byte while a read is in progress.
const ReadWaiting = 32

// DefaultPollBudget is the number of status samples taken by a serial read
// before it gives up.
const DefaultPollBudget = 70

const addrMask = 63
