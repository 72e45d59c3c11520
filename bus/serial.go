package bus

import (
	"fmt"
	"sync"
	"time"

	"pwlsynth/app/logger"
	"pwlsynth/app/regs"
)

// Pins is the physical side of the serial interface: a byte wide input port
// with a set of control lines, and a byte wide output port with a set of
// status lines.
type Pins interface {
	// Drive presents data on the input port and asserts the control lines
	// in ctrl. It returns once the device has been given the chance to
	// sample the lines.
	Drive(data uint8, ctrl uint8) error

	// Sample returns the current output port and status lines.
	Sample() (data uint8, status uint8, err error)
}

// Serial is the bit-serial command backend. Each register access is a short
// series of transactions on the Pins, one byte per transaction.
//
// A Serial is safe for use by more than one goroutine. Transactions from
// different callers are never interleaved.
type Serial struct {
	// PollBudget is the number of times the status lines are sampled during
	// a read before the read fails with ErrBusTimeout.
	PollBudget int

	// Settle is the time the lines are held stable after each phase of a
	// transaction. Zero is correct for devices that sample synchronously
	// with Drive.
	Settle time.Duration

	// Log is the permission used when logging bus failures. Nil is
	// treated as logger.Allow.
	Log logger.Permission

	crit sync.Mutex
	pins Pins
}

// NewSerial returns a Serial backend talking over pins with the default
// poll budget and no settle delay.
func NewSerial(pins Pins) *Serial {
	return &Serial{
		PollBudget: DefaultPollBudget,
		pins:       pins,
	}
}

func (s *Serial) perm() logger.Permission {
	if s.Log == nil {
		return logger.Allow
	}
	return s.Log
}

func (s *Serial) drive(data uint8, ctrl uint8) error {
	if err := s.pins.Drive(data, ctrl); err != nil {
		return err
	}
	if s.Settle > 0 {
		time.Sleep(s.Settle)
	}
	return nil
}

// Write implements the Bus interface. The low data byte is sent first, then
// the high data byte if the register is wider than eight bits, and finally
// the address which commits the write.
func (s *Serial) Write(addr uint8, value uint16) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	addr &= addrMask

	if err := s.drive(uint8(value), CmdDataLow); err != nil {
		return fmt.Errorf("bus: write %#02x: %w", addr, err)
	}
	if regs.Bits(addr, regs.Base) > 8 {
		if err := s.drive(uint8(value>>8), CmdDataHigh); err != nil {
			return fmt.Errorf("bus: write %#02x: %w", addr, err)
		}
	}
	if err := s.drive(addr, CmdWrite); err != nil {
		return fmt.Errorf("bus: write %#02x: %w", addr, err)
	}
	return nil
}

// Read implements the Bus interface. After the address is sent the status
// lines are polled until the device clears ReadWaiting, at most PollBudget
// times. The low byte is on the output port once the device is ready; the
// high byte is selected with ReadSelHigh.
func (s *Serial) Read(addr uint8) (uint16, error) {
	s.crit.Lock()
	defer s.crit.Unlock()

	addr &= addrMask

	if err := s.drive(addr, CmdRead); err != nil {
		return 0, fmt.Errorf("bus: read %#02x: %w", addr, err)
	}

	budget := s.PollBudget
	if budget <= 0 {
		budget = DefaultPollBudget
	}

	var lo uint8
	var ready bool
	for i := 0; i < budget; i++ {
		data, status, err := s.pins.Sample()
		if err != nil {
			return 0, fmt.Errorf("bus: read %#02x: %w", addr, err)
		}
		if status&ReadWaiting == 0 {
			lo = data
			ready = true
			break
		}
	}
	if !ready {
		logger.Logf(s.perm(), "bus", "read of %#02x still waiting after %d polls", addr, budget)
		return 0, fmt.Errorf("%w: read %#02x: no data after %d polls", ErrBusTimeout, addr, budget)
	}

	if err := s.drive(0, ReadSelHigh); err != nil {
		return 0, fmt.Errorf("bus: read %#02x: %w", addr, err)
	}
	hi, _, err := s.pins.Sample()
	if err != nil {
		return 0, fmt.Errorf("bus: read %#02x: %w", addr, err)
	}

	return uint16(lo) | uint16(hi)<<8, nil
}
