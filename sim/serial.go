package sim

import (
	"pwlsynth/app/bus"
)

// SerialDevice is the device end of the serial command protocol. It
// satisfies bus.Pins and so can be handed directly to bus.NewSerial.
//
// Every call to Drive is treated as one transaction sampled by the device.
// Data bytes are latched until the address byte of a write commits them to
// the register file.
type SerialDevice struct {
	chip *Chip

	// BusyPolls is the number of times Sample reports ReadWaiting after a
	// read command before the data is ready. A negative value means the
	// device never becomes ready.
	BusyPolls int

	// Polls counts the samples that reported ReadWaiting
	Polls int

	lo, hi  uint8
	out     uint16
	waiting int
	selHigh bool

	// every (data, ctrl) pair driven, oldest first
	log []Transaction
}

// Transaction is one assertion of the control lines along with the data
// byte that accompanied it.
type Transaction struct {
	Data uint8
	Ctrl uint8
}

// NewSerialDevice returns a device that answers reads immediately.
func NewSerialDevice(chip *Chip) *SerialDevice {
	return &SerialDevice{chip: chip}
}

// Chip returns the register file behind the device.
func (d *SerialDevice) Chip() *Chip {
	return d.chip
}

// Drive implements the bus.Pins interface.
func (d *SerialDevice) Drive(data uint8, ctrl uint8) error {
	d.log = append(d.log, Transaction{Data: data, Ctrl: ctrl})

	switch {
	case ctrl&bus.CmdDataLow == bus.CmdDataLow:
		d.lo = data
	case ctrl&bus.CmdDataHigh == bus.CmdDataHigh:
		d.hi = data
	case ctrl&bus.CmdWrite == bus.CmdWrite:
		d.chip.Write(data, uint16(d.lo)|uint16(d.hi)<<8)
	case ctrl&bus.CmdRead == bus.CmdRead:
		d.out = d.chip.Read(data)
		d.waiting = d.BusyPolls
		d.selHigh = false
	case ctrl&bus.ReadSelHigh == bus.ReadSelHigh:
		d.selHigh = true
	}
	return nil
}

// Sample implements the bus.Pins interface.
func (d *SerialDevice) Sample() (uint8, uint8, error) {
	if d.waiting != 0 {
		if d.waiting > 0 {
			d.waiting--
		}
		d.Polls++
		return 0, bus.ReadWaiting, nil
	}
	if d.selHigh {
		return uint8(d.out >> 8), 0, nil
	}
	return uint8(d.out), 0, nil
}

// Transactions returns every transaction driven so far.
func (d *SerialDevice) Transactions() []Transaction {
	return d.log
}

// ClearTransactions forgets the transactions driven so far.
func (d *SerialDevice) ClearTransactions() {
	d.log = d.log[:0]
}
