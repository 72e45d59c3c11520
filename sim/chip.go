// Package sim models the bus-visible side of the synth: a register file that
// truncates every write to its field width, the device end of the serial
// command protocol, and a host address space with the synth's register
// window mapped into it.
//
// None of the audio generation of the chip is modelled. The package exists
// so that the driver can be exercised without hardware.
package sim

import (
	"fmt"
	"strings"

	"pwlsynth/app/regs"
)

// Chip is the register file of the synth.
type Chip struct {
	variant regs.Variant
	reg     [regs.NumAddresses]uint16
}

// NewChip creates a register file for the chip variant, in its reset state.
func NewChip(variant regs.Variant) *Chip {
	return &Chip{variant: variant}
}

// Variant returns the chip variant being modelled.
func (c *Chip) Variant() regs.Variant {
	return c.variant
}

// Reset clears every register, as the hardware reset does.
func (c *Chip) Reset() {
	c.reg = [regs.NumAddresses]uint16{}
}

// Write stores value in the register at addr. Bits beyond the field width
// are dropped and writes to unmapped addresses are ignored.
func (c *Chip) Write(addr uint8, value uint16) {
	addr &= regs.NumAddresses - 1
	c.reg[addr] = value & regs.Mask(addr, c.variant)
}

// Read returns the register at addr. Unmapped addresses read as zero.
func (c *Chip) Read(addr uint8) uint16 {
	return c.reg[addr&(regs.NumAddresses-1)]
}

// Channel returns the register block of channel ch.
func (c *Chip) Channel(ch int) [16]uint16 {
	var b [16]uint16
	copy(b[:], c.reg[(ch&3)*16:])
	return b
}

func (c *Chip) String() string {
	s := strings.Builder{}
	for ch := 0; ch < regs.NumChannels; ch++ {
		b := c.Channel(ch)
		fmt.Fprintf(&s, "ch%d: per=%04x amp=%02x sr=%02x sf=%02x pwm=%02x mode=%04x pa=%04x ws=%04x\n",
			ch, b[regs.Period], b[regs.Amp], b[regs.SlopeR], b[regs.SlopeF],
			b[regs.PWMOffset], b[regs.Mode], b[regs.SweepPA], b[regs.SweepWS])
	}
	fmt.Fprintf(&s, "cfg: %04x", c.reg[regs.Config])
	return s.String()
}
