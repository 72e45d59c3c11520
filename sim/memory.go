package sim

import (
	"github.com/beevik/go6502/cpu"

	"pwlsynth/app/regs"
)

// Device is a peripheral with a window of 16-bit registers. Chip satisfies
// this interface.
type Device interface {
	Write(addr uint8, value uint16)
	Read(addr uint8) uint16
}

// Memory represents an entire 16-bit address space as a 64K buffer, with an
// optional device mapped into a window of regs.NumAddresses word registers.
// It satisfies the cpu.Memory interface.
//
// Inside the window every address is a whole 16-bit register. Word loads
// and stores reach the register in one access. Byte stores write the
// register with the byte zero-extended, and byte loads return the low byte.
type Memory struct {
	b      [64 * 1024]byte
	base   uint16
	device Device
}

// check that Memory satisfies the interface expected by the mapped bus
var _ cpu.Memory = (*Memory)(nil)

// NewMemory creates a new, empty 16-bit memory space.
func NewMemory() *Memory {
	return &Memory{}
}

// Attach maps dev into the window starting at base. Any previously attached
// device is replaced.
func (m *Memory) Attach(base uint16, dev Device) {
	m.base = base
	m.device = dev
}

func (m *Memory) window(addr uint16) (uint8, bool) {
	if m.device == nil {
		return 0, false
	}
	off := addr - m.base
	if off >= regs.NumAddresses {
		return 0, false
	}
	return uint8(off), true
}

// LoadByte loads a single byte from the address and returns it.
func (m *Memory) LoadByte(addr uint16) byte {
	if r, ok := m.window(addr); ok {
		return byte(m.device.Read(r))
	}
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address and returns them.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.LoadByte(addr + uint16(i))
	}
}

// LoadAddress loads a 16-bit value from the requested address and returns
// it.
//
// Outside the device window, when the address spans 2 pages (i.e. address
// ends in 0xff), the high byte comes from a page-wrapped address. This
// mimics the behavior of the NMOS 6502.
func (m *Memory) LoadAddress(addr uint16) uint16 {
	if r, ok := m.window(addr); ok {
		return m.device.Read(r)
	}
	if (addr & 0xff) == 0xff {
		return uint16(m.b[addr]) | uint16(m.b[addr-0xff])<<8
	}
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

// StoreByte stores a byte at the requested address.
func (m *Memory) StoreByte(addr uint16, v byte) {
	if r, ok := m.window(addr); ok {
		m.device.Write(r, uint16(v))
		return
	}
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address.
func (m *Memory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.StoreByte(addr+uint16(i), v)
	}
}

// StoreAddress stores a 16-bit value to the requested address.
func (m *Memory) StoreAddress(addr uint16, v uint16) {
	if r, ok := m.window(addr); ok {
		m.device.Write(r, v)
		return
	}
	m.b[addr] = byte(v & 0xff)
	if (addr & 0xff) == 0xff {
		m.b[addr-0xff] = byte(v >> 8)
	} else {
		m.b[addr+1] = byte(v >> 8)
	}
}
