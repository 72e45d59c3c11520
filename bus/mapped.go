package bus

import (
	"sync"

	"github.com/beevik/go6502/cpu"
)

// Mapped is the memory-mapped backend. Register r is the 16-bit word at
// Base + (r & 63) in the host's address space. Every access is a single
// word load or store and there is no handshake, so Mapped never times out.
type Mapped struct {
	Base uint16

	crit sync.Mutex
	mem  cpu.Memory
}

// NewMapped returns a Mapped backend for the synth window starting at base
// in mem.
func NewMapped(mem cpu.Memory, base uint16) *Mapped {
	return &Mapped{
		Base: base,
		mem:  mem,
	}
}

func (m *Mapped) address(addr uint8) uint16 {
	return m.Base + uint16(addr&addrMask)
}

// Write implements the Bus interface.
func (m *Mapped) Write(addr uint8, value uint16) error {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.mem.StoreAddress(m.address(addr), value)
	return nil
}

// Read implements the Bus interface.
func (m *Mapped) Read(addr uint8) (uint16, error) {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.mem.LoadAddress(m.address(addr)), nil
}
