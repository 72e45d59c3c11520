package bus_test

import (
	"testing"

	"github.com/beevik/go6502/cpu"

	"pwlsynth/app/bus"
	"pwlsynth/app/regs"
	"pwlsynth/app/sim"
	"pwlsynth/app/test"
)

func TestMappedFlatMemory(t *testing.T) {
	mem := cpu.NewFlatMemory()
	m := bus.NewMapped(mem, 0xd400)

	test.ExpectSuccess(t, m.Write(regs.Addr(0, regs.Period), 0x1234))
	test.ExpectEquality(t, mem.LoadByte(0xd400), byte(0x34))
	test.ExpectEquality(t, mem.LoadByte(0xd401), byte(0x12))

	// addresses wrap into the register window
	test.ExpectSuccess(t, m.Write(0x40|regs.Config, 0xbeef))
	test.ExpectEquality(t, mem.LoadAddress(0xd400+regs.Config), uint16(0xbeef))

	v, err := m.Read(regs.Config)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint16(0xbeef))
}

func TestMappedDevice(t *testing.T) {
	chip := sim.NewChip(regs.Extended)
	mem := sim.NewMemory()
	mem.Attach(0x8000, chip)
	m := bus.NewMapped(mem, 0x8000)

	for addr := uint8(0); addr < regs.NumAddresses; addr++ {
		test.ExpectSuccess(t, m.Write(addr, 0xffff))
		v, err := m.Read(addr)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, v, regs.Mask(addr, regs.Extended))
		test.ExpectEquality(t, chip.Read(addr), regs.Mask(addr, regs.Extended))
	}

	// memory either side of the window is untouched
	test.ExpectEquality(t, mem.LoadByte(0x7fff), byte(0))
	test.ExpectEquality(t, mem.LoadByte(0x8000+regs.NumAddresses), byte(0))
}

func TestMappedBaseChange(t *testing.T) {
	mem := cpu.NewFlatMemory()
	m := bus.NewMapped(mem, 0x1000)
	m.Base = 0x2000

	test.ExpectSuccess(t, m.Write(1, 0x55aa))
	test.ExpectEquality(t, mem.LoadAddress(0x2001), uint16(0x55aa))
	test.ExpectEquality(t, mem.LoadAddress(0x1001), uint16(0))
}

func TestBackendsSatisfyBus(t *testing.T) {
	var _ bus.Bus = bus.NewMapped(cpu.NewFlatMemory(), 0)
	var _ bus.Bus = bus.NewSerial(sim.NewSerialDevice(sim.NewChip(regs.Base)))
}
