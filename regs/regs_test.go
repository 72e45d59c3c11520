package regs_test

import (
	"testing"

	"pwlsynth/app/regs"
	"pwlsynth/app/test"
)

func TestAddr(t *testing.T) {
	test.ExpectEquality(t, regs.Addr(0, regs.Period), uint8(0))
	test.ExpectEquality(t, regs.Addr(1, regs.SweepPA), uint8(28))
	test.ExpectEquality(t, regs.Addr(3, regs.SweepWS), uint8(62))
	test.ExpectEquality(t, regs.Addr(4, regs.Amp), uint8(2))

	for ch := 0; ch < regs.NumChannels; ch++ {
		test.ExpectEquality(t, regs.Channel(regs.Addr(ch, regs.Mode)), ch)
	}
	test.ExpectEquality(t, regs.Channel(regs.Config), -1)
	test.ExpectEquality(t, regs.Channel(0x40|regs.Config), -1)
}

func TestWidths(t *testing.T) {
	testCases := []struct {
		reg      int
		base     int
		extended int
	}{
		{regs.Period, 13, 13},
		{regs.Phase, 13, 13},
		{regs.Amp, 6, 6},
		{3, 0, 0},
		{regs.SlopeR, 8, 8},
		{regs.SlopeF, 8, 8},
		{regs.PWMOffset, 8, 8},
		{regs.Mode, 13, 16},
		{regs.SweepPA, 16, 16},
		{regs.SweepWS, 16, 16},
		{15, 0, 0},
	}

	for _, ch := range []int{0, 1, 3} {
		for _, tc := range testCases {
			addr := regs.Addr(ch, tc.reg)
			test.ExpectEquality(t, regs.Bits(addr, regs.Base), tc.base)
			test.ExpectEquality(t, regs.Bits(addr, regs.Extended), tc.extended)
		}
	}

	// slot 3 of channel 2 is the config word
	test.ExpectEquality(t, regs.Bits(regs.Addr(2, 3), regs.Base), 16)
	test.ExpectEquality(t, regs.Bits(regs.Addr(1, 3), regs.Base), 0)
}

func TestMask(t *testing.T) {
	test.ExpectEquality(t, regs.Mask(regs.Addr(0, regs.Amp), regs.Base), uint16(0x3f))
	test.ExpectEquality(t, regs.Mask(regs.Addr(0, regs.Mode), regs.Base), uint16(0x1fff))
	test.ExpectEquality(t, regs.Mask(regs.Addr(0, regs.Mode), regs.Extended), uint16(0xffff))
	test.ExpectEquality(t, regs.Mask(regs.Config, regs.Base), uint16(0xffff))
	test.ExpectEquality(t, regs.Mask(5, regs.Base), uint16(0))
}

func TestNames(t *testing.T) {
	test.ExpectEquality(t, regs.Name(regs.Config), "CFG")
	test.ExpectEquality(t, regs.Name(regs.Addr(2, regs.SweepWS)), "SWEEP_WS")
	test.ExpectEquality(t, regs.Name(regs.Addr(1, regs.PWMOffset)), "PWM_OFFSET")
	test.ExpectEquality(t, regs.Name(7), "")
	test.ExpectEquality(t, regs.Extended.String(), "extended")
}
