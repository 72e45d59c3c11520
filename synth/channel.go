package synth

import (
	"fmt"

	"pwlsynth/app/regs"
)

// Shape selects the waveform generator of a channel.
type Shape uint8

// List of valid Shape values.
const (
	LinearOsc Shape = iota
	Noise
	PWLOsc
	Orion
)

// OscSync selects how a channel's oscillator is synced.
type OscSync uint8

// List of valid OscSync values.
const (
	SyncOff OscSync = iota
	Sync4Bit
	SyncHard
	SyncSoft
)

// mode register layout
const (
	modeDetuneExp      = 0x0007
	modeShapeLow       = 3
	modeFreqMult       = 4
	modeFreqMultMask   = 7 << modeFreqMult
	modeCommonSat      = 7
	modeShapeHigh      = 8
	modeOscSync        = 9
	modeDetuneFraction = 11
	modeCommonQuant    = 12
	modeQuantLevel     = 13
)

// Waveform is the shape of a channel's output. The zero value is a plain
// triangle wave.
type Waveform struct {
	SlopeR    uint16
	SlopeF    uint16
	PWMOffset uint16

	DetuneExp      uint8
	Shape          Shape
	FreqMult       uint8
	CommonSat      bool
	OscSync        OscSync
	DetuneFraction bool

	// only present on the extended chip variant
	CommonQuant bool
	QuantLevel  uint8
}

// mode packs the waveform into the mode register for the chip variant.
func (w Waveform) mode(v regs.Variant) uint16 {
	m := uint16(w.DetuneExp) & modeDetuneExp
	m |= uint16(w.Shape&1) << modeShapeLow
	m |= uint16(w.FreqMult&7) << modeFreqMult
	m |= b2u(w.CommonSat) << modeCommonSat
	m |= uint16(w.Shape&2) >> 1 << modeShapeHigh
	m |= uint16(w.OscSync&3) << modeOscSync
	m |= b2u(w.DetuneFraction) << modeDetuneFraction
	if v == regs.Extended {
		m |= b2u(w.CommonQuant) << modeCommonQuant
		m |= uint16(w.QuantLevel&7) << modeQuantLevel
	}
	return m
}

// SlopeDirBoth is the slope direction selector that sweeps both the rising
// and falling slope.
const SlopeDirBoth = 3

// PeriodAmpSweep configures the hardware sweeps of period and amplitude.
type PeriodAmpSweep struct {
	PeriodDown bool
	PeriodRate uint8
	AmpTarget  uint8
	AmpRate    uint8
}

// encode returns the SWEEP_PA register value. A period rate of 2 is the
// fastest rate and is represented as 1, and amp rates 1 to 4 all encode as
// the fastest rate.
func (s PeriodAmpSweep) encode() uint16 {
	pr := s.PeriodRate
	if pr == 2 {
		pr = 1
	}
	ar := clampRate(s.AmpRate)

	period := uint16(pr&15) | b2u(s.PeriodDown)<<4
	amp := uint16(ar&15) | uint16(s.AmpTarget&7)<<4
	return amp | period<<8
}

// PWMSlopeSweep configures the hardware sweeps of PWM offset and slope.
// The slope sweep only acts on the slopes picked by SlopeDir; most callers
// want SlopeDirBoth.
type PWMSlopeSweep struct {
	PWMDown   bool
	PWMRate   uint8
	SlopeDown bool
	SlopeDir  uint8
	SlopeRate uint8
}

// encode returns the SWEEP_WS register value. Rates 1 to 4 all encode as
// the fastest rate.
func (s PWMSlopeSweep) encode() uint16 {
	pwm := uint16(clampRate(s.PWMRate)&15) | b2u(s.PWMDown)<<4
	slope := uint16(clampRate(s.SlopeRate)&15) | b2u(s.SlopeDown)<<4 | uint16(s.SlopeDir&3)<<5
	return pwm | slope<<8
}

// rate 4 can't be told apart from the fastest rate by the encoding
func clampRate(r uint8) uint8 {
	if r > 0 && r <= 4 {
		return 1
	}
	return r
}

// ChannelState is the host's copy of the registers of one channel. The
// period and amplitude are not kept because they are written afresh for
// every note.
type ChannelState struct {
	On        bool
	SlopeR    uint16
	SlopeF    uint16
	PWMOffset uint16
	Mode      uint16
	SweepPA   uint16
	SweepWS   uint16
}

func (c ChannelState) String() string {
	on := "off"
	if c.On {
		on = "on"
	}
	return fmt.Sprintf("%s sr=%02x sf=%02x pwm=%02x mode=%04x pa=%04x ws=%04x",
		on, c.SlopeR, c.SlopeF, c.PWMOffset, c.Mode, c.SweepPA, c.SweepWS)
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
