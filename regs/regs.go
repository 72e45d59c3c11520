// Package regs describes the register map of the PWL synth: the per-channel
// register block, the global configuration word and the width of every
// field as seen from the bus.
package regs

// NumChannels is the number of synth channels.
const NumChannels = 4

// NumAddresses is the size of the register address space. Addresses are
// always taken modulo NumAddresses.
const NumAddresses = 64

// Per-channel register offsets. Channel c owns addresses c*16 to c*16+15.
const (
	Period    = 0
	Phase     = 1
	Amp       = 2
	SlopeR    = 4
	SlopeF    = 6
	PWMOffset = 8
	Mode      = 10
	SweepPA   = 12
	SweepWS   = 14
)

// Config is the address of the global configuration word. It sits in the
// otherwise unused slot 3 of channel 2's block.
const Config = 0x23

// Addr returns the bus address of register reg in channel ch.
func Addr(ch int, reg int) uint8 {
	return uint8((ch*16 + reg) & (NumAddresses - 1))
}

// Name returns a short human readable name for the register at addr, or the
// empty string if addr is unmapped.
func Name(addr uint8) string {
	addr &= NumAddresses - 1
	if addr == Config {
		return "CFG"
	}
	switch addr & 15 {
	case Period:
		return "PERIOD"
	case Phase:
		return "PHASE"
	case Amp:
		return "AMP"
	case SlopeR:
		return "SLOPE_R"
	case SlopeF:
		return "SLOPE_F"
	case PWMOffset:
		return "PWM_OFFSET"
	case Mode:
		return "MODE"
	case SweepPA:
		return "SWEEP_PA"
	case SweepWS:
		return "SWEEP_WS"
	}
	return ""
}

// Channel returns the channel that owns addr. The config word reports
// channel -1.
func Channel(addr uint8) int {
	addr &= NumAddresses - 1
	if addr == Config {
		return -1
	}
	return int(addr >> 4)
}

// Variant selects between the two generations of the chip. The extended
// variant widens the mode register to carry the quantization fields.
type Variant int

// List of valid Variant values.
const (
	Base Variant = iota
	Extended
)

func (v Variant) String() string {
	if v == Extended {
		return "extended"
	}
	return "base"
}

// Bits returns the width in bits of the register at addr for the given chip
// variant. Unmapped addresses are zero bits wide.
func Bits(addr uint8, v Variant) int {
	addr &= NumAddresses - 1
	if addr == Config {
		return 16
	}
	switch addr & 15 {
	case Period, Phase:
		return 13
	case Amp:
		return 6
	case SlopeR, SlopeF, PWMOffset:
		return 8
	case Mode:
		if v == Extended {
			return 16
		}
		return 13
	case SweepPA, SweepWS:
		return 16
	}
	return 0
}

// Mask returns the bitmask of valid bits of the register at addr.
func Mask(addr uint8, v Variant) uint16 {
	return uint16((uint32(1) << Bits(addr, v)) - 1)
}
