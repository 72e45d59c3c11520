package synth

import (
	"pwlsynth/app/logger"
	"pwlsynth/app/regs"
)

// Config describes the chip being driven and how the driver behaves.
type Config struct {
	// Variant of the chip. The extended variant carries the quantization
	// fields in the mode register.
	Variant regs.Variant

	// Octave is the octave shift applied by PlayNote when converting a note
	// to a period.
	Octave int

	// Log is the permission used for the synth's log entries. Nil disables
	// logging.
	Log logger.Permission
}

// DefaultConfig is the configuration for the base chip variant.
func DefaultConfig() Config {
	return Config{
		Variant: regs.Base,
		Octave:  4,
		Log:     logger.Allow,
	}
}

// Flags of the global configuration word.
const (
	CfgStereo      = 1 << 0
	CfgStereoPos   = 1 << 1
	CfgQuantFix    = 1 << 12
	CfgLinearNoise = 1 << 13
)

// DefaultDetuneCounterStep is the detune counter step used by the hardware
// after reset.
const DefaultDetuneCounterStep = 256

// the detune counter step occupies bits 3 to 11 of the configuration word
const (
	cfgStepShift = 3
	cfgStepMask  = 0x1ff
)

// SetCfg writes the global configuration word. The detune counter step is
// placed in bits 3 to 11, replacing whatever cfg holds there. The value
// written is cached and later decides whether PlayNote may use the detune
// fraction bit.
func (s *Synth) SetCfg(cfg uint16, detuneCounterStep uint16) error {
	s.crit.Lock()
	defer s.crit.Unlock()

	word := cfg&^(cfgStepMask<<cfgStepShift) | (detuneCounterStep&cfgStepMask)<<cfgStepShift
	if err := s.bus.Write(regs.Config, word); err != nil {
		return s.fail("set cfg", -1, err)
	}
	s.cfg = word
	return nil
}

// Cfg returns the cached global configuration word.
func (s *Synth) Cfg() uint16 {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.cfg
}
