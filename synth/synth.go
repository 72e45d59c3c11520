// Package synth is the host-side driver for the four channel PWL synth.
//
// A Synth keeps a shadow copy of the waveform, sweep and on/off state of
// every channel so that callers can change one aspect of a channel without
// resupplying the others. Changes to a silent channel are held in the shadow
// and applied when the next note is played.
//
// All operations take the Synth's lock for their whole duration. The
// register sequences written by PlayNote and NoteOff are therefore never
// interleaved with other writes made through the same Synth.
//
// A bus error aborts the operation in progress. The channel involved should
// then be treated as being in an unknown state: call NoteOff and play a
// fresh note rather than resume.
package synth

import (
	"errors"
	"fmt"
	"sync"

	"pwlsynth/app/bus"
	"pwlsynth/app/logger"
	"pwlsynth/app/regs"
)

// Sentinel errors returned by a Synth.
var (
	ErrBadChannel     = errors.New("synth: no such channel")
	ErrShadowMismatch = errors.New("synth: register does not match shadow")
)

// DefaultAmp is the amplitude used by PlayNote unless WithAmp is given.
const DefaultAmp = 63

// Synth drives the synth chip over a bus.
type Synth struct {
	crit sync.Mutex

	bus  bus.Bus
	conf Config

	ch  [regs.NumChannels]ChannelState
	cfg uint16
}

// New returns a driver using b. The shadow state starts in the same all-zero
// state as the hardware after reset.
func New(b bus.Bus, conf Config) *Synth {
	return &Synth{
		bus:  b,
		conf: conf,
	}
}

// Reset returns the shadow state to its power-on values. Nothing is written
// to the bus; it should be called when the hardware itself has been reset.
func (s *Synth) Reset() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.ch = [regs.NumChannels]ChannelState{}
	s.cfg = 0
}

// Channel returns a copy of the shadow state of channel ch. An invalid
// channel returns the zero value.
func (s *Synth) Channel(ch int) ChannelState {
	s.crit.Lock()
	defer s.crit.Unlock()
	if ch < 0 || ch >= regs.NumChannels {
		return ChannelState{}
	}
	return s.ch[ch]
}

func (s *Synth) fail(op string, ch int, err error) error {
	if ch >= 0 {
		err = fmt.Errorf("synth: %s: channel %d: %w", op, ch, err)
	} else {
		err = fmt.Errorf("synth: %s: %w", op, err)
	}
	logger.Log(s.conf.Log, "synth", err)
	return err
}

func checkChannel(ch int) error {
	if ch < 0 || ch >= regs.NumChannels {
		return fmt.Errorf("%w: %d", ErrBadChannel, ch)
	}
	return nil
}

// write masks v to the width of the register before writing it.
func (s *Synth) write(ch int, reg int, v uint16) error {
	addr := regs.Addr(ch, reg)
	return s.bus.Write(addr, v&regs.Mask(addr, s.conf.Variant))
}

// writeWaveform writes the shadowed waveform registers of channel ch.
func (s *Synth) writeWaveform(ch int) error {
	st := &s.ch[ch]
	if err := s.write(ch, regs.SlopeR, st.SlopeR); err != nil {
		return err
	}
	if err := s.write(ch, regs.SlopeF, st.SlopeF); err != nil {
		return err
	}
	if err := s.write(ch, regs.PWMOffset, st.PWMOffset); err != nil {
		return err
	}
	return s.write(ch, regs.Mode, st.Mode)
}

// noteOff silences the sweep before the amplitude, otherwise a pending
// upward amplitude sweep could bring the note back.
func (s *Synth) noteOff(ch int) error {
	if err := s.write(ch, regs.SweepPA, 0); err != nil {
		return err
	}
	if err := s.write(ch, regs.Amp, 0); err != nil {
		return err
	}
	s.ch[ch].On = false
	return nil
}

// NoteOff silences channel ch.
func (s *Synth) NoteOff(ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	if err := s.noteOff(ch); err != nil {
		return s.fail("note off", ch, err)
	}
	return nil
}

// AllNotesOff silences every channel, in ascending order. It stops at the
// first channel that fails.
func (s *Synth) AllNotesOff() error {
	s.crit.Lock()
	defer s.crit.Unlock()

	for ch := range s.ch {
		if err := s.noteOff(ch); err != nil {
			return s.fail("all notes off", ch, err)
		}
	}
	return nil
}

// SweepsOff stops both hardware sweeps of channel ch. The shadowed sweep
// settings are kept and are restored by the next PlayNote.
func (s *Synth) SweepsOff(ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	if err := s.write(ch, regs.SweepPA, 0); err != nil {
		return s.fail("sweeps off", ch, err)
	}
	if err := s.write(ch, regs.SweepWS, 0); err != nil {
		return s.fail("sweeps off", ch, err)
	}
	return nil
}

type noteOptions struct {
	amp      uint16
	detune   int
	noDetune bool
}

// NoteOption changes how PlayNote plays a note.
type NoteOption func(*noteOptions)

// WithAmp sets the amplitude of the note. The amplitude register is six
// bits wide.
func WithAmp(amp uint8) NoteOption {
	return func(o *noteOptions) {
		o.amp = uint16(amp)
	}
}

// WithDetune shifts the automatic detuning by a number of semitones.
// Increasing it by 12 doubles the detuning.
func WithDetune(semitones int) NoteOption {
	return func(o *noteOptions) {
		o.detune = semitones
		o.noDetune = false
	}
}

// WithoutDetune turns automatic detuning off for the note.
func WithoutDetune() NoteOption {
	return func(o *noteOptions) {
		o.noDetune = true
	}
}

// detuneFor returns the 4-bit detune setting for a note. The top three bits
// are the detune exponent and the bottom bit is the detune fraction.
func detuneFor(semitone int, o noteOptions) int {
	if o.noDetune {
		return 0
	}
	return max(0, min(15, floorDiv(semitone+o.detune, 6)))
}

// PlayNote plays note n on channel ch, applying any waveform and sweep
// settings made while the channel was silent.
//
// The detune exponent and fraction in the mode register are derived from
// the note. The fraction bit doubles as part of the frequency multiplier
// setup, so it is only changed when stereo position mode is on or the
// channel has no frequency multiplier.
func (s *Synth) PlayNote(ch int, n Note, opts ...NoteOption) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	o := noteOptions{amp: DefaultAmp}
	for _, opt := range opts {
		opt(&o)
	}

	semitone := n.semitone()
	period := PeriodFor(Semitone(semitone), s.conf.Octave)

	s.crit.Lock()
	defer s.crit.Unlock()

	st := &s.ch[ch]

	detune := uint16(detuneFor(semitone, o))
	mode := st.Mode&^modeDetuneExp | detune>>1
	if s.cfg&CfgStereoPos != 0 || mode&modeFreqMultMask == 0 {
		mode = mode&^(1<<modeDetuneFraction) | (detune&1)<<modeDetuneFraction
	}

	// stop the amplitude sweeping upwards before the new note is set up
	if err := s.noteOff(ch); err != nil {
		return s.fail("play note", ch, err)
	}
	if err := s.write(ch, regs.SweepWS, 0); err != nil {
		return s.fail("play note", ch, err)
	}

	if err := s.write(ch, regs.SlopeR, st.SlopeR); err != nil {
		return s.fail("play note", ch, err)
	}
	if err := s.write(ch, regs.SlopeF, st.SlopeF); err != nil {
		return s.fail("play note", ch, err)
	}
	if err := s.write(ch, regs.PWMOffset, st.PWMOffset); err != nil {
		return s.fail("play note", ch, err)
	}
	if err := s.write(ch, regs.Mode, mode); err != nil {
		return s.fail("play note", ch, err)
	}
	st.Mode = mode

	if err := s.playRaw(ch, period, o.amp); err != nil {
		return s.fail("play note", ch, err)
	}

	if err := s.write(ch, regs.SweepPA, st.SweepPA); err != nil {
		return s.fail("play note", ch, err)
	}
	if err := s.write(ch, regs.SweepWS, st.SweepWS); err != nil {
		return s.fail("play note", ch, err)
	}
	return nil
}

func (s *Synth) playRaw(ch int, period uint16, amp uint16) error {
	if err := s.write(ch, regs.Period, period); err != nil {
		return err
	}
	if err := s.write(ch, regs.Amp, amp); err != nil {
		return err
	}
	s.ch[ch].On = true
	return nil
}

// PlayRawNote writes the period and amplitude registers of channel ch
// directly. No waveform, sweep or detune state is touched.
func (s *Synth) PlayRawNote(ch int, period uint16, amp uint8) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	if err := s.playRaw(ch, period, uint16(amp)); err != nil {
		return s.fail("play raw note", ch, err)
	}
	return nil
}

// SetWaveform changes the waveform of channel ch. If the channel is playing
// the change is written immediately, otherwise it takes effect with the next
// PlayNote.
func (s *Synth) SetWaveform(ch int, w Waveform) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	st := &s.ch[ch]
	st.SlopeR = w.SlopeR & 0xff
	st.SlopeF = w.SlopeF & 0xff
	st.PWMOffset = w.PWMOffset & 0xff
	st.Mode = w.mode(s.conf.Variant)

	if !st.On {
		return nil
	}
	if err := s.writeWaveform(ch); err != nil {
		return s.fail("set waveform", ch, err)
	}
	return nil
}

// SetPeriodAmpSweep changes the period and amplitude sweeps of channel ch.
// If the channel is playing the change is written immediately, otherwise it
// takes effect with the next PlayNote.
func (s *Synth) SetPeriodAmpSweep(ch int, sw PeriodAmpSweep) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	st := &s.ch[ch]
	st.SweepPA = sw.encode()

	if !st.On {
		return nil
	}
	if err := s.write(ch, regs.SweepPA, st.SweepPA); err != nil {
		return s.fail("set period/amp sweep", ch, err)
	}
	return nil
}

// SetPWMSlopeSweep changes the PWM offset and slope sweeps of channel ch.
// If the channel is playing the change is written immediately, otherwise it
// takes effect with the next PlayNote.
func (s *Synth) SetPWMSlopeSweep(ch int, sw PWMSlopeSweep) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	st := &s.ch[ch]
	st.SweepWS = sw.encode()

	if !st.On {
		return nil
	}
	if err := s.write(ch, regs.SweepWS, st.SweepWS); err != nil {
		return s.fail("set pwm/slope sweep", ch, err)
	}
	return nil
}

// CheckChannel reads back the waveform registers of a playing channel and
// compares them with the shadow. It is useful after a bus error to find out
// whether the channel needs to be set up again. A silent channel always
// passes because its shadow may legitimately hold changes not yet written.
func (s *Synth) CheckChannel(ch int) error {
	if err := checkChannel(ch); err != nil {
		return err
	}

	s.crit.Lock()
	defer s.crit.Unlock()

	st := s.ch[ch]
	if !st.On {
		return nil
	}

	for _, c := range []struct {
		reg    int
		shadow uint16
	}{
		{regs.SlopeR, st.SlopeR},
		{regs.SlopeF, st.SlopeF},
		{regs.PWMOffset, st.PWMOffset},
		{regs.Mode, st.Mode},
	} {
		addr := regs.Addr(ch, c.reg)
		v, err := s.bus.Read(addr)
		if err != nil {
			return s.fail("check channel", ch, err)
		}
		mask := regs.Mask(addr, s.conf.Variant)
		if v&mask != c.shadow&mask {
			return s.fail("check channel", ch,
				fmt.Errorf("%w: %s is %#04x, expected %#04x", ErrShadowMismatch, regs.Name(addr), v&mask, c.shadow&mask))
		}
	}
	return nil
}
