package main

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"pwlsynth/app/bus"
	"pwlsynth/app/logger"
	"pwlsynth/app/regs"
	"pwlsynth/app/sim"
	"pwlsynth/app/synth"
	"pwlsynth/app/trace"
)

// SynthPlayer runs Lua scripts that sequence calls into the driver. The
// driver is connected to a simulated chip through the bus chosen in the
// settings, and every register access is recorded.
type SynthPlayer struct {
	synth    *synth.Synth
	rec      *trace.Recorder
	chip     *sim.Chip
	variant  regs.Variant
	realtime bool
	state    *lua.LState
}

func NewSynthPlayer(opt *SynthSettings) *SynthPlayer {
	player := &SynthPlayer{}
	player.variant = regs.Base
	if opt.Extended {
		player.variant = regs.Extended
	}
	player.realtime = opt.Realtime
	player.chip = sim.NewChip(player.variant)

	var b bus.Bus
	switch opt.Backend {
	case "mapped":
		mem := sim.NewMemory()
		mem.Attach(uint16(opt.Base), player.chip)
		b = bus.NewMapped(mem, uint16(opt.Base))
	default:
		dev := sim.NewSerialDevice(player.chip)
		dev.BusyPolls = opt.Busy
		serial := bus.NewSerial(dev)
		serial.PollBudget = opt.Budget
		serial.Settle = opt.Settle
		b = serial
	}
	player.rec = trace.NewRecorder(b)

	conf := synth.DefaultConfig()
	conf.Variant = player.variant
	player.synth = synth.New(player.rec, conf)

	player.state = lua.NewState()
	player.register()

	logger.Logf(logger.Allow, "player", "%s bus, %s chip", opt.Backend, player.variant)
	return player
}

func (s *SynthPlayer) Close() {
	s.state.Close()
}

func (s *SynthPlayer) RunFile(fileName string) error {
	if err := s.state.DoFile(fileName); err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	return nil
}

func (s *SynthPlayer) RunString(name string, src string) error {
	if err := s.state.DoString(src); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Stop silences every channel. It is called once the script has finished,
// whether or not it succeeded.
func (s *SynthPlayer) Stop() error {
	return s.synth.AllNotesOff()
}

// Check reads back the waveform registers of every playing channel.
func (s *SynthPlayer) Check() error {
	for ch := 0; ch < regs.NumChannels; ch++ {
		if err := s.synth.CheckChannel(ch); err != nil {
			return err
		}
	}
	return nil
}

func (s *SynthPlayer) Ops() []trace.Op {
	return s.rec.Ops()
}

func (s *SynthPlayer) register() {
	L := s.state

	for name, v := range map[string]int{
		"WAVEFORM_LINEAR_OSC": int(synth.LinearOsc),
		"WAVEFORM_NOISE":      int(synth.Noise),
		"WAVEFORM_PWL_OSC":    int(synth.PWLOsc),
		"WAVEFORM_ORION":      int(synth.Orion),
		"OSC_SYNC_OFF":        int(synth.SyncOff),
		"OSC_SYNC_4_BIT":      int(synth.Sync4Bit),
		"OSC_SYNC_HARD":       int(synth.SyncHard),
		"OSC_SYNC_SOFT":       int(synth.SyncSoft),
		"CFG_STEREO_EN":       synth.CfgStereo,
		"CFG_STEREO_POS_EN":   synth.CfgStereoPos,
		"CFG_QUANT_FIX":       synth.CfgQuantFix,
		"CFG_LINEAR_NOISE":    synth.CfgLinearNoise,
	} {
		L.SetGlobal(name, lua.LNumber(v))
	}

	for name, fn := range map[string]lua.LGFunction{
		"play_note":            s.luaPlayNote,
		"play_raw_note":        s.luaPlayRawNote,
		"note_off":             s.luaNoteOff,
		"all_notes_off":        s.luaAllNotesOff,
		"sweeps_off":           s.luaSweepsOff,
		"set_waveform":         s.luaSetWaveform,
		"set_period_amp_sweep": s.luaSetPeriodAmpSweep,
		"set_pwm_slope_sweep":  s.luaSetPWMSlopeSweep,
		"set_cfg":              s.luaSetCfg,
		"sleep":                s.luaSleep,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// raise turns a driver error into a Lua error, which stops the script
func raise(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// luaNote accepts either a semitone number or a {name, octave} table
func luaNote(L *lua.LState, n int) synth.Note {
	switch v := L.Get(n).(type) {
	case lua.LNumber:
		return synth.Semitone(int(v))
	case *lua.LTable:
		name, err := synth.ParseNoteName(lua.LVAsString(v.RawGetInt(1)))
		if err != nil {
			L.ArgError(n, err.Error())
			return nil
		}
		return synth.Named{Name: name, Octave: int(lua.LVAsNumber(v.RawGetInt(2)))}
	}
	L.ArgError(n, "note must be a number or a {name, octave} table")
	return nil
}

func intField(t *lua.LTable, key string, def int) int {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return def
	}
	return int(lua.LVAsNumber(v))
}

func boolField(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}

// play_note(channel, note [, amp [, relative_detune]])
//
// relative_detune false turns detuning off for the note.
func (s *SynthPlayer) luaPlayNote(L *lua.LState) int {
	ch := L.CheckInt(1)
	note := luaNote(L, 2)
	opts := []synth.NoteOption{synth.WithAmp(uint8(L.OptInt(3, synth.DefaultAmp)))}
	switch v := L.Get(4).(type) {
	case lua.LNumber:
		opts = append(opts, synth.WithDetune(int(v)))
	case lua.LBool:
		if !bool(v) {
			opts = append(opts, synth.WithoutDetune())
		}
	}
	return raise(L, s.synth.PlayNote(ch, note, opts...))
}

// play_raw_note(channel, period [, amp])
func (s *SynthPlayer) luaPlayRawNote(L *lua.LState) int {
	return raise(L, s.synth.PlayRawNote(L.CheckInt(1), uint16(L.CheckInt(2)), uint8(L.OptInt(3, synth.DefaultAmp))))
}

func (s *SynthPlayer) luaNoteOff(L *lua.LState) int {
	return raise(L, s.synth.NoteOff(L.CheckInt(1)))
}

func (s *SynthPlayer) luaAllNotesOff(L *lua.LState) int {
	return raise(L, s.synth.AllNotesOff())
}

func (s *SynthPlayer) luaSweepsOff(L *lua.LState) int {
	return raise(L, s.synth.SweepsOff(L.CheckInt(1)))
}

// set_waveform(channel, {slope_r=, slope_f=, pwm_offset=, detune_exp=,
// waveform=, freq_multipliers=, common_sat=, osc_sync=, detune_fifth=,
// common_quant=, quant_level=})
func (s *SynthPlayer) luaSetWaveform(L *lua.LState) int {
	ch := L.CheckInt(1)
	t := L.OptTable(2, L.NewTable())
	w := synth.Waveform{
		SlopeR:         uint16(intField(t, "slope_r", 0)),
		SlopeF:         uint16(intField(t, "slope_f", 0)),
		PWMOffset:      uint16(intField(t, "pwm_offset", 0)),
		DetuneExp:      uint8(intField(t, "detune_exp", 0)),
		Shape:          synth.Shape(intField(t, "waveform", 0)),
		FreqMult:       uint8(intField(t, "freq_multipliers", 0)),
		CommonSat:      boolField(t, "common_sat"),
		OscSync:        synth.OscSync(intField(t, "osc_sync", 0)),
		DetuneFraction: boolField(t, "detune_fifth"),
		CommonQuant:    boolField(t, "common_quant"),
		QuantLevel:     uint8(intField(t, "quant_level", 0)),
	}
	return raise(L, s.synth.SetWaveform(ch, w))
}

// set_period_amp_sweep(channel, {period_down=, period_rate=, amp_target=, amp_rate=})
func (s *SynthPlayer) luaSetPeriodAmpSweep(L *lua.LState) int {
	ch := L.CheckInt(1)
	t := L.OptTable(2, L.NewTable())
	sw := synth.PeriodAmpSweep{
		PeriodDown: boolField(t, "period_down"),
		PeriodRate: uint8(intField(t, "period_rate", 0)),
		AmpTarget:  uint8(intField(t, "amp_target", 0)),
		AmpRate:    uint8(intField(t, "amp_rate", 0)),
	}
	return raise(L, s.synth.SetPeriodAmpSweep(ch, sw))
}

// set_pwm_slope_sweep(channel, {pwm_down=, pwm_rate=, slope_down=, slope_dir=, slope_rate=})
func (s *SynthPlayer) luaSetPWMSlopeSweep(L *lua.LState) int {
	ch := L.CheckInt(1)
	t := L.OptTable(2, L.NewTable())
	sw := synth.PWMSlopeSweep{
		PWMDown:   boolField(t, "pwm_down"),
		PWMRate:   uint8(intField(t, "pwm_rate", 0)),
		SlopeDown: boolField(t, "slope_down"),
		SlopeDir:  uint8(intField(t, "slope_dir", synth.SlopeDirBoth)),
		SlopeRate: uint8(intField(t, "slope_rate", 0)),
	}
	return raise(L, s.synth.SetPWMSlopeSweep(ch, sw))
}

// set_cfg(cfg [, detune_counter_step])
func (s *SynthPlayer) luaSetCfg(L *lua.LState) int {
	cfg := uint16(L.CheckInt(1))
	step := uint16(L.OptInt(2, synth.DefaultDetuneCounterStep))
	return raise(L, s.synth.SetCfg(cfg, step))
}

// sleep(seconds)
func (s *SynthPlayer) luaSleep(L *lua.LState) int {
	d := time.Duration(float64(L.CheckNumber(1)) * float64(time.Second))
	s.rec.Pause(uint16(min(d.Milliseconds(), 0xffff)))
	if s.realtime {
		time.Sleep(d)
	}
	return 0
}
