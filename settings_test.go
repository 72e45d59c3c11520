package main

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"pwlsynth/app/test"
)

func TestSettingsDefaults(t *testing.T) {
	opt := NewSynthSettings()
	test.ExpectSuccess(t, opt.ParseArgs(nil, io.Discard))
	test.ExpectEquality(t, opt.Backend, "serial")
	test.ExpectEquality(t, opt.Base, uint(0xd400))
	test.ExpectEquality(t, opt.Budget, 70)
	test.ExpectEquality(t, opt.Busy, 4)
	test.ExpectEquality(t, opt.Demo, "mono")
	test.ExpectEquality(t, opt.Script, "")
}

func TestSettingsFlags(t *testing.T) {
	opt := NewSynthSettings()
	err := opt.ParseArgs([]string{"-backend", "mapped", "-base", "0x9000", "-extended", "-settle", "2ms", "-regs", "tune.lua"}, io.Discard)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, opt.Backend, "mapped")
	test.ExpectEquality(t, opt.Base, uint(0x9000))
	test.ExpectEquality(t, opt.Extended, true)
	test.ExpectEquality(t, opt.Settle, 2*time.Millisecond)
	test.ExpectEquality(t, opt.Regs, true)
	test.ExpectEquality(t, opt.Script, "tune.lua")
}

func TestSettingsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-backend", "parallel"},
		{"-base", "0x10000"},
		{"a.lua", "b.lua"},
		{"-nosuchflag"},
	} {
		test.ExpectFailure(t, NewSynthSettings().ParseArgs(args, io.Discard))
	}

	err := NewSynthSettings().ParseArgs([]string{"-h"}, io.Discard)
	test.ExpectSuccess(t, errors.Is(err, flag.ErrHelp))
}
