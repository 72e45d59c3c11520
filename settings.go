package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"pwlsynth/app/bus"
)

type SynthSettings struct {
	Backend  string
	Base     uint
	Extended bool
	Busy     int
	Budget   int
	Settle   time.Duration
	Realtime bool
	Trace    string
	Demo     string
	Regs     bool
	Verbose  bool
	Usage    bool

	// Script is the Lua file named on the command line, if any
	Script string
}

func NewSynthSettings() *SynthSettings {
	opt := &SynthSettings{}
	return opt
}

func (opt *SynthSettings) ParseArgs(args []string, output io.Writer) error {
	flags := flag.NewFlagSet("pwlsynth", flag.ContinueOnError)
	flags.SetOutput(output)

	flags.StringVar(&opt.Backend, "backend", "serial", "register bus: serial or mapped")
	flags.UintVar(&opt.Base, "base", 0xd400, "base address of the register window (mapped backend)")
	flags.BoolVar(&opt.Extended, "extended", false, "drive the extended chip variant")
	flags.IntVar(&opt.Busy, "busy", 4, "polls the simulated device stays busy on a read (negative never clears)")
	flags.IntVar(&opt.Budget, "budget", bus.DefaultPollBudget, "poll budget of a serial read")
	flags.DurationVar(&opt.Settle, "settle", 0, "settle time between serial bus phases")
	flags.BoolVar(&opt.Realtime, "realtime", false, "honour sleep() calls in scripts")
	flags.StringVar(&opt.Trace, "trace", "", "save the register trace to this file")
	flags.StringVar(&opt.Demo, "demo", "mono", "built-in demo to run when no script is given")
	flags.BoolVar(&opt.Regs, "regs", false, "print the simulated registers when done")
	flags.BoolVar(&opt.Verbose, "v", false, "echo log entries to stderr")
	flags.BoolVar(&opt.Usage, "h", false, "display usage information")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if opt.Usage {
		flags.PrintDefaults()
		return flag.ErrHelp
	}

	switch opt.Backend {
	case "serial", "mapped":
	default:
		return fmt.Errorf("unknown backend %q", opt.Backend)
	}
	if opt.Base > 0xffff {
		return errors.New("base address must fit in 16 bits")
	}

	switch flags.NArg() {
	case 0:
	case 1:
		opt.Script = flags.Arg(0)
	default:
		return errors.New("too many arguments")
	}

	return nil
}
