package main

// runs a Lua script (or a built-in demo) against a simulated chip and prints
// the register traffic it causes:
//
//	go run . -demo chord
//	go run . -backend mapped -regs tune.lua

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"pwlsynth/app/logger"
	"pwlsynth/app/trace"
)

//go:embed demos/*.lua
var demos embed.FS

func demoNames() []string {
	entries, _ := demos.ReadDir("demos")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".lua"))
	}
	sort.Strings(names)
	return names
}

func loadDemo(name string) (string, error) {
	b, err := demos.ReadFile(path.Join("demos", name+".lua"))
	if err != nil {
		return "", fmt.Errorf("no demo named %q (have %s)", name, strings.Join(demoNames(), ", "))
	}
	return string(b), nil
}

func run(opt *SynthSettings) error {
	player := NewSynthPlayer(opt)
	defer player.Close()

	var err error
	if opt.Script != "" {
		err = player.RunFile(opt.Script)
	} else {
		var src string
		src, err = loadDemo(opt.Demo)
		if err == nil {
			err = player.RunString(opt.Demo, src)
		}
	}

	if err == nil {
		err = player.Check()
	}

	// always leave the chip silent
	err = errors.Join(err, player.Stop())

	dumpTrace(os.Stdout, player.Ops())
	if opt.Regs {
		fmt.Println(player.chip)
	}

	if opt.Trace != "" {
		f, ferr := os.Create(opt.Trace)
		if ferr != nil {
			return errors.Join(err, ferr)
		}
		defer f.Close()
		err = errors.Join(err, trace.Save(f, player.variant, player.Ops()))
	}

	return err
}

func main() {
	opt := NewSynthSettings()

	if err := opt.ParseArgs(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Printf("Usage: pwlsynth [options] [script.lua]\n\ndemos: %s\n", strings.Join(demoNames(), ", "))
			os.Exit(0)
		}
		fmt.Printf("*** %s\n", err)
		os.Exit(2)
	}

	if opt.Verbose {
		logger.SetEcho(os.Stderr, true)
	}

	if err := run(opt); err != nil {
		logger.Log(logger.Allow, "main", err)
		fmt.Printf("*** %s\n", err)
		os.Exit(1)
	}
}
