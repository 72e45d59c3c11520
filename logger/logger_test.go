package logger_test

import (
	"errors"
	"strings"
	"testing"

	"pwlsynth/app/logger"
	"pwlsynth/app/test"
)

func TestLogger(t *testing.T) {
	logger.Clear()
	defer logger.SetEcho(nil, false)

	var echo strings.Builder
	logger.SetEcho(&echo, false)

	logger.Log(logger.Allow, "test", "this is a test")
	logger.Log(logger.Deny, "test", "this is denied")
	logger.Log(nil, "test", "so is this")
	logger.Log(logger.Allow, "test", errors.New("an error"))
	logger.Logf(logger.Allow, "test", "value %d", 10)

	entries := logger.Entries()
	test.ExpectEquality(t, len(entries), 3)
	test.ExpectEquality(t, entries[1].Detail, "an error")
	test.ExpectEquality(t, echo.String(), "test: this is a test\ntest: an error\ntest: value 10\n")

	var tail strings.Builder
	logger.Tail(&tail, 1)
	test.ExpectEquality(t, tail.String(), "test: value 10\n")

	tail.Reset()
	logger.Tail(&tail, -1)
	test.ExpectEquality(t, strings.Count(tail.String(), "\n"), 3)
}

func TestLoggerRepeats(t *testing.T) {
	logger.Clear()
	for i := 0; i < 5; i++ {
		logger.Log(logger.Allow, "bus", "timeout")
	}
	logger.Log(logger.Allow, "synth", "timeout")

	entries := logger.Entries()
	test.ExpectEquality(t, len(entries), 2)
	test.ExpectEquality(t, entries[0].Repeated, 4)
	test.ExpectEquality(t, entries[0].String(), "bus: timeout (repeat x5)")
}

func TestLoggerBounded(t *testing.T) {
	logger.Clear()
	for i := 0; i < 1000; i++ {
		logger.Logf(logger.Allow, "test", "%d", i)
	}
	entries := logger.Entries()
	test.ExpectEquality(t, len(entries), 256)
	test.ExpectEquality(t, entries[len(entries)-1].Detail, "999")
}
