// Package test contains helper functions for writing tests. The functions
// report failures through the testing.TB interface and return whether the
// expectation was met, so that a test can bail out early if it wants to.
package test

import (
	"testing"
)

// ExpectEquality compares value with expected and fails the test if they
// are not equal.
func ExpectEquality[T comparable](t testing.TB, value T, expected T) bool {
	t.Helper()
	if value != expected {
		t.Errorf("equality test of type %T failed: %v does not equal %v", value, value, expected)
		return false
	}
	return true
}

// ExpectInequality is the inverse of ExpectEquality.
func ExpectInequality[T comparable](t testing.TB, value T, unexpected T) bool {
	t.Helper()
	if value == unexpected {
		t.Errorf("inequality test of type %T failed: %v equals %v", value, value, unexpected)
		return false
	}
	return true
}

// ExpectSuccess tests v for a success condition. Supported types are bool
// (true is success), error (nil is success) and nil.
func ExpectSuccess(t testing.TB, v any) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		if !v {
			t.Errorf("expected success (bool)")
			return false
		}
	case error:
		if v != nil {
			t.Errorf("expected success (error: %v)", v)
			return false
		}
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}
	return true
}

// ExpectFailure is the inverse of ExpectSuccess. A nil value is a failure to
// fail.
func ExpectFailure(t testing.TB, v any) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		t.Errorf("expected failure (nil)")
		return false
	case bool:
		if v {
			t.Errorf("expected failure (bool)")
			return false
		}
	case error:
		if v == nil {
			t.Errorf("expected failure (error)")
			return false
		}
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}
	return true
}
