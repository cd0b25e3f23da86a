package vm

import (
	"strings"
	"testing"
)

func TestEnvForCaller_Stable(t *testing.T) {
	e1 := EnvForCaller()
	e2 := EnvForCaller()
	if e1 != e2 {
		t.Fatal("Same caller must get the same Env")
	}
}

func TestEnv_NeverWritten(t *testing.T) {
	// Each test runs on a fresh goroutine, so this Env starts clean.
	if msg, ok := EnvForCaller().LastError(); ok {
		t.Fatalf("Fresh env reported an error: %q", msg)
	}
}

func TestEnv_SetAndOverwrite(t *testing.T) {
	e := EnvForCaller()

	e.SetError("first failure")
	msg, ok := e.LastError()
	if !ok || msg != "first failure" {
		t.Fatalf("Got %q ok=%v", msg, ok)
	}

	e.SetErrorf("second failure on %s", "connect")
	msg, _ = e.LastError()
	if msg != "second failure on connect" {
		t.Fatalf("Overwrite failed, got %q", msg)
	}
}

func TestEnv_Truncation(t *testing.T) {
	e := EnvForCaller()

	e.SetError(strings.Repeat("x", ErrorCap+200))
	msg, _ := e.LastError()
	if len(msg) != ErrorCap {
		t.Fatalf("Expected %d bytes, got %d", ErrorCap, len(msg))
	}
}

func TestEnv_PerCallerIsolation(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		EnvForCaller().SetError("worker failure")
	}()
	<-done

	// The worker's error must not leak into this caller's channel.
	if msg, ok := EnvForCaller().LastError(); ok {
		t.Fatalf("Error leaked across callers: %q", msg)
	}
}

func TestEnv_EmptyMessageCounts(t *testing.T) {
	e := EnvForCaller()
	e.SetError("")

	// An empty write is still a write; only never-written reports false.
	if _, ok := e.LastError(); !ok {
		t.Fatal("Empty write should still mark the buffer written")
	}
}
