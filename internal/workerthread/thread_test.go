// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package workerthread

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerCallVoid(t *testing.T) {
	w := New()
	defer w.Stop()

	var called atomic.Bool
	w.CallVoid(func() {
		called.Store(true)
	})

	if !called.Load() {
		t.Error("CallVoid did not execute function")
	}
}

func TestWorkerCall(t *testing.T) {
	w := New()
	defer w.Stop()

	result := w.Call(func() any { return 42 })
	if result != 42 {
		t.Errorf("Call returned %v, want 42", result)
	}
}

func TestWorkerCallAsync(t *testing.T) {
	w := New()
	defer w.Stop()

	var called atomic.Bool
	w.CallAsync(func() {
		called.Store(true)
	})

	time.Sleep(10 * time.Millisecond)

	if !called.Load() {
		t.Error("CallAsync did not execute function")
	}
}

func TestWorkerStop(t *testing.T) {
	w := New()

	if !w.IsRunning() {
		t.Error("Worker should be running after New()")
	}

	w.Stop()

	if w.IsRunning() {
		t.Error("Worker should not be running after Stop()")
	}

	// Calling methods on a stopped worker must not panic.
	w.CallVoid(func() {})
	w.Call(func() any { return nil })
	w.CallAsync(func() {})
}
