// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package software is a CPU-executed hal.Backend: it runs the chaos game
// for real, fanning each kernel launch's work items out across
// runtime.GOMAXPROCS(0) goroutines with golang.org/x/sync/errgroup so a
// batch's wall-clock duration actually varies with work, which is what the
// adaptive batching controller needs to predict against.
//
// It is not a GPU backend — there is no device to lose, no out-of-memory
// condition short of the host's own memory — but it implements the same
// hal.Backend contract a real accelerator would, and is the backend every
// end-to-end test in this module runs against.
package software
