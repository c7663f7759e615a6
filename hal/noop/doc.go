// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package noop is a hal.Backend that allocates real buffers but runs every
// kernel as a no-op. It exists for lifecycle and wiring tests that need a
// Backend without paying for chaos-game math, and always scores below the
// software backend so it is never picked when both are registered and a
// caller asks for BackendDefault/BackendAll/BackendCPU.
package noop
