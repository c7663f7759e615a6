// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hal defines the compute-accelerator capability the engine drives:
// a Backend opens Devices, a Device compiles Programs and allocates Buffers,
// a Program launches Kernels, and a Queue moves bytes to/from the host.
//
// This is a deliberately narrow slice of a full graphics HAL (no textures,
// no render passes, no swapchain): the flame kernel is treated as an opaque
// program whose inputs and outputs are buffer roles, and this package is
// exactly that enumeration (see DESIGN.md).
//
// # Backend Registration
//
// Backends register themselves with RegisterBackend; RequestBackend then
// selects among registered backends by BackendKind, scoring candidates by
// max-clock-frequency * max-compute-units.
//
// # Thread Safety
//
// Backend registration is safe for concurrent use. Device, Queue, Buffer,
// and Program are not — the engine's single worker goroutine is the only
// caller.
package hal
