// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/gogpu/flamerender/hal"
	"github.com/gogpu/flamerender/internal/codegen"
)

// Manager owns one hal.Device's buffers and compiled program for the
// lifetime of an engine session. It is touched only by the engine's
// worker goroutine.
type Manager struct {
	dev hal.Device

	buffers map[hal.BufferRole]trackedBuffer

	program           hal.Program
	programKey        uint64
	programVariations []string
}

type trackedBuffer struct {
	buf hal.Buffer
	cap uint64
}

// NewManager wraps dev. Call InitResources before use and FreeResources
// exactly once when the owning engine terminates.
func NewManager(dev hal.Device) *Manager {
	return &Manager{dev: dev, buffers: make(map[hal.BufferRole]trackedBuffer)}
}

// InitResources is the worker loop's one-time setup call. The
// software/noop backends need no device-level setup beyond what
// OpenDevice already did, so this currently only exists to give the
// worker loop a stable call site independent of backend.
func (m *Manager) InitResources() error { return nil }

// GrowBuffers ensures every role in sizes has a buffer of at least the
// requested capacity, allocating or reallocating (monotonic growth only —
// a buffer never shrinks) as needed. It returns the set of roles that
// were (re)allocated this call, which the caller must re-bind to the
// active program before the next kernel launch.
func (m *Manager) GrowBuffers(sizes map[hal.BufferRole]uint64) ([]hal.BufferRole, error) {
	var grown []hal.BufferRole
	roles := make([]hal.BufferRole, 0, len(sizes))
	for role := range sizes {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })

	for _, role := range roles {
		size := sizes[role]
		existing, ok := m.buffers[role]
		if ok && existing.cap >= size {
			continue
		}
		if ok {
			existing.buf.Destroy()
		}
		buf, err := m.dev.CreateBuffer(hal.BufferDescriptor{
			Label: role.String(),
			Size:  size,
			Usage: hal.BufferUsageStorage | hal.BufferUsageCopyDst | hal.BufferUsageCopySrc,
		})
		if err != nil {
			return grown, fmt.Errorf("device: grow buffer %s to %d bytes: %w", role, size, err)
		}
		m.buffers[role] = trackedBuffer{buf: buf, cap: size}
		grown = append(grown, role)
	}
	return grown, nil
}

// Buffer returns the currently allocated buffer for role, or false if none
// has been allocated yet.
func (m *Manager) Buffer(role hal.BufferRole) (hal.Buffer, bool) {
	tb, ok := m.buffers[role]
	return tb.buf, ok
}

// Rebind re-binds every role in roles to the currently active program.
// Callers must do this after any role in GrowBuffers' return value, and
// after EnsureProgram reports a rebuild, since every kernel argument
// referring to a reallocated buffer must be re-bound.
func (m *Manager) Rebind(roles []hal.BufferRole) error {
	if m.program == nil {
		return fmt.Errorf("device: rebind requested before a program is compiled")
	}
	for _, role := range roles {
		buf, ok := m.buffers[role]
		if !ok {
			return fmt.Errorf("device: rebind: role %s has no buffer", role)
		}
		m.program.BindBuffer(role, buf.buf)
	}
	return nil
}

// RebindAll re-binds every currently allocated buffer role to the active
// program. Used after a program rebuild, since a fresh program starts
// with no bindings at all.
func (m *Manager) RebindAll() error {
	roles := make([]hal.BufferRole, 0, len(m.buffers))
	for role := range m.buffers {
		roles = append(roles, role)
	}
	return m.Rebind(roles)
}

// EnsureProgram returns the program compiled for variations+flags,
// compiling (and releasing any prior program) only on a cache miss. The
// program cache is keyed by the canonically-ordered set of variation
// names: the cache key is a 64-bit xxhash digest of the sorted variation
// list for speed, and a hash hit is still confirmed against the cached
// variation slice itself before being trusted, since hash equality alone
// is not proof of set equality.
func (m *Manager) EnsureProgram(variations []string, flags hal.ProgramFlags) (hal.Program, bool, error) {
	sorted := append([]string(nil), variations...)
	sort.Strings(sorted)
	key := variationKey(sorted)

	if m.program != nil && key == m.programKey && sameVariations(sorted, m.programVariations) {
		return m.program, false, nil
	}

	if m.program != nil {
		m.program.Destroy()
		m.program = nil
	}

	src := codegen.Assemble(sorted, flags)
	prog, err := m.dev.CompileProgram(src)
	if err != nil {
		hal.Logger().Warn("program build failed", "label", src.Label, "source", numberLines(src.Text))
		return nil, false, fmt.Errorf("%w: %s: %v", hal.ErrDeviceLost, src.Label, err)
	}

	m.program = prog
	m.programKey = key
	m.programVariations = sorted
	return prog, true, nil
}

func variationKey(sorted []string) uint64 {
	h := xxhash.New()
	h.Write([]byte(strings.Join(sorted, "\x00")))
	return h.Sum64()
}

// numberLines prefixes each line of src with its 1-based line number, so a
// build-failure log entry reads like a compiler listing instead of one
// opaque blob.
func numberLines(src string) string {
	lines := strings.Split(src, "\n")
	var b strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&b, "%4d: %s\n", i+1, line)
	}
	return b.String()
}

func sameVariations(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FreeResources releases the program and every buffer, then nils every
// handle so a repeated call is a no-op.
func (m *Manager) FreeResources() {
	if m.dev == nil {
		return
	}
	for role, tb := range m.buffers {
		if tb.buf != nil {
			tb.buf.Destroy()
		}
		delete(m.buffers, role)
	}
	if m.program != nil {
		m.program.Destroy()
		m.program = nil
	}
	m.programVariations = nil
	m.programKey = 0
	m.dev.Destroy()
	m.dev = nil
}
