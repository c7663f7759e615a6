// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

import "sync"

var (
	registryMu sync.Mutex
	backends   []Backend
)

// RegisterBackend registers a Backend for discovery by RequestBackend.
// Backend packages call this from an init() func, the same blank-import
// pattern hal/noop and hal/software both use to register themselves.
//
// Safe for concurrent use.
func RegisterBackend(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = append(backends, b)
}

// RequestBackend selects, among registered backends matching kind, the one
// maximizing AdapterInfo.Score() (max clock frequency times max compute
// units). BackendDefault and BackendAll both match any registered backend;
// BackendCPU/GPU/Accelerator only match backends that report that exact
// kind.
func RequestBackend(kind BackendKind) (Backend, error) {
	registryMu.Lock()
	candidates := make([]Backend, len(backends))
	copy(candidates, backends)
	registryMu.Unlock()

	if len(candidates) == 0 {
		return nil, ErrNoBackends
	}

	var best Backend
	var bestScore uint64
	found := false
	for _, b := range candidates {
		info := b.Info()
		if kind != BackendDefault && kind != BackendAll && info.Kind != kind {
			continue
		}
		score := info.Score()
		if !found || score > bestScore {
			best, bestScore, found = b, score, true
		}
	}
	if !found {
		return nil, ErrNoMatch
	}
	return best, nil
}

// resetRegistry is a test-only helper so tests in this package don't leak
// registrations into one another.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends = nil
}
