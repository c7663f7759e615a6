// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package device is the device resource manager: lazy allocation,
// monotonic growth, and release of the per-flame compute buffers, plus
// the program/kernel cache keyed by variation set.
package device

import "github.com/gogpu/flamerender/hal"

// VariationParamSlots is the fixed number of per-xform variation
// parameters every buffer layout reserves, matching the software backend's
// decoding (hal/software.variationParamSlots).
const VariationParamSlots = 4

// PreferredWorkSize is the software backend's work-item count per kernel
// launch. A real GPU backend would instead report this from its
// AdapterInfo; the software backend has no hardware work-group concept, so
// a single constant stands in for it.
const PreferredWorkSize = 4096

// Sizes computes the required byte capacity, in bytes, for every buffer
// role given the current flame's xform count and the session's image
// dimensions: transform-count buffers, variation and parameter buffers,
// RNG/point/color work buffers, and image buffers of width*height
// elements.
func Sizes(numXforms, width, height int) map[hal.BufferRole]uint64 {
	pixels := uint64(width * height)
	xforms := uint64(numXforms)
	return map[hal.BufferRole]uint64{
		hal.RoleRNGState:             PreferredWorkSize * 8,
		hal.RolePoint:                PreferredWorkSize * 16,
		hal.RoleColor:                PreferredWorkSize * 8,
		hal.RoleXformWeight:          xforms * 8,
		hal.RoleXformAffine:          xforms * 48,
		hal.RoleXformPostAffine:      xforms * 48,
		hal.RoleXformColorIndex:      xforms * 8,
		hal.RoleXformVariationCoeffs: xforms * 8,
		hal.RoleXformVariationParams: xforms * VariationParamSlots * 8,
		hal.RoleFlameView:            72, // 6 affine coeffs + width + height + numXforms, all float64
		hal.RoleFlameColoration:      16,
		hal.RoleFlameBackground:      24,
		hal.RoleBlurParams:           32,
		hal.RoleHistogram:            pixels * 4 * 8,
		hal.RolePreRaster:            pixels * 4 * 8,
		hal.RoleFinalRaster:          pixels * 4,
		hal.RoleHitCounts:            8,
	}
}
