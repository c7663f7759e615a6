// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package codegen assembles hal.ProgramSource text from a process-wide,
// read-only cache of kernel templates, loaded exactly once.
//
// The templates themselves are inert text: the software and noop hal
// backends don't execute this source, they run Go directly. Assemble still
// produces real, deterministic text so the device manager can log it on a
// program-build failure, and so the backend contract's ProgramSource.Text
// field is always populated regardless of whether a given backend happens
// to compile it.
package codegen

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/flamerender/hal"
)

var (
	templatesOnce sync.Once
	fixedKernels  string
	variationFns  map[string]string
)

func loadTemplates() {
	fixedKernels = strings.Join([]string{
		"kernel void init(Buffers b) { seed_rng(b); seed_point(b); seed_color(b); }",
		"kernel void warmup(Buffers b, int iterations) { for (i in 0..iterations) step(b); }",
		"kernel void plot(Buffers b, int iterations) { for (i in 0..iterations) { step(b); accumulate(b); } }",
		"kernel void preview(Buffers b) { tone_map(b); pack(b); }",
		"kernel void finish1(Buffers b) { tone_map(b); }",
		"kernel void finish2(Buffers b) { density_blur(b); pack(b); }",
	}, "\n")

	variationFns = map[string]string{
		"linear":     "vec2 variation_linear(vec2 p, float[4] params) { return p; }",
		"sinusoidal": "vec2 variation_sinusoidal(vec2 p, float[4] params) { return vec2(sin(p.x), sin(p.y)); }",
		"spherical":  "vec2 variation_spherical(vec2 p, float[4] params) { float r2 = dot(p,p); return p / max(r2, 1e-12); }",
		"swirl":      "vec2 variation_swirl(vec2 p, float[4] params) { float r2 = dot(p,p); return rotate(p, r2); }",
	}
}

// Assemble builds a hal.ProgramSource for the given canonically-sorted
// variation names and feature flags: a global flags block, one generated
// variation branch per name, and the fixed kernels.
func Assemble(variations []string, flags hal.ProgramFlags) hal.ProgramSource {
	templatesOnce.Do(loadTemplates)

	sorted := append([]string(nil), variations...)
	sort.Strings(sorted)

	var b strings.Builder
	fmt.Fprintf(&b, "// flags: useVariations=%t usePostAffines=%t useFinalTransform=%t useJitter=%t useBlur=%t\n",
		flags.UseVariations, flags.UsePostAffines, flags.UseFinalTransform, flags.UseJitter, flags.UseBlur)
	for _, name := range sorted {
		fn, ok := variationFns[name]
		if !ok {
			fn = fmt.Sprintf("vec2 variation_%s(vec2 p, float[4] params) { return p; } // unknown variation, treated as linear", name)
		}
		b.WriteString(fn)
		b.WriteByte('\n')
	}
	b.WriteString(fixedKernels)

	return hal.ProgramSource{
		Label:      strings.Join(sorted, "+"),
		Text:       b.String(),
		Variations: sorted,
		Flags:      flags,
	}
}
