// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hal

// BackendKind identifies the class of compute accelerator a client asked
// for: CPU, GPU, Accelerator, Default, or All.
type BackendKind uint8

const (
	BackendDefault BackendKind = iota
	BackendCPU
	BackendGPU
	BackendAccelerator
	BackendAll
)

func (k BackendKind) String() string {
	switch k {
	case BackendCPU:
		return "CPU"
	case BackendGPU:
		return "GPU"
	case BackendAccelerator:
		return "Accelerator"
	case BackendAll:
		return "All"
	default:
		return "Default"
	}
}

// AdapterInfo describes one candidate device for selection scoring.
type AdapterInfo struct {
	Name             string
	Kind             BackendKind
	MaxClockHz       uint64
	MaxComputeUnits  uint64
}

// Score is the product RequestBackend maximizes when picking among
// registered backends.
func (a AdapterInfo) Score() uint64 { return a.MaxClockHz * a.MaxComputeUnits }

// Backend is a factory for Devices of one accelerator family. Backends
// register themselves at init time via RegisterBackend so the engine can
// discover them without importing backend packages directly.
type Backend interface {
	// Info reports this backend's (single, for the backends this module
	// ships) adapter so RequestBackend can score it against BackendKind.
	Info() AdapterInfo

	// OpenDevice opens a logical Device. Backends in this module have
	// exactly one device; OpenDevice is idempotent-ish (callers are
	// expected to call it once per engine session).
	OpenDevice() (Device, error)
}

// BufferUsage is a bitset of how a buffer will be accessed: storage, map,
// or copy roles only — no vertex, index, or uniform roles, since this HAL
// has no render pipeline.
type BufferUsage uint8

const (
	BufferUsageStorage BufferUsage = 1 << iota
	BufferUsageMapRead
	BufferUsageCopyDst
	BufferUsageCopySrc
)

// BufferDescriptor describes buffer creation parameters.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// Buffer is an opaque device-resident byte buffer.
type Buffer interface {
	Size() uint64
	Destroy()
}

// ProgramSource is the assembled, backend-agnostic kernel source the device
// resource manager hands to Device.CompileProgram.
type ProgramSource struct {
	// Label is a human-readable identifier, typically the sorted variation
	// names joined with "+".
	Label string
	// Text is the assembled kernel source (see internal/codegen). Backends
	// that execute kernels natively in Go (software, noop) do not read it;
	// it still exists so a CompileProgram failure has something real to
	// log alongside the error.
	Text string
	// Variations is the canonical, sorted variation name list this program
	// was assembled for.
	Variations []string
	// Flags mirrors the per-flame feature toggles baked into this program
	// fixed once at assembly time.
	Flags ProgramFlags
}

// ProgramFlags are the feature toggles baked into a compiled program.
type ProgramFlags struct {
	UseVariations     bool
	UsePostAffines    bool
	UseFinalTransform bool
	UseJitter         bool
	UseBlur           bool
}

// KernelName enumerates the fixed kernel entry points every compiled
// program exposes: init, warmup, plot, preview, finish1 (tone map to
// float pre-raster), finish2 (density-adaptive blur to packed raster).
type KernelName uint8

const (
	KernelInit KernelName = iota
	KernelWarmup
	KernelPlot
	KernelPreview
	KernelFinish1
	KernelFinish2
)

func (k KernelName) String() string {
	switch k {
	case KernelInit:
		return "init"
	case KernelWarmup:
		return "warmup"
	case KernelPlot:
		return "plot"
	case KernelPreview:
		return "preview"
	case KernelFinish1:
		return "finish1"
	case KernelFinish2:
		return "finish2"
	default:
		return "unknown"
	}
}

// BufferRole names one of the fixed device buffers a flame render needs.
// It is the shared vocabulary between device.Manager (which sizes and
// grows buffers per role) and a Backend's Program (which interprets the
// bytes when a kernel runs), replacing positional argument binding.
type BufferRole uint8

const (
	RoleRNGState BufferRole = iota
	RolePoint
	RoleColor
	RoleXformWeight
	RoleXformAffine
	RoleXformPostAffine
	RoleXformColorIndex
	RoleXformVariationCoeffs
	RoleXformVariationParams
	RoleFlameView
	RoleFlameColoration
	RoleFlameBackground
	RoleBlurParams
	RoleHistogram
	RolePreRaster
	RoleFinalRaster
	RoleHitCounts
)

func (r BufferRole) String() string {
	names := [...]string{
		"rngState", "point", "color", "xformWeight", "xformAffine",
		"xformPostAffine", "xformColorIndex", "xformVariationCoeffs",
		"xformVariationParams", "flameView", "flameColoration",
		"flameBackground", "blurParams", "histogram", "preRaster",
		"finalRaster", "hitCounts",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// Program is a compiled kernel set plus the buffer bindings currently bound
// to it. Re-binding after buffer growth happens through BindBuffer; Launch
// always runs against the most recently bound set.
type Program interface {
	// BindBuffer (re-)binds a buffer role to this program's kernels. Called
	// once at first use and again after every reallocation of that role.
	BindBuffer(role BufferRole, buf Buffer)

	// Launch synchronously runs the named kernel over workSize work items,
	// each performing iterations steps of chaos-game work (iterations is
	// ignored by kernels that don't iterate: init, preview, finish1,
	// finish2 each always run exactly one step per work item). It returns
	// once the kernel has completed; callers never overlap a Launch with
	// concurrent use of the same program.
	Launch(kernel KernelName, workSize, iterations int) error

	Destroy()
}

// Device represents a logical compute device: it allocates Buffers and
// compiles Programs, and exposes the Queue used to move bytes.
type Device interface {
	CreateBuffer(desc BufferDescriptor) (Buffer, error)
	CompileProgram(src ProgramSource) (Program, error)
	Queue() Queue
	Destroy()
}

// Queue moves bytes between host and device and provides a synchronous
// flush point.
type Queue interface {
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
	ReadBuffer(buf Buffer, offset uint64, data []byte) error
	Flush() error
}
