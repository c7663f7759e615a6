package software

import (
	"fmt"
	"runtime"

	"github.com/gogpu/flamerender/hal"
)

// backend is the software hal.Backend. It reports a synthetic AdapterInfo
// derived from runtime.GOMAXPROCS(0) so the max-clock*compute-units selection
// rule has something real to compare against registered backends (e.g.
// hal/noop, which always scores zero).
type backend struct{}

// Backend is the package-level software backend instance, registered with
// hal.RegisterBackend by init() (see init.go).
var Backend hal.Backend = backend{}

func (backend) Info() hal.AdapterInfo {
	return hal.AdapterInfo{
		Name:            "software",
		Kind:            hal.BackendCPU,
		MaxClockHz:      1, // CPU clock is not a meaningful compute-throughput proxy here
		MaxComputeUnits: uint64(runtime.GOMAXPROCS(0)),
	}
}

func (backend) OpenDevice() (hal.Device, error) {
	d := &device{}
	d.queue = &queue{device: d}
	return d, nil
}

type device struct {
	queue *queue
}

func (d *device) CreateBuffer(desc hal.BufferDescriptor) (hal.Buffer, error) {
	if desc.Size == 0 {
		return nil, fmt.Errorf("software: buffer descriptor %q has zero size", desc.Label)
	}
	return newBuffer(desc), nil
}

func (d *device) CompileProgram(src hal.ProgramSource) (hal.Program, error) {
	return newProgram(src), nil
}

func (d *device) Queue() hal.Queue { return d.queue }

func (d *device) Destroy() {}
