package noop

import "github.com/gogpu/flamerender/hal"

type backend struct{}

// Backend is the package-level noop backend instance, registered with
// hal.RegisterBackend by init() (see init.go).
var Backend hal.Backend = backend{}

func (backend) Info() hal.AdapterInfo {
	return hal.AdapterInfo{
		Name:            "noop",
		Kind:            hal.BackendCPU,
		MaxClockHz:      0,
		MaxComputeUnits: 0,
	}
}

func (backend) OpenDevice() (hal.Device, error) {
	return &device{}, nil
}

type device struct{}

func (d *device) CreateBuffer(desc hal.BufferDescriptor) (hal.Buffer, error) {
	return &buffer{size: desc.Size}, nil
}

func (d *device) CompileProgram(src hal.ProgramSource) (hal.Program, error) {
	return &program{}, nil
}

func (d *device) Queue() hal.Queue { return queue{} }

func (d *device) Destroy() {}

type buffer struct{ size uint64 }

func (b *buffer) Size() uint64 { return b.size }
func (b *buffer) Destroy()     {}

type queue struct{}

func (queue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error { return nil }
func (queue) ReadBuffer(buf hal.Buffer, offset uint64, data []byte) error  { return nil }
func (queue) Flush() error                                                { return nil }

type program struct{}

func (p *program) BindBuffer(role hal.BufferRole, buf hal.Buffer)          {}
func (p *program) Launch(kernel hal.KernelName, workSize, iterations int) error { return nil }
func (p *program) Destroy()                                               {}
