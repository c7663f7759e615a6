package software

import (
	"fmt"

	"github.com/gogpu/flamerender/hal"
)

// queue moves bytes between the host and the software backend's "device"
// memory, which is itself host memory — WriteBuffer/ReadBuffer are plain
// copies. Flush is a no-op: every Program.Launch call already runs
// synchronously to completion.
type queue struct {
	device *device
}

func (q *queue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return fmt.Errorf("software: WriteBuffer: foreign buffer type %T", buf)
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("software: WriteBuffer: out of bounds (offset=%d len=%d cap=%d)", offset, len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (q *queue) ReadBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return fmt.Errorf("software: ReadBuffer: foreign buffer type %T", buf)
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("software: ReadBuffer: out of bounds (offset=%d len=%d cap=%d)", offset, len(data), len(b.data))
	}
	copy(data, b.data[offset:])
	return nil
}

func (q *queue) Flush() error { return nil }
