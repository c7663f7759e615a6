package software

import "github.com/gogpu/flamerender/hal"

// buffer is a plain host byte slice standing in for device memory.
type buffer struct {
	data []byte
}

func newBuffer(desc hal.BufferDescriptor) *buffer {
	return &buffer{data: make([]byte, desc.Size)}
}

func (b *buffer) Size() uint64 { return uint64(len(b.data)) }
func (b *buffer) Destroy()     { b.data = nil }
