package noop

import "github.com/gogpu/flamerender/hal"

func init() {
	hal.RegisterBackend(Backend)
}
