// Package flame is an asynchronous flame-fractal rendering engine.
//
// Clients submit Tasks — each a finite sequence of Flames plus per-image
// Settings — to an Engine. A single dedicated worker goroutine drains the
// task queue, drives each flame through init/warmup/plot/finalize on a
// pluggable compute backend (hal.Backend), and delivers progress and final
// images through the task's Callback.
//
// # Resource Lifecycle
//
// Device buffers and compiled programs are owned by the engine's worker
// goroutine and are never touched from any other goroutine; they grow
// monotonically across flames within a session and are freed once, when
// the engine reaches Terminated.
//
// # Thread Safety
//
// Engine and Task are safe for concurrent use from any number of client
// goroutines. The worker goroutine itself, and everything it reaches
// (device.Manager, hal.Backend), is not.
package flame
