package flame

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/flamerender/device"
	"github.com/gogpu/flamerender/hal"
)

// EngineState is one of the five states an Engine's lifecycle visits.
// State is monotonically non-decreasing.
type EngineState int32

const (
	EngineReady EngineState = iota
	EngineRunning
	EngineShutdown
	EngineShutdownNow
	EngineTerminated
)

func (s EngineState) String() string {
	switch s {
	case EngineReady:
		return "ready"
	case EngineRunning:
		return "running"
	case EngineShutdown:
		return "shutdown"
	case EngineShutdownNow:
		return "shutdown_now"
	case EngineTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Engine is the asynchronous flame-fractal rendering engine: clients
// submit Tasks, a single dedicated worker goroutine drives each flame to
// completion on a hal.Backend, and progress/final images arrive through
// each task's Callback.
type Engine struct {
	backendKind hal.BackendKind

	state atomic.Int32

	mu       sync.Mutex
	termCond *sync.Cond
	current  *Task
	queue    *TaskQueue

	wakeOnce sync.Once
	wakeCh   chan struct{}

	updatesPerSecVal   atomic.Value // float64
	updateImagesVal    atomic.Bool
	batchAcceleratedVal atomic.Bool
	maxBatchTimeSecVal atomic.Value // float64
}

// NewEngine constructs a READY engine that will open a device from the
// hal.Backend matching kind once Start is called.
func NewEngine(kind hal.BackendKind) *Engine {
	e := &Engine{
		backendKind: kind,
		queue:       NewTaskQueue(),
		wakeCh:      make(chan struct{}),
	}
	e.termCond = sync.NewCond(&e.mu)
	e.state.Store(int32(EngineReady))
	e.updatesPerSecVal.Store(float64(0))
	e.maxBatchTimeSecVal.Store(float64(0))
	e.batchAcceleratedVal.Store(true)
	return e
}

// Queue returns the task queue handle.
func (e *Engine) Queue() *TaskQueue { return e.queue }

// CurrentTask returns the task currently being driven, or nil.
func (e *Engine) CurrentTask() *Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) setCurrentTask(t *Task) {
	e.mu.Lock()
	e.current = t
	e.mu.Unlock()
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() EngineState { return EngineState(e.state.Load()) }

func (e *Engine) IsRunning() bool    { return e.State() == EngineRunning }
func (e *Engine) IsShutdown() bool {
	s := e.State()
	return s == EngineShutdown || s == EngineShutdownNow
}
func (e *Engine) IsTerminated() bool { return e.State() == EngineTerminated }

// Start transitions READY -> RUNNING and starts the worker goroutine. A
// no-op if the engine was not READY.
func (e *Engine) Start() {
	if !e.state.CompareAndSwap(int32(EngineReady), int32(EngineRunning)) {
		return
	}
	go e.runWorker()
}

// Shutdown transitions RUNNING -> SHUTDOWN: the worker continues draining
// the queue, then exits.
func (e *Engine) Shutdown() {
	e.state.CompareAndSwap(int32(EngineRunning), int32(EngineShutdown))
	e.signalWake()
}

// signalWake closes wakeCh exactly once, giving a worker goroutine blocked
// in TaskQueue.Take a way to wake up and re-check engine state even when
// no task was enqueued. Safe to call repeatedly and from either Shutdown
// or ShutdownNow.
func (e *Engine) signalWake() {
	e.wakeOnce.Do(func() { close(e.wakeCh) })
}

// ShutdownNow transitions RUNNING|SHUTDOWN -> SHUTDOWN_NOW: the current
// task is force-cancelled and the worker skips the remaining queue on its
// next loop check.
func (e *Engine) ShutdownNow() {
	for {
		cur := EngineState(e.state.Load())
		if cur == EngineShutdownNow || cur == EngineTerminated {
			break
		}
		if cur != EngineRunning && cur != EngineShutdown {
			break
		}
		if e.state.CompareAndSwap(int32(cur), int32(EngineShutdownNow)) {
			break
		}
	}
	if t := e.CurrentTask(); t != nil {
		t.Cancel(true)
	}
	e.signalWake()
}

// AwaitTermination blocks until IsTerminated is true or timeout elapses,
// returning true iff termination occurred first. timeout <= 0 means wait
// forever.
func (e *Engine) AwaitTermination(timeout time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Load() == int32(EngineTerminated) {
		return true
	}
	if timeout <= 0 {
		for e.state.Load() != int32(EngineTerminated) {
			e.termCond.Wait()
		}
		return true
	}

	deadline := time.Now().Add(timeout)
	for e.state.Load() != int32(EngineTerminated) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		timer := time.AfterFunc(remaining, func() {
			e.mu.Lock()
			e.termCond.Broadcast()
			e.mu.Unlock()
		})
		e.termCond.Wait()
		timer.Stop()
	}
	return true
}

func (e *Engine) setTerminated() {
	e.mu.Lock()
	e.state.Store(int32(EngineTerminated))
	e.termCond.Broadcast()
	e.mu.Unlock()
}

// --- configuration -------------------------------------------------------

func (e *Engine) SetUpdatesPerSec(v float64) {
	if v < 0 {
		v = 0
	}
	e.updatesPerSecVal.Store(v)
}
func (e *Engine) UpdatesPerSec() float64     { return e.updatesPerSecVal.Load().(float64) }
func (e *Engine) updatesPerSec() float64     { return e.UpdatesPerSec() }

func (e *Engine) SetUpdateImages(v bool) { e.updateImagesVal.Store(v) }
func (e *Engine) UpdateImages() bool     { return e.updateImagesVal.Load() }
func (e *Engine) updateImages() bool     { return e.UpdateImages() }

func (e *Engine) SetBatchAccelerated(v bool) { e.batchAcceleratedVal.Store(v) }
func (e *Engine) BatchAccelerated() bool     { return e.batchAcceleratedVal.Load() }
func (e *Engine) batchAccelerated() bool     { return e.BatchAccelerated() }

func (e *Engine) SetMaxBatchTimeSec(v float64) {
	if v < 0 {
		v = 0
	}
	e.maxBatchTimeSecVal.Store(v)
}
func (e *Engine) MaxBatchTimeSec() float64     { return e.maxBatchTimeSecVal.Load().(float64) }
func (e *Engine) maxBatchTimeSec() float64     { return e.MaxBatchTimeSec() }

// runWorker is the single dedicated goroutine backing this engine. See
// worker.go.
func (e *Engine) runWorker() {
	w := newWorkerLoop(e)
	w.run()
}

func openDevice(kind hal.BackendKind) (*device.Manager, hal.Device, error) {
	backend, err := hal.RequestBackend(kind)
	if err != nil {
		return nil, nil, ErrNoMatchingBackend
	}
	dev, err := backend.OpenDevice()
	if err != nil {
		return nil, nil, err
	}
	return device.NewManager(dev), dev, nil
}
