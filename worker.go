package flame

import (
	"github.com/gogpu/flamerender/device"
	"github.com/gogpu/flamerender/hal"
	"github.com/gogpu/flamerender/internal/workerthread"
)

// workerLoop implements the engine's single producer-consumer thread.
// Queue.Take happens on the loop's own goroutine; every device-touching
// step is dispatched through a workerthread.Worker so the device resource
// manager, program cache, and driver are provably touched by one and only
// one goroutine for the engine's entire lifetime.
type workerLoop struct {
	engine *Engine
	gpu    *workerthread.Worker
	mgr    *device.Manager
	dev    hal.Device
	drv    *driver
}

func newWorkerLoop(e *Engine) *workerLoop {
	return &workerLoop{engine: e}
}

func (w *workerLoop) run() {
	w.gpu = workerthread.New()
	defer w.gpu.Stop()

	var openErr error
	w.gpu.CallVoid(func() {
		w.mgr, w.dev, openErr = openDevice(w.engine.backendKind)
		if openErr == nil {
			w.drv = newDriver(w.mgr, w.dev.Queue())
			openErr = w.mgr.InitResources()
		}
	})
	if openErr != nil {
		w.engine.setTerminated()
		return
	}

	queue := w.engine.Queue()
	for {
		state := w.engine.State()
		if state == EngineShutdownNow {
			break
		}
		if state == EngineShutdown && queue.Empty() {
			break
		}

		task, ok := queue.Take(w.shutdownSignal())
		if !ok {
			continue
		}

		if !task.start() {
			// Pre-cancelled before the worker reached it: skip silently.
			continue
		}

		w.engine.setCurrentTask(task)
		w.driveFlames(task)
		task.complete()
		w.engine.setCurrentTask(nil)
	}

	w.gpu.CallVoid(func() {
		w.mgr.FreeResources()
	})
	w.engine.setTerminated()
}

// driveFlames runs the per-flame driver for every flame the task's source
// yields, stopping early on cancellation.
func (w *workerLoop) driveFlames(task *Task) {
	for !task.IsCancelled() && task.Source != nil && task.Source.HasNext() {
		fl := task.Source.Next()
		if fl == nil {
			continue
		}
		var err error
		w.gpu.CallVoid(func() {
			err = w.drv.run(task, fl, w.engine)
		})
		if err != nil {
			hal.Logger().Error("flame render failed", "flame", fl.ID, "error", err)
			task.Cancel(true)
			return
		}
	}
}

// shutdownSignal returns the engine's wake channel, closed exactly once by
// Shutdown or ShutdownNow: once closed, every subsequent Queue.Take call
// returns immediately if no task is already queued, letting the loop
// re-check engine state instead of blocking forever waiting for a task
// that will never come.
func (w *workerLoop) shutdownSignal() <-chan struct{} {
	return w.engine.wakeCh
}
