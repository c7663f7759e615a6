package flame

// ProgressUpdate is the payload passed to a Callback on every invocation.
// Image is the zero value unless this update carries a freshly rendered
// raster (either a periodic preview or the final image).
type ProgressUpdate struct {
	Task    *Task
	Flame   *Flame
	Image   *Image
	Quality float64

	// PointsPlotted is the accumulated chaos-game iteration count for this
	// flame so far.
	PointsPlotted uint64

	ElapsedSeconds float64
	IsFinished     bool
}

// Callback is invoked asynchronously on the worker goroutine. Implementations
// must not block: the engine guarantees at most one callback per flame per
// update cadence plus one terminal callback per completed flame, and a slow
// callback delays every subsequent flame and task.
type Callback func(ProgressUpdate)
