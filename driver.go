package flame

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/flamerender/device"
	"github.com/gogpu/flamerender/hal"
)

// driver runs one flame to completion against a device.Manager. It is
// owned and called exclusively by the engine's worker goroutine.
type driver struct {
	mgr *device.Manager
	q   hal.Queue

	images *doubleImageBuffer

	accTotalHits  uint64
	accPixelHits  uint64
	pointsPlotted uint64
}

func newDriver(mgr *device.Manager, q hal.Queue) *driver {
	return &driver{mgr: mgr, q: q}
}

// engineConfig is the subset of Engine's tunables the driver needs each
// flame: updatesPerSec, updateImages, batch-acceleration, maxBatchTimeSec.
// Engine implements this; driver never imports Engine directly so it
// stays testable with a fake.
type engineConfig interface {
	updatesPerSec() float64
	updateImages() bool
	batchAccelerated() bool
	maxBatchTimeSec() float64
}

// run drives flame through init -> warmup -> adaptive plotting -> finalize,
// emitting progress through task.Callback, and returns once the flame is
// finished or the task was cancelled.
func (d *driver) run(task *Task, fl *Flame, cfg engineConfig) error {
	s := task.Settings
	if d.images == nil || d.images.front.Width != s.Width || d.images.front.Height != s.Height {
		d.images = newDoubleImageBuffer(s.Width, s.Height)
	}
	d.accTotalHits, d.accPixelHits, d.pointsPlotted = 0, 0, 0

	flags := hal.ProgramFlags{
		UseVariations:     s.UseVariations && !fl.IsLinearOnly(),
		UsePostAffines:    s.UsePostAffines,
		UseFinalTransform: s.UseFinalTransform,
		UseJitter:         s.UseJitter,
		UseBlur:           s.UseBlur,
	}

	prog, rebuilt, err := d.mgr.EnsureProgram(fl.VariationSet(), flags)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProgramBuild, err)
	}

	numXforms := len(fl.XForms)
	if fl.FinalXForm != nil && flags.UseFinalTransform {
		numXforms++
	}
	if numXforms == 0 {
		return fmt.Errorf("flame %q has no xforms", fl.ID)
	}

	sizes := device.Sizes(numXforms, s.Width, s.Height)
	grown, err := d.mgr.GrowBuffers(sizes)
	if err != nil {
		return err
	}
	if rebuilt {
		if err := d.mgr.RebindAll(); err != nil {
			return err
		}
	} else if len(grown) > 0 {
		if err := d.mgr.Rebind(grown); err != nil {
			return err
		}
	}

	if err := d.fillFlameBuffers(fl, s, numXforms); err != nil {
		return err
	}
	if err := d.zeroHistogramAndCounters(s); err != nil {
		return err
	}

	if err := prog.Launch(hal.KernelInit, device.PreferredWorkSize, 0); err != nil {
		return fmt.Errorf("%w: init: %v", ErrProgramBuild, err)
	}
	const warmupIterations = 20
	if err := prog.Launch(hal.KernelWarmup, device.PreferredWorkSize, warmupIterations); err != nil {
		return fmt.Errorf("%w: warmup: %v", ErrProgramBuild, err)
	}

	return d.plotLoop(task, fl, prog, s, cfg)
}

// plotLoop runs the adaptive plot/measure/update cycle until the flame
// reaches its quality ceiling or time budget, or the task is cancelled.
func (d *driver) plotLoop(task *Task, fl *Flame, prog hal.Program, s Settings, cfg engineConfig) error {
	batch := newBatchController(cfg.batchAccelerated(), cfg.updatesPerSec(), cfg.maxBatchTimeSec())
	start := nowMonotonic()
	nextUpdate := start

	var quality, deltaT, deltaQ float64

	for {
		if task.IsCancelled() {
			// The plotting loop exits on cancellation without a forced
			// preview here; a forced preview before this point (inside the
			// update-cadence branch above) is still allowed to complete.
			return nil
		}
		if quality >= s.MaxQuality || elapsedSeconds(start) >= s.MaxTime {
			break
		}

		now := nowMonotonic()
		if cfg.updatesPerSec() > 0 && !now.Before(nextUpdate) {
			interval := time.Duration(float64(time.Second) / cfg.updatesPerSec())
			nextUpdate = now.Add(interval)

			if cfg.updateImages() && d.pointsPlotted >= 20*uint64(device.PreferredWorkSize) {
				if err := d.readPreview(prog, s); err != nil {
					return err
				}
				img := d.images.swap()
				d.emit(task, fl, &img, quality, elapsedSeconds(start), false)
				if task.IsCancelled() {
					return nil
				}
			} else {
				d.emit(task, fl, nil, quality, elapsedSeconds(start), false)
			}
		}

		if err := d.q.Flush(); err != nil {
			return err
		}
		batchStart := nowMonotonic()
		batchSize := batch.Size()
		if err := prog.Launch(hal.KernelPlot, device.PreferredWorkSize, batchSize); err != nil {
			return fmt.Errorf("%w: plot: %v", ErrProgramBuild, err)
		}
		deltaT = elapsedSeconds(batchStart)

		if _, _, err := d.readAndAccumulateHitCounts(); err != nil {
			return err
		}

		prevQuality := quality
		if d.accPixelHits == 0 {
			quality = 0
		} else {
			quality = float64(d.accTotalHits) / float64(d.accPixelHits)
		}
		deltaQ = quality - prevQuality

		d.pointsPlotted += uint64(device.PreferredWorkSize) * uint64(batchSize)

		if cfg.batchAccelerated() {
			batch.Update(deltaT, deltaQ, quality, s.MaxQuality, elapsedSeconds(start), s.MaxTime)
		}
	}

	return d.finalize(task, fl, prog, s, quality, elapsedSeconds(start))
}

// readAndAccumulateHitCounts reads the two raw int32 counters the plot
// kernel just wrote and folds them into the driver's running 64-bit
// totals. If a counter wrapped negative past 2^31, reinterpreting its bits
// as unsigned recovers the true count.
func (d *driver) readAndAccumulateHitCounts() (total, pixels uint32, err error) {
	buf, ok := d.mgr.Buffer(hal.RoleHitCounts)
	if !ok {
		return 0, 0, fmt.Errorf("flame: hit-count buffer not allocated")
	}
	raw := make([]byte, 8)
	if err := d.q.ReadBuffer(buf, 0, raw); err != nil {
		return 0, 0, err
	}
	// Whether or not the signed reading wrapped negative, a plain uint32
	// conversion of the raw bits already reinterprets them as unsigned.
	totalU := binary.LittleEndian.Uint32(raw[0:4])
	pixelsU := binary.LittleEndian.Uint32(raw[4:8])

	d.accTotalHits += uint64(totalU)
	d.accPixelHits += uint64(pixelsU)

	zero := make([]byte, 8)
	if err := d.q.WriteBuffer(buf, 0, zero); err != nil {
		return 0, 0, err
	}
	return totalU, pixelsU, nil
}

func (d *driver) readPreview(prog hal.Program, s Settings) error {
	if err := prog.Launch(hal.KernelPreview, device.PreferredWorkSize, 0); err != nil {
		return fmt.Errorf("%w: preview: %v", ErrProgramBuild, err)
	}
	return d.readRaster(s)
}

func (d *driver) readRaster(s Settings) error {
	buf, ok := d.mgr.Buffer(hal.RoleFinalRaster)
	if !ok {
		return fmt.Errorf("flame: final-raster buffer not allocated")
	}
	raw := make([]byte, s.Width*s.Height*4)
	if err := d.q.ReadBuffer(buf, 0, raw); err != nil {
		return err
	}
	back := d.images.backBuffer()
	for i := range back.Pixels {
		back.Pixels[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return nil
}

// finalize runs the terminal tone-map/blur kernels and emits the flame's
// final callback with the completed raster.
func (d *driver) finalize(task *Task, fl *Flame, prog hal.Program, s Settings, quality, elapsed float64) error {
	if task.IsCancelled() {
		return nil
	}

	if !s.UseBlur {
		if err := prog.Launch(hal.KernelPreview, device.PreferredWorkSize, 0); err != nil {
			return fmt.Errorf("%w: preview: %v", ErrProgramBuild, err)
		}
	} else {
		if err := prog.Launch(hal.KernelFinish1, device.PreferredWorkSize, 0); err != nil {
			return fmt.Errorf("%w: finish1: %v", ErrProgramBuild, err)
		}
		if err := prog.Launch(hal.KernelFinish2, device.PreferredWorkSize, 0); err != nil {
			return fmt.Errorf("%w: finish2: %v", ErrProgramBuild, err)
		}
	}

	if err := d.readRaster(s); err != nil {
		return err
	}
	img := d.images.swap()
	d.emit(task, fl, &img, quality, elapsed, true)
	return nil
}

func (d *driver) emit(task *Task, fl *Flame, img *Image, quality, elapsed float64, finished bool) {
	if task.Callback == nil {
		return
	}
	task.Callback(ProgressUpdate{
		Task:           task,
		Flame:          fl,
		Image:          img,
		Quality:        quality,
		PointsPlotted:  d.pointsPlotted,
		ElapsedSeconds: elapsed,
		IsFinished:     finished,
	})
}

func (d *driver) zeroHistogramAndCounters(s Settings) error {
	hist, ok := d.mgr.Buffer(hal.RoleHistogram)
	if !ok {
		return fmt.Errorf("flame: histogram buffer not allocated")
	}
	zero := make([]byte, s.Width*s.Height*4*8)
	if err := d.q.WriteBuffer(hist, 0, zero); err != nil {
		return err
	}
	hc, ok := d.mgr.Buffer(hal.RoleHitCounts)
	if !ok {
		return fmt.Errorf("flame: hit-count buffer not allocated")
	}
	return d.q.WriteBuffer(hc, 0, make([]byte, 8))
}

func writeF64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:], math.Float64bits(v))
}

// variationID encodes a variation name into the numeric form the software
// backend's kernels expect in RoleXformVariationCoeffs. This is a
// numbering the driver and a backend's kernels must agree on (the software
// backend decodes it in variationByID), not a Go-level dependency: a
// future native backend would need to agree on the same numbering.
func variationID(name string) float64 {
	switch name {
	case VariationSinusoidal:
		return 1
	case VariationSpherical:
		return 2
	case VariationSwirl:
		return 3
	default: // VariationLinear and anything unrecognized
		return 0
	}
}

// fillFlameBuffers writes the current flame's per-xform and per-flame
// parameters into the buffers the device resource manager just grew. The
// optional final xform, when useFinalTransform is set, is appended as the
// last xform slot.
func (d *driver) fillFlameBuffers(fl *Flame, s Settings, numXforms int) error {
	xforms := make([]*XForm, 0, numXforms)
	for i := range fl.XForms {
		xforms = append(xforms, &fl.XForms[i])
	}
	if s.UseFinalTransform && fl.FinalXForm != nil {
		xforms = append(xforms, fl.FinalXForm)
	}
	if len(xforms) != numXforms {
		return fmt.Errorf("flame: internal error: expected %d xforms, have %d", numXforms, len(xforms))
	}

	weight, err := d.bufferBytes(hal.RoleXformWeight)
	if err != nil {
		return err
	}
	affine, err := d.bufferBytes(hal.RoleXformAffine)
	if err != nil {
		return err
	}
	postAffine, err := d.bufferBytes(hal.RoleXformPostAffine)
	if err != nil {
		return err
	}
	colorIdx, err := d.bufferBytes(hal.RoleXformColorIndex)
	if err != nil {
		return err
	}
	varCoeffs, err := d.bufferBytes(hal.RoleXformVariationCoeffs)
	if err != nil {
		return err
	}
	varParams, err := d.bufferBytes(hal.RoleXformVariationParams)
	if err != nil {
		return err
	}

	for i, x := range xforms {
		writeF64(weight, i*8, x.Weight)
		for k, v := range x.Affine {
			writeF64(affine, i*48+k*8, v)
		}
		if s.UsePostAffines && x.PostAffine != nil {
			for k, v := range x.PostAffine {
				writeF64(postAffine, i*48+k*8, v)
			}
		}
		writeF64(colorIdx, i*8, x.ColorIndex)

		name := VariationLinear
		var params []float64
		if len(x.Variations) > 0 {
			name = x.Variations[0].Name
			params = x.Variations[0].Params
		}
		writeF64(varCoeffs, i*8, variationID(name))
		for k := 0; k < device.VariationParamSlots; k++ {
			var v float64
			if k < len(params) {
				v = params[k]
			}
			writeF64(varParams, i*device.VariationParamSlots*8+k*8, v)
		}
	}

	view, err := d.bufferBytes(hal.RoleFlameView)
	if err != nil {
		return err
	}
	// Maps plot-space [-1,1]^2 into pixel space [0,width)x[0,height).
	writeF64(view, 0, float64(s.Width)/2)
	writeF64(view, 8, 0)
	writeF64(view, 16, float64(s.Width)/2)
	writeF64(view, 24, 0)
	writeF64(view, 32, float64(s.Height)/2)
	writeF64(view, 40, float64(s.Height)/2)
	writeF64(view, 48, float64(s.Width))
	writeF64(view, 56, float64(s.Height))
	writeF64(view, 64, float64(numXforms))

	coloration, err := d.bufferBytes(hal.RoleFlameColoration)
	if err != nil {
		return err
	}
	writeF64(coloration, 0, fl.ColorationGamma)
	writeF64(coloration, 8, fl.ColorationVibrancy)

	background, err := d.bufferBytes(hal.RoleFlameBackground)
	if err != nil {
		return err
	}
	for k, v := range fl.Background {
		writeF64(background, k*8, v)
	}

	blur, err := d.bufferBytes(hal.RoleBlurParams)
	if err != nil {
		return err
	}
	writeF64(blur, 0, s.BlurAlpha)
	writeF64(blur, 8, s.BlurMinRadius)
	writeF64(blur, 16, s.BlurMaxRadius)
	enabled := 0.0
	if s.UseBlur {
		enabled = 1.0
	}
	writeF64(blur, 24, enabled)

	return d.writeAllBuffers(map[hal.BufferRole][]byte{
		hal.RoleXformWeight:          weight,
		hal.RoleXformAffine:          affine,
		hal.RoleXformPostAffine:      postAffine,
		hal.RoleXformColorIndex:      colorIdx,
		hal.RoleXformVariationCoeffs: varCoeffs,
		hal.RoleXformVariationParams: varParams,
		hal.RoleFlameView:            view,
		hal.RoleFlameColoration:      coloration,
		hal.RoleFlameBackground:      background,
		hal.RoleBlurParams:           blur,
	})
}

// bufferBytes returns a host-side staging slice sized to match role's
// currently allocated device buffer.
func (d *driver) bufferBytes(role hal.BufferRole) ([]byte, error) {
	buf, ok := d.mgr.Buffer(role)
	if !ok {
		return nil, fmt.Errorf("flame: buffer role %s not allocated", role)
	}
	return make([]byte, buf.Size()), nil
}

func (d *driver) writeAllBuffers(staged map[hal.BufferRole][]byte) error {
	for role, data := range staged {
		buf, ok := d.mgr.Buffer(role)
		if !ok {
			return fmt.Errorf("flame: buffer role %s not allocated", role)
		}
		if err := d.q.WriteBuffer(buf, 0, data); err != nil {
			return fmt.Errorf("flame: write buffer %s: %w", role, err)
		}
	}
	return nil
}

func nowMonotonic() time.Time { return time.Now() }

func elapsedSeconds(since time.Time) float64 { return time.Since(since).Seconds() }
