package flame

import "math"

// batchController predicts the next plot-kernel batch size from the
// observed quality-improvement rate, clamped by update cadence and
// remaining time budget.
type batchController struct {
	accelerated    bool
	updatesPerSec  float64
	maxBatchTimeSec float64

	size int
}

func newBatchController(accelerated bool, updatesPerSec, maxBatchTimeSec float64) *batchController {
	return &batchController{
		accelerated:     accelerated,
		updatesPerSec:   updatesPerSec,
		maxBatchTimeSec: maxBatchTimeSec,
		size:            1,
	}
}

// Size returns the batch size to use for the next plot kernel launch.
func (c *batchController) Size() int { return c.size }

// effectiveMaxBatchWall computes the wall-clock ceiling a single batch may
// run for: the tighter of the update-cadence period and maxBatchTimeSec.
func (c *batchController) effectiveMaxBatchWall() float64 {
	b1 := math.Inf(1)
	if c.updatesPerSec > 0 {
		b1 = 1 / c.updatesPerSec
	}
	b2 := math.Inf(1)
	if c.maxBatchTimeSec > 0 {
		b2 = c.maxBatchTimeSec
	}
	return math.Min(b1, b2)
}

// Update recomputes the batch size for the next launch given the batch
// that just completed. If acceleration is disabled, size stays permanently
// 1.
func (c *batchController) Update(deltaT, deltaQ, quality, maxQuality, elapsed, maxTime float64) {
	if !c.accelerated {
		c.size = 1
		return
	}
	if deltaT <= 0 {
		return
	}

	rate := deltaQ / deltaT
	var dtimeQ float64
	if rate > 0 {
		dtimeQ = (maxQuality - quality) / rate
	} else {
		dtimeQ = math.Inf(1)
	}

	b := c.effectiveMaxBatchWall()
	dtime := math.Min(dtimeQ, math.Min(maxTime-elapsed, b))
	if math.IsInf(dtime, 0) || dtime <= 0 {
		return
	}

	next := int(math.Floor(float64(c.size) * dtime / deltaT))
	if next < 1 {
		next = 1
	}
	c.size = next
}
