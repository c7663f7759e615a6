package software

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/flamerender/hal"
)

const variationParamSlots = 4

// program holds one compiled kernel set and the buffer roles currently bound
// to it. All kernel math lives here — this is the only place in the module
// that actually runs the chaos game.
type program struct {
	src     hal.ProgramSource
	buffers map[hal.BufferRole]*buffer
	seedGen uint64
}

func newProgram(src hal.ProgramSource) *program {
	return &program{
		src:     src,
		buffers: make(map[hal.BufferRole]*buffer),
	}
}

func (p *program) BindBuffer(role hal.BufferRole, buf hal.Buffer) {
	b, ok := buf.(*buffer)
	if !ok {
		panic(fmt.Sprintf("software: BindBuffer(%s): foreign buffer type %T", role, buf))
	}
	p.buffers[role] = b
}

func (p *program) Destroy() { p.buffers = nil }

func (p *program) buf(role hal.BufferRole) (*buffer, error) {
	b, ok := p.buffers[role]
	if !ok {
		return nil, fmt.Errorf("software: program %q: role %s not bound", p.src.Label, role)
	}
	return b, nil
}

func (p *program) Launch(kernel hal.KernelName, workSize, iterations int) error {
	switch kernel {
	case hal.KernelInit:
		return p.launchInit(workSize)
	case hal.KernelWarmup:
		return p.launchStep(workSize, iterations, false)
	case hal.KernelPlot:
		return p.launchStep(workSize, iterations, true)
	case hal.KernelPreview:
		if err := p.launchFinish1(); err != nil {
			return err
		}
		return p.launchFinish2(false)
	case hal.KernelFinish1:
		return p.launchFinish1()
	case hal.KernelFinish2:
		return p.launchFinish2(true)
	default:
		return fmt.Errorf("software: program %q: unknown kernel %s", p.src.Label, kernel)
	}
}

// parallelFor splits [0,n) into runtime.GOMAXPROCS(0) contiguous chunks and
// runs fn over each chunk concurrently.
func parallelFor(n int, fn func(lo, hi int)) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return nil
	}
	var g errgroup.Group
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}

// --- xform layout helpers -------------------------------------------------

// numXforms reads the active xform count from the flame-view buffer
// rather than inferring it from RoleXformWeight's capacity: buffers grow
// monotonically and are reused across flames, so a later, smaller flame
// can leave stale entries past its own xform count in a buffer sized for
// an earlier, larger one.
func (p *program) numXforms() (int, error) {
	b, err := p.buf(hal.RoleFlameView)
	if err != nil {
		return 0, err
	}
	if len(b.data) < 72 {
		return 0, fmt.Errorf("software: flame-view buffer too small for numXforms field")
	}
	return int(readFloat64(b.data, 64)), nil
}

func (p *program) xformWeight(i int) (float64, error) {
	b, err := p.buf(hal.RoleXformWeight)
	if err != nil {
		return 0, err
	}
	return readFloat64(b.data, i*8), nil
}

func (p *program) xformAffine(i int) ([6]float64, error) {
	var a [6]float64
	b, err := p.buf(hal.RoleXformAffine)
	if err != nil {
		return a, err
	}
	for k := range a {
		a[k] = readFloat64(b.data, i*48+k*8)
	}
	return a, nil
}

func (p *program) xformPostAffine(i int) ([6]float64, bool, error) {
	var a [6]float64
	if !p.src.Flags.UsePostAffines {
		return a, false, nil
	}
	b, err := p.buf(hal.RoleXformPostAffine)
	if err != nil {
		return a, false, err
	}
	for k := range a {
		a[k] = readFloat64(b.data, i*48+k*8)
	}
	return a, true, nil
}

func (p *program) xformColorIndex(i int) (float64, error) {
	b, err := p.buf(hal.RoleXformColorIndex)
	if err != nil {
		return 0, err
	}
	return readFloat64(b.data, i*8), nil
}

func (p *program) xformVariation(i int) (string, [variationParamSlots]float64, error) {
	var params [variationParamSlots]float64
	coeffs, err := p.buf(hal.RoleXformVariationCoeffs)
	if err != nil {
		return "", params, err
	}
	id := readFloat64(coeffs.data, i*8)
	paramsBuf, err := p.buf(hal.RoleXformVariationParams)
	if err != nil {
		return "", params, err
	}
	for k := range params {
		params[k] = readFloat64(paramsBuf.data, i*variationParamSlots*8+k*8)
	}
	return variationByID(id), params, nil
}

// --- flame-level parameters ------------------------------------------------

type flameView struct {
	affine        [6]float64
	width, height int
}

func (p *program) flameView() (flameView, error) {
	b, err := p.buf(hal.RoleFlameView)
	if err != nil {
		return flameView{}, err
	}
	var v flameView
	for k := 0; k < 6; k++ {
		v.affine[k] = readFloat64(b.data, k*8)
	}
	v.width = int(readFloat64(b.data, 48))
	v.height = int(readFloat64(b.data, 56))
	return v, nil
}

func (p *program) coloration() (gamma, vibrancy float64, err error) {
	b, err := p.buf(hal.RoleFlameColoration)
	if err != nil {
		return 0, 0, err
	}
	return readFloat64(b.data, 0), readFloat64(b.data, 8), nil
}

func (p *program) background() ([3]float64, error) {
	var bg [3]float64
	b, err := p.buf(hal.RoleFlameBackground)
	if err != nil {
		return bg, err
	}
	for k := range bg {
		bg[k] = readFloat64(b.data, k*8)
	}
	return bg, nil
}

func (p *program) blurParams() (alpha, minR, maxR float64, enabled bool, err error) {
	b, err := p.buf(hal.RoleBlurParams)
	if err != nil {
		return 0, 0, 0, false, err
	}
	return readFloat64(b.data, 0), readFloat64(b.data, 8), readFloat64(b.data, 16), readFloat64(b.data, 24) != 0, nil
}

// --- kernels -----------------------------------------------------------

func (p *program) launchInit(workSize int) error {
	rng, point, color, err := p.perItemBuffers()
	if err != nil {
		return err
	}
	if len(rng.data) < workSize*8 || len(point.data) < workSize*16 || len(color.data) < workSize*8 {
		return fmt.Errorf("software: launchInit: buffers too small for workSize=%d", workSize)
	}
	base := p.seedGen
	p.seedGen += uint64(workSize)
	return parallelFor(workSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			seed := base + uint64(i) + 1
			writeUint64(rng.data, i*8, seed)
			r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			writeFloat64(point.data, i*16, r.Float64()*2-1)
			writeFloat64(point.data, i*16+8, r.Float64()*2-1)
			writeFloat64(color.data, i*8, r.Float64())
		}
	})
}

func (p *program) perItemBuffers() (rng, point, color *buffer, err error) {
	if rng, err = p.buf(hal.RoleRNGState); err != nil {
		return
	}
	if point, err = p.buf(hal.RolePoint); err != nil {
		return
	}
	if color, err = p.buf(hal.RoleColor); err != nil {
		return
	}
	return
}

// launchStep advances every work item by iterations chaos-game steps.
// When plot is true, samples are mapped to pixel space and accumulated into
// the histogram, and the hit-count buffer is incremented using an int32
// two's-complement wraparound discipline: this launch's raw counts are
// written, not accumulated, because the driver owns the running 64-bit
// totals across launches.
func (p *program) launchStep(workSize, iterations int, plot bool) error {
	rng, point, color, err := p.perItemBuffers()
	if err != nil {
		return err
	}
	n, err := p.numXforms()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("software: program %q: no xforms bound", p.src.Label)
	}
	weights := make([]float64, n)
	affines := make([][6]float64, n)
	postAffines := make([][6]float64, n)
	hasPost := make([]bool, n)
	colorIdx := make([]float64, n)
	varNames := make([]string, n)
	varParams := make([][variationParamSlots]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		if weights[i], err = p.xformWeight(i); err != nil {
			return err
		}
		if affines[i], err = p.xformAffine(i); err != nil {
			return err
		}
		if postAffines[i], hasPost[i], err = p.xformPostAffine(i); err != nil {
			return err
		}
		if colorIdx[i], err = p.xformColorIndex(i); err != nil {
			return err
		}
		if varNames[i], varParams[i], err = p.xformVariation(i); err != nil {
			return err
		}
		total += weights[i]
	}

	var view flameView
	var hist *buffer
	if plot {
		if view, err = p.flameView(); err != nil {
			return err
		}
		if hist, err = p.buf(hal.RoleHistogram); err != nil {
			return err
		}
	}

	var totalHitsPerChunk = make([]int32, runtime.GOMAXPROCS(0))
	var pixelHitsPerChunk = make([]int32, len(totalHitsPerChunk))

	err = parallelFor(workSize, func(lo, hi int) {
		chunkIdx := 0
		if hi-lo > 0 {
			chunkIdx = lo * len(totalHitsPerChunk) / workSize
			if chunkIdx >= len(totalHitsPerChunk) {
				chunkIdx = len(totalHitsPerChunk) - 1
			}
		}
		var localTotal, localPixels int32
		for i := lo; i < hi; i++ {
			seed := readUint64(rng.data, i*8)
			r := rand.New(rand.NewPCG(seed, seed^0xff51afd7ed558ccd))
			x := readFloat64(point.data, i*16)
			y := readFloat64(point.data, i*16+8)
			c := readFloat64(color.data, i*8)

			for s := 0; s < iterations; s++ {
				xi := pickXform(r, weights, total)
				x, y = applyAffine(affines[xi], x, y)
				x, y = applyVariation(varNames[xi], varParams[xi], x, y)
				if hasPost[xi] {
					x, y = applyAffine(postAffines[xi], x, y)
				}
				c = (c + colorIdx[xi]) / 2

				if p.src.Flags.UseJitter {
					x += (r.Float64() - 0.5) * 1e-3
					y += (r.Float64() - 0.5) * 1e-3
				}

				if plot {
					px, py, ok := projectToPixel(view, x, y)
					localTotal++
					if ok {
						off := (py*view.width + px) * 4 * 8
						wasZero := readFloat64(hist.data, off) == 0
						writeFloat64(hist.data, off, readFloat64(hist.data, off)+1)
						writeFloat64(hist.data, off+8, readFloat64(hist.data, off+8)+c)
						writeFloat64(hist.data, off+16, readFloat64(hist.data, off+16)+(1-c))
						writeFloat64(hist.data, off+24, readFloat64(hist.data, off+24)+0.5)
						if wasZero {
							localPixels++
						}
					}
				}
			}

			seed = seed*6364136223846793005 + 1442695040888963407
			writeUint64(rng.data, i*8, seed)
			writeFloat64(point.data, i*16, x)
			writeFloat64(point.data, i*16+8, y)
			writeFloat64(color.data, i*8, c)
		}
		totalHitsPerChunk[chunkIdx] += localTotal
		pixelHitsPerChunk[chunkIdx] += localPixels
	})
	if err != nil {
		return err
	}

	if plot {
		var totalHits, pixelHits int32
		for _, v := range totalHitsPerChunk {
			totalHits += v
		}
		for _, v := range pixelHitsPerChunk {
			pixelHits += v
		}
		hc, err := p.buf(hal.RoleHitCounts)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(hc.data[0:4], uint32(totalHits))
		binary.LittleEndian.PutUint32(hc.data[4:8], uint32(pixelHits))
	}
	return nil
}

// launchFinish1 tone-maps the density histogram into a float pre-raster
// buffer using log density scaled by vibrancy/gamma.
func (p *program) launchFinish1() error {
	hist, err := p.buf(hal.RoleHistogram)
	if err != nil {
		return err
	}
	pre, err := p.buf(hal.RolePreRaster)
	if err != nil {
		return err
	}
	view, err := p.flameView()
	if err != nil {
		return err
	}
	gamma, vibrancy, err := p.coloration()
	if err != nil {
		return err
	}
	bg, err := p.background()
	if err != nil {
		return err
	}
	n := view.width * view.height
	return parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			off := i * 4 * 8
			density := readFloat64(hist.data, off)
			r, g := readFloat64(hist.data, off+8), readFloat64(hist.data, off+16)
			var alpha, red, green, blue float64
			if density > 0 {
				alpha = math.Log1p(density) / math.Log1p(density+1)
				if gamma > 0 {
					alpha = math.Pow(alpha, 1/gamma)
				}
				red = vibrancy*r + (1-vibrancy)*bg[0]
				green = vibrancy*g + (1-vibrancy)*bg[1]
				blue = vibrancy*(1-r-g) + (1-vibrancy)*bg[2]
			} else {
				red, green, blue = bg[0], bg[1], bg[2]
			}
			writeFloat64(pre.data, off, clamp01(red))
			writeFloat64(pre.data, off+8, clamp01(green))
			writeFloat64(pre.data, off+16, clamp01(blue))
			writeFloat64(pre.data, off+24, clamp01(alpha))
		}
	})
}

// launchFinish2 applies the density-adaptive blur (when enabled and blur is
// true) and packs the result into a uint32 ARGB final raster.
func (p *program) launchFinish2(blur bool) error {
	pre, err := p.buf(hal.RolePreRaster)
	if err != nil {
		return err
	}
	final, err := p.buf(hal.RoleFinalRaster)
	if err != nil {
		return err
	}
	view, err := p.flameView()
	if err != nil {
		return err
	}
	alpha, minR, maxR, enabled, err := p.blurParams()
	if err != nil {
		return err
	}
	n := view.width * view.height
	return parallelFor(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x, y := i%view.width, i/view.width
			r, g, b, a := sampleRaster(pre, view, x, y)
			if enabled && blur {
				radius := minR + (maxR-minR)*(1-a)
				r, g, b = blurAt(pre, view, x, y, radius, alpha, r, g, b)
			}
			px := packARGB(a, r, g, b)
			binary.LittleEndian.PutUint32(final.data[i*4:], px)
		}
	})
}

func sampleRaster(pre *buffer, view flameView, x, y int) (r, g, b, a float64) {
	off := (y*view.width + x) * 4 * 8
	return readFloat64(pre.data, off), readFloat64(pre.data, off+8), readFloat64(pre.data, off+16), readFloat64(pre.data, off+24)
}

// blurAt is a small fixed-radius box blur whose radius is driven by local
// density: sparse pixels blur more.
func blurAt(pre *buffer, view flameView, x, y int, radius, alpha, r, g, b float64) (float64, float64, float64) {
	ir := int(radius)
	if ir <= 0 {
		return r, g, b
	}
	var sr, sg, sb, count float64
	for dy := -ir; dy <= ir; dy++ {
		ny := y + dy
		if ny < 0 || ny >= view.height {
			continue
		}
		for dx := -ir; dx <= ir; dx++ {
			nx := x + dx
			if nx < 0 || nx >= view.width {
				continue
			}
			nr, ng, nb, _ := sampleRaster(pre, view, nx, ny)
			sr += nr
			sg += ng
			sb += nb
			count++
		}
	}
	if count == 0 {
		return r, g, b
	}
	sr, sg, sb = sr/count, sg/count, sb/count
	return r*(1-alpha) + sr*alpha, g*(1-alpha) + sg*alpha, b*(1-alpha) + sb*alpha
}

func packARGB(a, r, g, b float64) uint32 {
	return uint32(clamp255(a))<<24 | uint32(clamp255(r))<<16 | uint32(clamp255(g))<<8 | uint32(clamp255(b))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp255(v float64) uint32 {
	v = clamp01(v) * 255
	return uint32(v + 0.5)
}

func projectToPixel(view flameView, x, y float64) (px, py int, ok bool) {
	a := view.affine
	fx := a[0]*x + a[1]*y + a[2]
	fy := a[3]*x + a[4]*y + a[5]
	px = int(fx)
	py = int(fy)
	if px < 0 || py < 0 || px >= view.width || py >= view.height {
		return 0, 0, false
	}
	return px, py, true
}

func pickXform(r *rand.Rand, weights []float64, total float64) int {
	if total <= 0 {
		return r.IntN(len(weights))
	}
	target := r.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if target <= acc {
			return i
		}
	}
	return len(weights) - 1
}

func applyAffine(a [6]float64, x, y float64) (float64, float64) {
	return a[0]*x + a[1]*y + a[2], a[3]*x + a[4]*y + a[5]
}

// applyVariation runs one of the built-in variation functions (flame.go's
// VariationLinear/Sinusoidal/Spherical/Swirl) over (x, y).
func applyVariation(name string, params [variationParamSlots]float64, x, y float64) (float64, float64) {
	switch name {
	case "sinusoidal":
		return math.Sin(x), math.Sin(y)
	case "spherical":
		r2 := x*x + y*y
		if r2 < 1e-12 {
			r2 = 1e-12
		}
		return x / r2, y / r2
	case "swirl":
		r2 := x*x + y*y
		sinR, cosR := math.Sin(r2), math.Cos(r2)
		return x*sinR - y*cosR, x*cosR + y*sinR
	default: // linear
		return x, y
	}
}

func variationByID(id float64) string {
	switch int(id) {
	case 1:
		return "sinusoidal"
	case 2:
		return "spherical"
	case 3:
		return "swirl"
	default:
		return "linear"
	}
}

// VariationID returns the numeric encoding launchStep expects to find in
// the RoleXformVariationCoeffs buffer for a given variation name, matching
// the decoding in variationByID above.
func VariationID(name string) float64 {
	switch name {
	case "sinusoidal":
		return 1
	case "spherical":
		return 2
	case "swirl":
		return 3
	default:
		return 0
	}
}

func readFloat64(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

func writeFloat64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:], math.Float64bits(v))
}

func readUint64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

func writeUint64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}
