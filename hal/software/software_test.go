package software

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/flamerender/hal"
)

func writeF64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:], math.Float64bits(v))
}

func newTestDevice(t *testing.T) hal.Device {
	t.Helper()
	dev, err := Backend.OpenDevice()
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func mustBuffer(t *testing.T, dev hal.Device, size uint64) hal.Buffer {
	t.Helper()
	buf, err := dev.CreateBuffer(hal.BufferDescriptor{Label: "t", Size: size})
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

// TestChaosGameSingleXformPlots exercises init -> warmup -> plot -> finish1
// -> finish2 against one linear xform and checks the final raster ends up
// with at least one non-background pixel.
func TestChaosGameSingleXformPlots(t *testing.T) {
	const width, height = 16, 16
	const workSize = 64

	dev := newTestDevice(t)
	prog, err := dev.CompileProgram(hal.ProgramSource{
		Label:      "linear",
		Variations: []string{"linear"},
		Flags:      hal.ProgramFlags{UseVariations: true, UseJitter: false},
	})
	if err != nil {
		t.Fatal(err)
	}

	rng := mustBuffer(t, dev, workSize*8)
	point := mustBuffer(t, dev, workSize*16)
	color := mustBuffer(t, dev, workSize*8)
	prog.BindBuffer(hal.RoleRNGState, rng)
	prog.BindBuffer(hal.RolePoint, point)
	prog.BindBuffer(hal.RoleColor, color)

	weight := mustBuffer(t, dev, 8)
	writeF64(weight.(*buffer).data, 0, 1)
	prog.BindBuffer(hal.RoleXformWeight, weight)

	affine := mustBuffer(t, dev, 48)
	a := affine.(*buffer).data
	writeF64(a, 0, 0.5)
	writeF64(a, 8, 0)
	writeF64(a, 16, 0)
	writeF64(a, 24, 0)
	writeF64(a, 32, 0.5)
	writeF64(a, 40, 0)
	prog.BindBuffer(hal.RoleXformAffine, affine)

	postAffine := mustBuffer(t, dev, 48)
	prog.BindBuffer(hal.RoleXformPostAffine, postAffine)

	colorIdx := mustBuffer(t, dev, 8)
	writeF64(colorIdx.(*buffer).data, 0, 0.5)
	prog.BindBuffer(hal.RoleXformColorIndex, colorIdx)

	varCoeffs := mustBuffer(t, dev, 8)
	prog.BindBuffer(hal.RoleXformVariationCoeffs, varCoeffs)
	varParams := mustBuffer(t, dev, variationParamSlots*8)
	prog.BindBuffer(hal.RoleXformVariationParams, varParams)

	view := mustBuffer(t, dev, 72)
	v := view.(*buffer).data
	writeF64(v, 0, float64(width)/2)
	writeF64(v, 8, 0)
	writeF64(v, 16, float64(width)/2)
	writeF64(v, 24, 0)
	writeF64(v, 32, float64(height)/2)
	writeF64(v, 40, float64(height)/2)
	writeF64(v, 48, width)
	writeF64(v, 56, height)
	writeF64(v, 64, 1) // one xform
	prog.BindBuffer(hal.RoleFlameView, view)

	coloration := mustBuffer(t, dev, 16)
	writeF64(coloration.(*buffer).data, 0, 1)
	writeF64(coloration.(*buffer).data, 8, 1)
	prog.BindBuffer(hal.RoleFlameColoration, coloration)

	background := mustBuffer(t, dev, 24)
	prog.BindBuffer(hal.RoleFlameBackground, background)

	blur := mustBuffer(t, dev, 32)
	prog.BindBuffer(hal.RoleBlurParams, blur)

	histogram := mustBuffer(t, dev, uint64(width*height*4*8))
	prog.BindBuffer(hal.RoleHistogram, histogram)
	preRaster := mustBuffer(t, dev, uint64(width*height*4*8))
	prog.BindBuffer(hal.RolePreRaster, preRaster)
	finalRaster := mustBuffer(t, dev, uint64(width*height*4))
	prog.BindBuffer(hal.RoleFinalRaster, finalRaster)
	hitCounts := mustBuffer(t, dev, 8)
	prog.BindBuffer(hal.RoleHitCounts, hitCounts)

	if err := prog.Launch(hal.KernelInit, workSize, 0); err != nil {
		t.Fatal(err)
	}
	if err := prog.Launch(hal.KernelWarmup, workSize, 20); err != nil {
		t.Fatal(err)
	}
	if err := prog.Launch(hal.KernelPlot, workSize, 200); err != nil {
		t.Fatal(err)
	}

	hc := hitCounts.(*buffer).data
	totalHits := binary.LittleEndian.Uint32(hc[0:4])
	if totalHits == 0 {
		t.Fatal("expected plot kernel to report non-zero total hits")
	}

	if err := prog.Launch(hal.KernelFinish1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := prog.Launch(hal.KernelFinish2, 0, 0); err != nil {
		t.Fatal(err)
	}

	raster := finalRaster.(*buffer).data
	var nonZero bool
	for i := 0; i < len(raster); i += 4 {
		if binary.LittleEndian.Uint32(raster[i:]) != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("expected at least one non-zero pixel in the final raster")
	}
}

func TestQueueWriteReadRoundTrip(t *testing.T) {
	dev := newTestDevice(t)
	buf := mustBuffer(t, dev, 16)
	q := dev.Queue()

	want := []byte{1, 2, 3, 4}
	if err := q.WriteBuffer(buf, 4, want); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 4)
	if err := q.ReadBuffer(buf, 4, got); err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestWriteBufferOutOfBounds(t *testing.T) {
	dev := newTestDevice(t)
	buf := mustBuffer(t, dev, 4)
	q := dev.Queue()
	if err := q.WriteBuffer(buf, 0, make([]byte, 8)); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestBackendInfoReflectsGOMAXPROCS(t *testing.T) {
	info := Backend.Info()
	if info.Kind != hal.BackendCPU {
		t.Fatalf("got kind %s, want CPU", info.Kind)
	}
	if info.MaxComputeUnits == 0 {
		t.Fatal("expected non-zero compute units")
	}
}
