package device

import (
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/gogpu/flamerender/hal"
	"github.com/gogpu/flamerender/internal/halmock"
)

// TestGrowBuffersPropagatesCreateBufferError checks that a device-side
// allocation failure surfaces as an error from GrowBuffers, and that the
// failing role is neither reported as grown nor tracked as allocated.
func TestGrowBuffersPropagatesCreateBufferError(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)

	wantErr := errors.New("out of device memory")
	dev.EXPECT().CreateBuffer(gomock.Any()).Return(nil, wantErr)

	m := NewManager(dev)
	grown, err := m.GrowBuffers(map[hal.BufferRole]uint64{hal.RoleHistogram: 64})
	if err == nil {
		t.Fatal("expected an error from GrowBuffers")
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("got error %v, want it to wrap %v", err, wantErr)
	}
	if len(grown) != 0 {
		t.Fatalf("got %d grown roles on a failed allocation, want 0", len(grown))
	}
	if _, ok := m.Buffer(hal.RoleHistogram); ok {
		t.Fatal("expected no buffer to be tracked after a failed allocation")
	}
}

// TestGrowBuffersDestroysReplacedBufferOnReallocation checks that growing a
// role past its current capacity destroys the old buffer before replacing
// it, rather than leaking it.
func TestGrowBuffersDestroysReplacedBufferOnReallocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)

	small := halmock.NewMockBuffer(ctrl)
	small.EXPECT().Size().Return(uint64(64)).AnyTimes()
	small.EXPECT().Destroy()

	large := halmock.NewMockBuffer(ctrl)
	large.EXPECT().Size().Return(uint64(128)).AnyTimes()

	gomock.InOrder(
		dev.EXPECT().CreateBuffer(gomock.Any()).Return(small, nil),
		dev.EXPECT().CreateBuffer(gomock.Any()).Return(large, nil),
	)

	m := NewManager(dev)
	if _, err := m.GrowBuffers(map[hal.BufferRole]uint64{hal.RoleHistogram: 64}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GrowBuffers(map[hal.BufferRole]uint64{hal.RoleHistogram: 128}); err != nil {
		t.Fatal(err)
	}
	buf, ok := m.Buffer(hal.RoleHistogram)
	if !ok || buf != large {
		t.Fatal("expected the grown role to now point at the newly allocated buffer")
	}
}

// TestEnsureProgramWrapsCompileFailureAsDeviceLost checks that a
// CompileProgram failure is reported by EnsureProgram wrapped in
// hal.ErrDeviceLost.
func TestEnsureProgramWrapsCompileFailureAsDeviceLost(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)
	dev.EXPECT().CompileProgram(gomock.Any()).Return(nil, errors.New("bad kernel source"))

	m := NewManager(dev)
	_, _, err := m.EnsureProgram([]string{"linear"}, hal.ProgramFlags{})
	if err == nil {
		t.Fatal("expected an error from EnsureProgram")
	}
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Fatalf("got error %v, want it to wrap hal.ErrDeviceLost", err)
	}
}

// TestRebindRejectsRoleWithNoBuffer checks that Rebind refuses to bind a
// role the manager never allocated, rather than silently skipping it.
func TestRebindRejectsRoleWithNoBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)
	prog := halmock.NewMockProgram(ctrl)
	dev.EXPECT().CompileProgram(gomock.Any()).Return(prog, nil)

	m := NewManager(dev)
	if _, _, err := m.EnsureProgram([]string{"linear"}, hal.ProgramFlags{}); err != nil {
		t.Fatal(err)
	}

	if err := m.Rebind([]hal.BufferRole{hal.RoleHistogram}); err == nil {
		t.Fatal("expected Rebind to fail for an unallocated role")
	}
}

// TestRebindAllBindsEveryAllocatedRole checks that RebindAll binds every
// currently tracked buffer to the active program, which a fresh compile
// needs since a new program starts with no bindings at all.
func TestRebindAllBindsEveryAllocatedRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)
	prog := halmock.NewMockProgram(ctrl)
	histBuf := halmock.NewMockBuffer(ctrl)
	rasterBuf := halmock.NewMockBuffer(ctrl)

	dev.EXPECT().CreateBuffer(gomock.Any()).Return(histBuf, nil)
	dev.EXPECT().CreateBuffer(gomock.Any()).Return(rasterBuf, nil)
	dev.EXPECT().CompileProgram(gomock.Any()).Return(prog, nil)
	prog.EXPECT().BindBuffer(hal.RoleHistogram, histBuf)
	prog.EXPECT().BindBuffer(hal.RoleFinalRaster, rasterBuf)

	m := NewManager(dev)
	if _, err := m.GrowBuffers(map[hal.BufferRole]uint64{
		hal.RoleHistogram:   64,
		hal.RoleFinalRaster: 64,
	}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.EnsureProgram([]string{"linear"}, hal.ProgramFlags{}); err != nil {
		t.Fatal(err)
	}
	if err := m.RebindAll(); err != nil {
		t.Fatal(err)
	}
}

// TestFreeResourcesDestroysProgramAndBuffersThenDevice checks the teardown
// order: every buffer and the program are destroyed before the device
// itself, and a second call is a safe no-op.
func TestFreeResourcesDestroysProgramAndBuffersThenDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	dev := halmock.NewMockDevice(ctrl)
	prog := halmock.NewMockProgram(ctrl)
	buf := halmock.NewMockBuffer(ctrl)

	dev.EXPECT().CreateBuffer(gomock.Any()).Return(buf, nil)
	dev.EXPECT().CompileProgram(gomock.Any()).Return(prog, nil)

	gomock.InOrder(
		buf.EXPECT().Destroy(),
		prog.EXPECT().Destroy(),
		dev.EXPECT().Destroy(),
	)

	m := NewManager(dev)
	if _, err := m.GrowBuffers(map[hal.BufferRole]uint64{hal.RoleHistogram: 64}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.EnsureProgram([]string{"linear"}, hal.ProgramFlags{}); err != nil {
		t.Fatal(err)
	}

	m.FreeResources()
	m.FreeResources()
}
