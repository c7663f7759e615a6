// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command flamectl drives the flame rendering engine from the command
// line: it submits a built-in demo flame to an Engine, prints progress as
// it arrives, and writes the final raster out as a PNG.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	flame "github.com/gogpu/flamerender"
	"github.com/gogpu/flamerender/engineconfig"
	"github.com/gogpu/flamerender/hal"
	_ "github.com/gogpu/flamerender/hal/software"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flamectl",
		Short: "Render flame fractals with the flamerender engine",
	}
	root.AddCommand(newRenderCmd())
	return root
}

type renderFlags struct {
	width, height int
	maxQuality    float64
	maxTime       float64
	output        string
	configPath    string
	timeout       time.Duration
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the built-in demo flame and write it to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(f)
		},
	}
	cmd.Flags().IntVar(&f.width, "width", 1280, "output image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 720, "output image height in pixels")
	cmd.Flags().Float64Var(&f.maxQuality, "max-quality", 256, "quality ceiling (average hits per pixel) to render to")
	cmd.Flags().Float64Var(&f.maxTime, "max-time", 60, "wall-clock ceiling in seconds")
	cmd.Flags().StringVar(&f.output, "output", "flame.png", "path to write the rendered PNG to")
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional YAML file with engine batching tunables")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "how long to wait for the render to finish before giving up")
	return cmd
}

func runRender(f *renderFlags) error {
	s := flame.DefaultSettings()
	s, err := s.WithWidth(f.width)
	if err != nil {
		return fmt.Errorf("flamectl: %w", err)
	}
	s, err = s.WithHeight(f.height)
	if err != nil {
		return fmt.Errorf("flamectl: %w", err)
	}
	s, err = s.WithMaxQuality(f.maxQuality)
	if err != nil {
		return fmt.Errorf("flamectl: %w", err)
	}
	s, err = s.WithMaxTime(f.maxTime)
	if err != nil {
		return fmt.Errorf("flamectl: %w", err)
	}

	engine := flame.NewEngine(hal.BackendCPU)
	if f.configPath != "" {
		cfg, err := engineconfig.Load(f.configPath)
		if err != nil {
			return fmt.Errorf("flamectl: %w", err)
		}
		cfg.Apply(engine)
	}
	engine.Start()
	defer func() {
		engine.Shutdown()
		engine.AwaitTermination(f.timeout)
	}()

	done := make(chan flame.ProgressUpdate, 1)
	task := flame.NewTask(s, flame.NewSliceSource([]*flame.Flame{demoFlame()}), func(u flame.ProgressUpdate) {
		slog.Info("progress", "quality", u.Quality, "pointsPlotted", u.PointsPlotted, "elapsedSeconds", u.ElapsedSeconds)
		if u.IsFinished {
			done <- u
		}
	})
	engine.Queue().Add(task)

	select {
	case u := <-done:
		return writePNG(f.output, u.Image)
	case <-time.After(f.timeout):
		task.Cancel(true)
		return fmt.Errorf("flamectl: render did not finish within %s", f.timeout)
	}
}

// demoFlame is a three-xform Sierpinski-triangle-style attractor: three
// linear affine maps, each contracting toward one vertex of a triangle.
func demoFlame() *flame.Flame {
	return &flame.Flame{
		ID: "sierpinski",
		XForms: []flame.XForm{
			{Weight: 1, Affine: [6]float64{0.5, 0, 0, 0, 0.5, 0}, ColorIndex: 0.0},
			{Weight: 1, Affine: [6]float64{0.5, 0, 0.5, 0, 0.5, 0}, ColorIndex: 0.5},
			{Weight: 1, Affine: [6]float64{0.5, 0, 0.25, 0, 0.5, 0.5}, ColorIndex: 1.0},
		},
		ColorationGamma:    2.2,
		ColorationVibrancy: 1,
	}
}

// writePNG converts img's packed ARGB raster into an image/color.NRGBA
// raster and encodes it as a PNG at path.
func writePNG(path string, img *flame.Image) error {
	if img == nil {
		return fmt.Errorf("flamectl: render finished with no image")
	}
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, px := range img.Pixels {
		a := uint8(px >> 24)
		r := uint8(px >> 16)
		g := uint8(px >> 8)
		b := uint8(px)
		out.Set(i%img.Width, i/img.Width, color.NRGBA{R: r, G: g, B: b, A: a})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("flamectl: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, out); err != nil {
		return fmt.Errorf("flamectl: encode png: %w", err)
	}
	slog.Info("wrote image", "path", path, "width", img.Width, "height", img.Height)
	return nil
}
