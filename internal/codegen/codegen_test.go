package codegen

import (
	"strings"
	"testing"

	"github.com/gogpu/flamerender/hal"
)

func TestAssembleSortsVariations(t *testing.T) {
	src := Assemble([]string{"swirl", "linear"}, hal.ProgramFlags{UseVariations: true})
	if src.Label != "linear+swirl" {
		t.Fatalf("got label %q, want linear+swirl", src.Label)
	}
	if src.Variations[0] != "linear" || src.Variations[1] != "swirl" {
		t.Fatalf("variations not sorted: %v", src.Variations)
	}
}

func TestAssembleUnknownVariationDoesNotPanic(t *testing.T) {
	src := Assemble([]string{"mystery"}, hal.ProgramFlags{})
	if !strings.Contains(src.Text, "variation_mystery") {
		t.Fatal("expected a fallback branch for the unknown variation")
	}
}

func TestAssembleIncludesFixedKernels(t *testing.T) {
	src := Assemble([]string{"linear"}, hal.ProgramFlags{})
	for _, kernel := range []string{"init", "warmup", "plot", "preview", "finish1", "finish2"} {
		if !strings.Contains(src.Text, kernel) {
			t.Fatalf("expected assembled source to mention kernel %q", kernel)
		}
	}
}
