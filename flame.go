package flame

import "sort"

// VariationLinear is the one variation name the driver treats specially: a
// flame whose xforms use only this variation gets useVariations forced off
// as a compile-time optimization.
const VariationLinear = "linear"

// Built-in variation names the software backend knows how to evaluate.
// These four exist so the engine has real per-flame data to drive the
// histogram/quality/program-cache machinery end to end.
const (
	VariationSinusoidal = "sinusoidal"
	VariationSpherical  = "spherical"
	VariationSwirl      = "swirl"
)

// VariationTerm is one weighted variation applied inside an XForm.
type VariationTerm struct {
	Name   string
	Weight float64
	Params []float64
}

// XForm is one weighted, affine-transformed branch of the chaos game.
type XForm struct {
	Weight     float64
	Affine     [6]float64 // [a b c d e f]: x' = a*x + b*y + c, y' = d*x + e*y + f
	PostAffine *[6]float64
	ColorIndex float64
	Variations []VariationTerm
}

// Flame is a descriptor of a weighted set of xforms defining a chaos-game
// attractor.
type Flame struct {
	ID         string
	XForms     []XForm
	FinalXForm *XForm

	Background        [3]float64
	ColorationGamma    float64
	ColorationVibrancy float64
}

// VariationSet returns the canonically sorted, de-duplicated set of
// variation names used anywhere in the flame (its own xforms and, if
// present, the final xform). The device program cache is keyed on this
// set.
func (f *Flame) VariationSet() []string {
	seen := make(map[string]struct{})
	for _, x := range f.XForms {
		for _, v := range x.Variations {
			seen[v.Name] = struct{}{}
		}
	}
	if f.FinalXForm != nil {
		for _, v := range f.FinalXForm.Variations {
			seen[v.Name] = struct{}{}
		}
	}
	if len(seen) == 0 {
		seen[VariationLinear] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsLinearOnly reports whether this flame's variation set is exactly
// {linear}, the case in which the per-flame driver forces useVariations off.
func (f *Flame) IsLinearOnly() bool {
	set := f.VariationSet()
	return len(set) == 1 && set[0] == VariationLinear
}
