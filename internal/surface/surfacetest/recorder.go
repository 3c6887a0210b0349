// Package surfacetest provides a Surface that records draw calls instead of
// rasterizing them.
package surfacetest

import (
	"image/color"

	"github.com/iburimskiy/spectral-visualizer/internal/surface"
)

// Op kinds recorded by Recorder.
const (
	OpFillRect       = "fillRect"
	OpStrokeRect     = "strokeRect"
	OpFillCircle     = "fillCircle"
	OpStrokeCircle   = "strokeCircle"
	OpLine           = "line"
	OpRadialGradient = "radialGradient"
)

// Op is one recorded draw call.
type Op struct {
	Kind   string
	Args   []float64
	Colors []color.NRGBA
	Blend  surface.Blend
}

// Recorder implements surface.Surface.
type Recorder struct {
	Ops   []Op
	blend surface.Blend
}

var _ surface.Surface = (*Recorder)(nil)

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *Recorder) record(kind string, args []float64, colors ...color.Color) {
	op := Op{Kind: kind, Args: args, Blend: r.blend}
	for _, c := range colors {
		op.Colors = append(op.Colors, nrgba(c))
	}
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.record(OpFillRect, []float64{x, y, w, h}, c)
}

func (r *Recorder) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	r.record(OpStrokeRect, []float64{x, y, w, h, lineWidth}, c)
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c color.Color) {
	r.record(OpFillCircle, []float64{cx, cy, radius}, c)
}

func (r *Recorder) StrokeCircle(cx, cy, radius, lineWidth float64, c color.Color) {
	r.record(OpStrokeCircle, []float64{cx, cy, radius, lineWidth}, c)
}

func (r *Recorder) Line(x0, y0, x1, y1, lineWidth float64, c color.Color) {
	r.record(OpLine, []float64{x0, y0, x1, y1, lineWidth}, c)
}

func (r *Recorder) RadialGradient(cx, cy, radius float64, inner, outer color.Color) {
	r.record(OpRadialGradient, []float64{cx, cy, radius}, inner, outer)
}

func (r *Recorder) SetBlend(b surface.Blend) {
	r.blend = b
}

// Blend returns the blend mode currently in effect.
func (r *Recorder) Blend() surface.Blend {
	return r.blend
}

// Reset drops all recorded ops; the blend mode is kept.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the ops of the given kind in recording order.
func (r *Recorder) Filter(kind string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// NonFinite returns every op that received a NaN or infinite argument.
func (r *Recorder) NonFinite() []Op {
	var bad []Op
	for _, op := range r.Ops {
		if !surface.Finite(op.Args...) {
			bad = append(bad, op)
		}
	}
	return bad
}
