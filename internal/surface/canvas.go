package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const gradientSegments = 48

// blendScreen is the "screen" composite on premultiplied colors.
var blendScreen = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

var whiteSubImage *ebiten.Image

// white returns a 1x1 white source image for DrawTriangles, created on first use.
func white() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// Canvas implements Surface on an ebiten image. The target can be rebound
// between frames; with no target bound every call is a no-op.
type Canvas struct {
	target *ebiten.Image
	blend  Blend

	vs []ebiten.Vertex
	is []uint16
}

// NewCanvas returns a canvas drawing onto target, which may be nil.
func NewCanvas(target *ebiten.Image) *Canvas {
	return &Canvas{target: target}
}

// Bind points the canvas at a new target image.
func (c *Canvas) Bind(target *ebiten.Image) {
	c.target = target
}

// Available reports whether drawing currently reaches an image.
func (c *Canvas) Available() bool {
	return c.target != nil
}

func (c *Canvas) SetBlend(b Blend) {
	c.blend = b
}

func (c *Canvas) options() *ebiten.DrawTrianglesOptions {
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	if c.blend == BlendScreen {
		op.Blend = blendScreen
	}
	return op
}

func straight(clr color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

func (c *Canvas) paint(vs []ebiten.Vertex, is []uint16, clr color.Color) {
	r, g, b, a := straight(clr)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	c.target.DrawTriangles(vs, is, white(), c.options())
	c.vs, c.is = vs[:0], is[:0]
}

func (c *Canvas) fill(p *vector.Path, clr color.Color) {
	vs, is := p.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.paint(vs, is, clr)
}

func (c *Canvas) stroke(p *vector.Path, width float64, clr color.Color) {
	vs, is := p.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width:      float32(width),
		LineJoin:   vector.LineJoinMiter,
		MiterLimit: 4,
	})
	c.paint(vs, is, clr)
}

// normRect turns negative extents into positive ones, as canvas APIs do.
func normRect(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return x, y, w, h
}

func rectPath(x, y, w, h float64) *vector.Path {
	var p vector.Path
	p.MoveTo(float32(x), float32(y))
	p.LineTo(float32(x+w), float32(y))
	p.LineTo(float32(x+w), float32(y+h))
	p.LineTo(float32(x), float32(y+h))
	p.Close()
	return &p
}

func circlePath(cx, cy, r float64) *vector.Path {
	var p vector.Path
	p.Arc(float32(cx), float32(cy), float32(r), 0, 2*math.Pi, vector.Clockwise)
	p.Close()
	return &p
}

func (c *Canvas) FillRect(x, y, w, h float64, clr color.Color) {
	if c.target == nil || !Finite(x, y, w, h) {
		return
	}
	x, y, w, h = normRect(x, y, w, h)
	if w == 0 || h == 0 {
		return
	}
	c.fill(rectPath(x, y, w, h), clr)
}

func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, clr color.Color) {
	if c.target == nil || !Finite(x, y, w, h, lineWidth) || lineWidth <= 0 {
		return
	}
	x, y, w, h = normRect(x, y, w, h)
	c.stroke(rectPath(x, y, w, h), lineWidth, clr)
}

func (c *Canvas) FillCircle(cx, cy, r float64, clr color.Color) {
	if c.target == nil || !Finite(cx, cy, r) || r <= 0 {
		return
	}
	c.fill(circlePath(cx, cy, r), clr)
}

func (c *Canvas) StrokeCircle(cx, cy, r, lineWidth float64, clr color.Color) {
	if c.target == nil || !Finite(cx, cy, r, lineWidth) || r <= 0 || lineWidth <= 0 {
		return
	}
	c.stroke(circlePath(cx, cy, r), lineWidth, clr)
}

func (c *Canvas) Line(x0, y0, x1, y1, lineWidth float64, clr color.Color) {
	if c.target == nil || !Finite(x0, y0, x1, y1, lineWidth) || lineWidth <= 0 {
		return
	}
	var p vector.Path
	p.MoveTo(float32(x0), float32(y0))
	p.LineTo(float32(x1), float32(y1))
	c.stroke(&p, lineWidth, clr)
}

// RadialGradient draws a triangle fan; the GPU interpolates the vertex
// colors from the centre to the rim.
func (c *Canvas) RadialGradient(cx, cy, r float64, inner, outer color.Color) {
	if c.target == nil || !Finite(cx, cy, r) || r <= 0 {
		return
	}
	ir, ig, ib, ia := straight(inner)
	or, og, ob, oa := straight(outer)

	vs := append(c.vs[:0], ebiten.Vertex{
		DstX: float32(cx), DstY: float32(cy),
		SrcX: 1, SrcY: 1,
		ColorR: ir, ColorG: ig, ColorB: ib, ColorA: ia,
	})
	for i := 0; i < gradientSegments; i++ {
		theta := 2 * math.Pi * float64(i) / gradientSegments
		vs = append(vs, ebiten.Vertex{
			DstX: float32(cx + r*math.Cos(theta)), DstY: float32(cy + r*math.Sin(theta)),
			SrcX: 1, SrcY: 1,
			ColorR: or, ColorG: og, ColorB: ob, ColorA: oa,
		})
	}
	is := c.is[:0]
	for i := 1; i <= gradientSegments; i++ {
		next := i%gradientSegments + 1
		is = append(is, 0, uint16(i), uint16(next))
	}
	c.target.DrawTriangles(vs, is, white(), c.options())
	c.vs, c.is = vs[:0], is[:0]
}
