package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width  int
	Height int
	// Title is drawn above the diagram when set.
	Title string
}

// DefaultPNGOptions returns the default canvas.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:  480,
		Height: 640,
	}
}

// supersample is the factor the picture is drawn at before downscaling.
const supersample = 3

//nolint:gochecknoglobals // Palette.
var (
	colorWhite  = color.RGBA{255, 255, 255, 255}
	colorBlack  = color.RGBA{33, 33, 33, 255}
	colorField  = color.RGBA{21, 101, 192, 255}
	colorSignal = color.RGBA{198, 40, 40, 255}
	colorMuted  = color.RGBA{97, 97, 97, 255}
)

//nolint:gochecknoglobals // The embedded font is parsed once.
var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// renderContext holds the target image and scaled drawing parameters.
type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	label     font.Face
	small     font.Face
}

func newRenderContext(img *image.RGBA, scale int) (*renderContext, error) {
	fnt, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	label, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(18 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}

	small, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(13 * scale),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("formula face: %w", err)
	}

	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: float64(scale) * 2,
		label:     label,
		small:     small,
	}, nil
}

// layout maps diagram units to pixels. Ket sits at x=0, bra at x=1,
// interaction i touches its line at y=i+1 and y grows upwards.
type layout struct {
	centreX float64
	gap     float64
	bottom  float64
	row     float64
}

func (l layout) x(u float64) float64 { return l.centreX + (u-0.5)*l.gap }
func (l layout) y(u float64) float64 { return l.bottom - u*l.row }

// PNG renders d with its formula and writes the encoded image to w.
func PNG(w io.Writer, d *diagram.Diagram, formula string, opts PNGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		defaults := DefaultPNGOptions()
		opts.Width, opts.Height = defaults.Width, defaults.Height
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*supersample, opts.Height*supersample))

	ctx, err := newRenderContext(large, supersample)
	if err != nil {
		return err
	}

	drawDiagram(ctx, d, formula, opts.Title)

	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)

	if err := png.Encode(w, final); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return nil
}

// drawDiagram paints the whole picture onto ctx.img.
func drawDiagram(ctx *renderContext, d *diagram.Diagram, formula, title string) {
	bounds := ctx.img.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	draw.Draw(ctx.img, bounds, image.NewUniform(colorWhite), image.Point{}, draw.Src)

	top := 0.06 * height
	if title != "" {
		top = 0.1 * height
		drawTextCentered(ctx, ctx.label, width/2, 0.05*height, title, colorBlack)
	}

	formulaArea := 0.2 * height
	rows := float64(len(d.Interactions) + 1)

	l := layout{
		centreX: width / 2,
		gap:     0.32 * width,
		bottom:  height - formulaArea,
		row:     (height - formulaArea - top) / rows,
	}

	// System lines.
	for _, side := range []float64{0, 1} {
		drawLine(ctx, l.x(side), l.y(0.5), l.x(side), l.y(rows), ctx.lineWidth*2.5, colorBlack)
	}

	start := d.Start
	population := "ρ" + diagram.LevelGreek(start.Ket) + diagram.LevelGreek(start.Bra)
	drawTextCentered(ctx, ctx.label, l.x(0.5), l.y(0.15), population, colorBlack)

	for pos, in := range d.Interactions {
		drawInteraction(ctx, l, float64(pos), in)
	}

	drawFormula(ctx, formula, width, l.bottom+0.25*formulaArea)
}

// drawInteraction draws the arrow, field label and reached level of one interaction.
func drawInteraction(ctx *renderContext, l layout, pos float64, in diagram.Interaction) {
	side := 0.0
	dx := 0.5
	off := 0.2

	if in.Side == diagram.Bra {
		side, dx, off = 1, -0.5, -0.2
	}

	c := colorField
	if in.IsSignal() {
		c = colorSignal
	}

	var (
		x1, y1, x2, y2 float64
		labelY         float64
	)

	if in.Direction() == diagram.In {
		x1, y1, x2, y2 = side-dx, pos+0.45, side, pos+1
		labelY = pos + 0.55
	} else {
		x1, y1, x2, y2 = side, pos+1, side-dx, pos+1.55
		labelY = pos + 1.45
	}

	drawArrowLine(ctx, l.x(x1), l.y(y1), l.x(x2), l.y(y2), c)
	drawTextCentered(ctx, ctx.label, l.x(side-dx*1.35), l.y(labelY), in.Label(), c)
	drawTextCentered(ctx, ctx.label, l.x(side+off), l.y(pos+1), diagram.LevelGreek(in.To), colorMuted)
}

// drawFormula writes the formula centred under the diagram, wrapping on spaces.
func drawFormula(ctx *renderContext, formula string, width, y float64) {
	if formula == "" {
		return
	}

	maxWidth := int(0.9 * width)
	lineHeight := float64(ctx.small.Metrics().Height.Ceil()) * 1.2

	for i, line := range wrapText(ctx.small, formula, maxWidth) {
		drawTextCentered(ctx, ctx.small, width/2, y+float64(i)*lineHeight, line, colorBlack)
	}
}

// wrapText splits s into lines no wider than maxWidth pixels where spaces allow it.
func wrapText(face font.Face, s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}

	for _, w := range words[1:] {
		candidate := lines[len(lines)-1] + " " + w
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			lines[len(lines)-1] = candidate
		} else {
			lines = append(lines, w)
		}
	}

	return lines
}

// drawLine draws a straight line of the given thickness.
func drawLine(ctx *renderContext, x1, y1, x2, y2, thickness float64, c color.Color) {
	img := ctx.img

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	halfThick := thickness / 2

	dist := math.Hypot(dx, dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}

		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawArrowLine draws a line ending in a filled arrowhead at (x2, y2).
func drawArrowLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	dx := x2 - x1
	dy := y2 - y1

	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}

	nx := dx / dist
	ny := dy / dist

	arrowLen := 10.0 * ctx.scale
	arrowWidth := 5.0 * ctx.scale

	// Stop the shaft at the base of the head so the tip stays sharp.
	drawLine(ctx, x1, y1, x2-nx*arrowLen*0.8, y2-ny*arrowLen*0.8, ctx.lineWidth, c)

	ax1 := x2 - nx*arrowLen + ny*arrowWidth
	ay1 := y2 - ny*arrowLen - nx*arrowWidth
	ax2 := x2 - nx*arrowLen - ny*arrowWidth
	ay2 := y2 - ny*arrowLen + nx*arrowWidth

	for t := 0.0; t <= 1.0; t += 0.02 {
		mx := ax1 + (ax2-ax1)*t
		my := ay1 + (ay2-ay1)*t
		drawLine(ctx, x2, y2, mx, my, ctx.scale, c)
	}
}

// drawTextCentered draws text horizontally centred on x with its vertical middle near y.
func drawTextCentered(ctx *renderContext, face font.Face, x, y float64, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(x) - width/2),
			Y: fixed.I(int(y) + ascent*2/5),
		},
	}
	d.DrawString(text)
}
