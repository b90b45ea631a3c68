package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// scoreGrid exposes the matrix as a plotter.GridXYZ. Grid row 0 is the last
// matrix row so that the first tactic is drawn at the top.
type scoreGrid struct {
	m *model.ScoreMatrix
}

func (g scoreGrid) Dims() (c, r int) { return len(g.m.Companies), len(g.m.Rows) }

func (g scoreGrid) Z(c, r int) float64 {
	s, ok := g.m.Rows[len(g.m.Rows)-1-r].Score(g.m.Companies[c])
	if !ok {
		return math.NaN()
	}
	return float64(s)
}

func (g scoreGrid) X(c int) float64 { return float64(c) }
func (g scoreGrid) Y(r int) float64 { return float64(r) }
func (g scoreGrid) Min() float64    { return MinScore }
func (g scoreGrid) Max() float64    { return MaxScore }

// rowY is the plot Y coordinate of matrix row i.
func rowY(rows, i int) float64 { return float64(rows - 1 - i) }

// scaleGrid is the single column color scale, one cell per score.
type scaleGrid struct{}

func (scaleGrid) Dims() (c, r int)   { return 1, Bands }
func (scaleGrid) Z(_, r int) float64 { return float64(MinScore + r) }
func (scaleGrid) X(int) float64      { return 0 }
func (scaleGrid) Y(r int) float64    { return float64(MinScore + r) }
func (scaleGrid) Min() float64       { return MinScore }
func (scaleGrid) Max() float64       { return MaxScore }

type borderedRow struct {
	y     float64
	color color.Color
}

// rowBorders outlines whole matrix rows.
type rowBorders struct {
	rows  []borderedRow
	cols  int
	width vg.Length
}

func (b rowBorders) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	x0, x1 := trX(-0.5), trX(float64(b.cols)-0.5)
	for _, r := range b.rows {
		y0, y1 := trY(r.y-0.5), trY(r.y+0.5)
		c.StrokeLines(draw.LineStyle{Color: r.color, Width: b.width}, []vg.Point{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
		})
	}
}

// separators draws a horizontal rule between rows of different themes.
type separators struct {
	ys    []float64
	cols  int
	width vg.Length
}

func (s separators) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	x0, x1 := trX(-0.5), trX(float64(s.cols)-0.5)
	sty := draw.LineStyle{Color: SeparatorColor, Width: s.width}
	for _, y := range s.ys {
		c.StrokeLine2(sty, x0, trY(y), x1, trY(y))
	}
}

// borderThumb is the legend swatch of a row border.
type borderThumb struct {
	color color.Color
	width vg.Length
}

func (t borderThumb) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	}
	c.FillPolygon(color.White, pts)
	c.StrokeLines(draw.LineStyle{Color: t.color, Width: t.width}, append(pts, pts[0]))
}
