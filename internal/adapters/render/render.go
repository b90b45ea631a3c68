// Package render draws the audit score matrix as a PNG heatmap.
package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"

	"golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/steelesean/Design-Automation/internal/domain/model"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

// Default image geometry.
const (
	DefaultWidthIn  = 20
	DefaultHeightIn = 28
	DefaultDPI      = 150
)

// Title is the first line of the chart title.
const Title = "Competitive Experience Audit Heatmap"

// Layout shares of the canvas.
const (
	scaleShare  = 0.10 // right strip holding the color scale
	legendShare = 0.03 // bottom strip holding the border legend
)

var (
	borderWidth    = vg.Points(2)
	separatorWidth = vg.Points(2)
	cellFontSize   = vg.Points(7)
)

// Renderer draws heatmaps at a fixed size and resolution.
type Renderer struct {
	width  vg.Length
	height vg.Length
	dpi    int
	logger logger.Logger
}

// New creates a Renderer with the default geometry, overridden by opts.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		width:  DefaultWidthIn * vg.Inch,
		height: DefaultHeightIn * vg.Inch,
		dpi:    DefaultDPI,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws m, bordering rows by their insight, and writes a PNG to w.
// insights must be aligned with m.Rows.
func (r *Renderer) Render(ctx context.Context, m *model.ScoreMatrix, insights []model.Insight, w io.Writer) (err error) {
	if len(m.Rows) == 0 || len(m.Companies) == 0 {
		return fmt.Errorf("%w: empty score matrix", ErrRender)
	}
	if len(insights) != len(m.Rows) {
		return fmt.Errorf("%w: %d insights for %d rows", ErrRender, len(insights), len(m.Rows))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// gonum/plot reports font and geometry failures by panicking.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRender, p)
		}
	}()

	heat, err := r.heatmapPlot(m, insights)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	img := vgimg.NewWith(
		vgimg.UseWH(r.width, r.height),
		vgimg.UseDPI(r.dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(img)
	cw, ch := dc.Max.X-dc.Min.X, dc.Max.Y-dc.Min.Y
	legendH := ch * legendShare

	heat.Draw(draw.Crop(dc, 0, -cw*scaleShare, legendH, 0))
	scalePlot().Draw(draw.Crop(dc, cw*(1-scaleShare)+cw*0.01, -cw*0.01, legendH+ch*0.3, -ch*0.3))

	lg := legend()
	lg.Draw(draw.Crop(dc, cw*0.25, -cw*scaleShare, 0, -(ch - legendH)))

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("%w: encode png: %w", ErrRender, err)
	}
	r.logger.Debug(ctx, "heatmap rendered",
		logger.Int("rows", len(m.Rows)),
		logger.Int("companies", len(m.Companies)),
		logger.Int("dpi", r.dpi),
	)
	return nil
}

func (r *Renderer) heatmapPlot(m *model.ScoreMatrix, insights []model.Insight) (*plot.Plot, error) {
	rows, cols := len(m.Rows), len(m.Companies)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\n%d Companies × %d Tactics", Title, cols, rows)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.TextStyle.Font.Weight = font.WeightBold
	p.Title.Padding = vg.Points(20)
	p.X.Padding, p.Y.Padding = 0, 0

	h := plotter.NewHeatMap(scoreGrid{m: m}, bandPalette(Palette()))
	h.Min, h.Max = MinScore, MaxScore
	h.NaN = MissingColor
	p.Add(h)

	cells, err := cellLabels(m)
	if err != nil {
		return nil, err
	}
	if cells != nil {
		p.Add(cells)
	}

	var bordered []borderedRow
	for i, in := range insights {
		switch in.Highlight() {
		case model.HighlightUncontested:
			bordered = append(bordered, borderedRow{y: rowY(rows, i), color: UncontestedColor})
		case model.HighlightBattleground:
			bordered = append(bordered, borderedRow{y: rowY(rows, i), color: BattlegroundColor})
		}
	}
	p.Add(rowBorders{rows: bordered, cols: cols, width: borderWidth})

	p.Add(separators{ys: SeparatorYs(m.Rows), cols: cols, width: separatorWidth})

	xticks := make([]plot.Tick, cols)
	for c, name := range m.Companies {
		xticks[c] = plot.Tick{Value: float64(c), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(9)

	yticks := make([]plot.Tick, rows)
	for i, row := range m.Rows {
		yticks[i] = plot.Tick{Value: rowY(rows, i), Label: row.Label}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yticks)
	p.Y.Tick.Label.Font.Size = vg.Points(7)
	return p, nil
}

// cellLabels prints each score in bold over its cell.
func cellLabels(m *model.ScoreMatrix) (*plotter.Labels, error) {
	var (
		xys    plotter.XYs
		texts  []string
		colors []color.Color
	)
	for i, row := range m.Rows {
		for c, company := range m.Companies {
			s, ok := row.Score(company)
			if !ok {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: rowY(len(m.Rows), i)})
			texts = append(texts, fmt.Sprintf("%d", s))
			colors = append(colors, TextColor(s))
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = colors[i]
		labels.TextStyle[i].Font.Size = cellFontSize
		labels.TextStyle[i].Font.Weight = font.WeightBold
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	return labels, nil
}

// scalePlot is the color scale attached to the heatmap.
func scalePlot() *plot.Plot {
	p := plot.New()
	h := plotter.NewHeatMap(scaleGrid{}, bandPalette(Palette()))
	h.Min, h.Max = MinScore, MaxScore
	p.Add(h)
	p.HideX()
	p.X.Padding, p.Y.Padding = 0, 0

	ticks := make([]plot.Tick, Bands)
	for b := range ticks {
		ticks[b] = plot.Tick{Value: float64(MinScore + b), Label: fmt.Sprintf("%d\n%s", MinScore+b, ScaleLabels[b])}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Label.Font.Size = vg.Points(8)
	return p
}

// legend explains the two row border kinds.
func legend() plot.Legend {
	lg := plot.NewLegend()
	lg.Top, lg.Left = true, true
	lg.TextStyle.Font.Size = vg.Points(9)
	lg.Add("Uncontested Opportunity (most score low)", borderThumb{color: UncontestedColor, width: borderWidth})
	lg.Add("Battleground (most score high - must match)", borderThumb{color: BattlegroundColor, width: borderWidth})
	return lg
}

// ThemeBoundaries returns the indices of rows whose theme differs from the
// previous row. A separator is drawn above each of them.
func ThemeBoundaries(rows []model.TacticRow) []int {
	var out []int
	for i := 1; i < len(rows); i++ {
		if rows[i].Theme != rows[i-1].Theme {
			out = append(out, i)
		}
	}
	return out
}

// SeparatorYs returns the plot Y of each theme separator: the edge between a
// boundary row and the row above it.
func SeparatorYs(rows []model.TacticRow) []float64 {
	var ys []float64
	for _, i := range ThemeBoundaries(rows) {
		ys = append(ys, rowY(len(rows), i)+0.5)
	}
	return ys
}
