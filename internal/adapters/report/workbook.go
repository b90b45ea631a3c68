package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/steelesean/Design-Automation/internal/adapters/render"
	"github.com/steelesean/Design-Automation/internal/adapters/repository"
	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// Workbook sheet names.
const (
	SheetInsights  = "Insights"
	SheetScores    = "Scores"
	SheetCompanies = "Companies"
)

// Workbook is the data behind the XLSX export.
type Workbook struct {
	Matrix    *model.ScoreMatrix
	Insights  []model.Insight
	Companies []model.CompanyStats
	Themes    []string
}

// WriteWorkbook builds the XLSX export and writes it to w.
func WriteWorkbook(w io.Writer, wb Workbook) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWorkbook, cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetInsights); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkbook, err)
	}
	for _, name := range []string{SheetScores, SheetCompanies} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("%w: %w", ErrWorkbook, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWorkbook, err)
	}

	steps := []func(*excelize.File, Workbook, int) error{insightsSheet, scoresSheet, companiesSheet}
	for _, step := range steps {
		if err := step(f, wb, headerStyle); err != nil {
			return fmt.Errorf("%w: %w", ErrWorkbook, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkbook, err)
	}
	return nil
}

func insightsSheet(f *excelize.File, wb Workbook, headerStyle int) error {
	header := make([]any, len(repository.InsightsHeader))
	for i, h := range repository.InsightsHeader {
		header[i] = h
	}
	if err := writeHeader(f, SheetInsights, header, headerStyle); err != nil {
		return err
	}
	for i, in := range wb.Insights {
		row := []any{
			in.Theme, in.TacticID, in.Label,
			cellFloat(in.AvgScore), in.MaxScore, in.MinScore, cellFloat(in.StdDev),
			in.HighScorers, in.LowScorers,
			in.IsUncontested, in.IsBattleground, in.IsMixed,
		}
		if err := setRow(f, SheetInsights, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetInsights, "A", "C", 28)
}

// scoresSheet lays the matrix out like the heatmap: one filled cell per score
// and a trailing column naming the row highlight.
func scoresSheet(f *excelize.File, wb Workbook, headerStyle int) error {
	m := wb.Matrix
	header := []any{"Theme", "Tactic_Label"}
	for _, c := range m.Companies {
		header = append(header, c)
	}
	header = append(header, "Highlight")
	if err := writeHeader(f, SheetScores, header, headerStyle); err != nil {
		return err
	}

	bandStyles := make([]int, render.Bands)
	for b := range bandStyles {
		score := render.MinScore + b
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(render.ColorFor(score))}},
			Font:      &excelize.Font{Bold: true, Color: hexColor(render.TextColor(score))},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return err
		}
		bandStyles[b] = id
	}

	for i, row := range m.Rows {
		r := i + 2
		values := []any{row.Theme, row.Label}
		for _, company := range m.Companies {
			if s, ok := row.Score(company); ok {
				values = append(values, s)
			} else {
				values = append(values, nil)
			}
		}
		if i < len(wb.Insights) {
			values = append(values, highlightName(wb.Insights[i].Highlight()))
		}
		if err := setRow(f, SheetScores, r, values); err != nil {
			return err
		}

		for c, company := range m.Companies {
			s, ok := row.Score(company)
			if !ok || s < render.MinScore || s > render.MaxScore {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+3, r)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SheetScores, cell, cell, bandStyles[s-render.MinScore]); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SheetScores, "B", "B", 45); err != nil {
		return err
	}
	return f.SetPanes(SheetScores, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}

func companiesSheet(f *excelize.File, wb Workbook, headerStyle int) error {
	header := []any{"Company", "Overall_Avg", "Tactics_Scored"}
	for _, t := range wb.Themes {
		header = append(header, t)
	}
	if err := writeHeader(f, SheetCompanies, header, headerStyle); err != nil {
		return err
	}
	for i, cs := range wb.Companies {
		row := []any{cs.Company, cellFloat(cs.OverallAvg), cs.TacticsScored}
		for _, t := range wb.Themes {
			if v, ok := cs.ThemeAvgs[t]; ok {
				row = append(row, cellFloat(v))
			} else {
				row = append(row, nil)
			}
		}
		if err := setRow(f, SheetCompanies, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []any, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// cellFloat leaves undefined statistics blank.
func cellFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func hexColor(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("%02X%02X%02X", rgba.R, rgba.G, rgba.B)
}

func highlightName(h model.Highlight) string {
	switch h {
	case model.HighlightUncontested:
		return "Uncontested"
	case model.HighlightBattleground:
		return "Battleground"
	default:
		return ""
	}
}
