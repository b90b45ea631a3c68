package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// InsightsHeader is the column order of the insights CSV.
var InsightsHeader = []string{
	"Theme", "Tactic_ID", "Tactic_Label",
	"Avg_Score", "Max_Score", "Min_Score", "Std_Dev",
	"High_Scorers", "Low_Scorers",
	"Is_Uncontested", "Is_Battleground", "Is_Mixed",
}

// WriteInsights writes one CSV row per insight, in the given order.
func WriteInsights(w io.Writer, insights []model.Insight) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InsightsHeader); err != nil {
		return fmt.Errorf("write insights header: %w", err)
	}
	for _, in := range insights {
		row := []string{
			in.Theme,
			strconv.Itoa(in.TacticID),
			in.Label,
			FormatFloat(in.AvgScore),
			strconv.Itoa(in.MaxScore),
			strconv.Itoa(in.MinScore),
			FormatFloat(in.StdDev),
			strconv.Itoa(in.HighScorers),
			strconv.Itoa(in.LowScorers),
			FormatBool(in.IsUncontested),
			FormatBool(in.IsBattleground),
			FormatBool(in.IsMixed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write insight %d: %w", in.TacticID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCompanyStats writes one CSV row per company with a column per theme.
// A theme the company was never scored on is an empty cell.
func WriteCompanyStats(w io.Writer, stats []model.CompanyStats, themes []string) error {
	cw := csv.NewWriter(w)
	header := append([]string{"Company", "Overall_Avg", "Tactics_Scored"}, themes...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write company stats header: %w", err)
	}
	for _, cs := range stats {
		row := make([]string, 0, len(header))
		row = append(row, cs.Company, FormatFloat(cs.OverallAvg), strconv.Itoa(cs.TacticsScored))
		for _, theme := range themes {
			v, ok := cs.ThemeAvgs[theme]
			if !ok {
				v = math.NaN()
			}
			row = append(row, FormatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write company %s: %w", cs.Company, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFloat renders v in its shortest form, keeping a ".0" on integral
// values. NaN renders as an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') && !math.IsInf(v, 0) {
		s += ".0"
	}
	return s
}

// FormatBool renders True or False.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
