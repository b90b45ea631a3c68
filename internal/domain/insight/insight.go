// Package insight derives per-tactic statistics and opportunity
// classifications from a score matrix.
package insight

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// Default classification thresholds.
const (
	DefaultUncontestedMaxAvg   = 2.0
	DefaultLowScoreMax         = 2
	DefaultHighScoreMin        = 4
	DefaultUncontestedLowShare = 0.7
	DefaultBattlegroundMinAvg  = 4.0
	DefaultMixedMinStdDev      = 1.5
)

// Calculator computes insights with configurable thresholds.
type Calculator struct {
	uncontestedMaxAvg   float64
	lowScoreMax         int
	highScoreMin        int
	uncontestedLowShare float64
	battlegroundMinAvg  float64
	mixedMinStdDev      float64
}

// New creates a Calculator with the default thresholds, overridden by opts.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		uncontestedMaxAvg:   DefaultUncontestedMaxAvg,
		lowScoreMax:         DefaultLowScoreMax,
		highScoreMin:        DefaultHighScoreMin,
		uncontestedLowShare: DefaultUncontestedLowShare,
		battlegroundMinAvg:  DefaultBattlegroundMinAvg,
		mixedMinStdDev:      DefaultMixedMinStdDev,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate returns one insight per matrix row, in row order.
func (c *Calculator) Calculate(_ context.Context, m *model.ScoreMatrix) []model.Insight {
	out := make([]model.Insight, 0, len(m.Rows))
	for _, row := range m.Rows {
		out = append(out, c.Tactic(row, m.Companies))
	}
	return out
}

// Tactic computes the insight of a single row. Companies without a score are
// skipped by the aggregates but still count towards the low-scorer share.
func (c *Calculator) Tactic(row model.TacticRow, companies []string) model.Insight {
	in := model.Insight{
		Theme:    row.Theme,
		TacticID: row.TacticID,
		Label:    row.Label,
		StdDev:   math.NaN(),
		AvgScore: math.NaN(),
	}

	scores := make([]float64, 0, len(companies))
	for _, company := range companies {
		s, ok := row.Score(company)
		if !ok {
			continue
		}
		scores = append(scores, float64(s))
		if s >= c.highScoreMin {
			in.HighScorers++
		}
		if s <= c.lowScoreMax {
			in.LowScorers++
		}
	}
	if len(scores) == 0 {
		return in
	}

	in.AvgScore = Round2(stat.Mean(scores, nil))
	in.MaxScore = int(floats.Max(scores))
	in.MinScore = int(floats.Min(scores))
	if len(scores) > 1 {
		in.StdDev = Round2(stat.StdDev(scores, nil))
	}

	in.IsUncontested = in.AvgScore <= c.uncontestedMaxAvg ||
		float64(in.LowScorers) >= float64(len(companies))*c.uncontestedLowShare
	in.IsBattleground = in.AvgScore >= c.battlegroundMinAvg
	in.IsMixed = !math.IsNaN(in.StdDev) && in.StdDev >= c.mixedMinStdDev
	return in
}

// Round2 rounds to two decimals, halves to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Uncontested returns up to limit uncontested insights, lowest average first.
// Ties keep matrix order. A negative limit returns all.
func Uncontested(insights []model.Insight, limit int) []model.Insight {
	picked := filter(insights, func(i model.Insight) bool { return i.IsUncontested })
	sort.SliceStable(picked, func(a, b int) bool { return picked[a].AvgScore < picked[b].AvgScore })
	return head(picked, limit)
}

// Battlegrounds returns up to limit battleground insights, highest average first.
// Ties keep matrix order. A negative limit returns all.
func Battlegrounds(insights []model.Insight, limit int) []model.Insight {
	picked := filter(insights, func(i model.Insight) bool { return i.IsBattleground })
	sort.SliceStable(picked, func(a, b int) bool { return picked[a].AvgScore > picked[b].AvgScore })
	return head(picked, limit)
}

// Mixed returns every mixed insight in matrix order.
func Mixed(insights []model.Insight) []model.Insight {
	return filter(insights, func(i model.Insight) bool { return i.IsMixed })
}

// ThemeAverages returns the mean tactic average per theme, rounded to two
// decimals, highest first; ties are ordered by theme name.
func ThemeAverages(insights []model.Insight) []model.ThemeAverage {
	sums := map[string][]float64{}
	var order []string
	for _, in := range insights {
		if math.IsNaN(in.AvgScore) {
			continue
		}
		if _, ok := sums[in.Theme]; !ok {
			order = append(order, in.Theme)
		}
		sums[in.Theme] = append(sums[in.Theme], in.AvgScore)
	}

	out := make([]model.ThemeAverage, 0, len(order))
	for _, theme := range order {
		out = append(out, model.ThemeAverage{Theme: theme, Avg: Round2(stat.Mean(sums[theme], nil))})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Avg != out[b].Avg {
			return out[a].Avg > out[b].Avg
		}
		return out[a].Theme < out[b].Theme
	})
	return out
}

// Companies summarizes each matrix company: overall mean score, per-theme
// means and the number of tactics it was scored on. Output follows matrix
// company order.
func Companies(m *model.ScoreMatrix) []model.CompanyStats {
	out := make([]model.CompanyStats, 0, len(m.Companies))
	for _, company := range m.Companies {
		var all []float64
		byTheme := map[string][]float64{}
		for _, row := range m.Rows {
			s, ok := row.Score(company)
			if !ok {
				continue
			}
			all = append(all, float64(s))
			byTheme[row.Theme] = append(byTheme[row.Theme], float64(s))
		}

		cs := model.CompanyStats{
			Company:       company,
			TacticsScored: len(all),
			OverallAvg:    math.NaN(),
			ThemeAvgs:     make(map[string]float64, len(byTheme)),
		}
		if len(all) > 0 {
			cs.OverallAvg = Round2(stat.Mean(all, nil))
		}
		for theme, scores := range byTheme {
			cs.ThemeAvgs[theme] = Round2(stat.Mean(scores, nil))
		}
		out = append(out, cs)
	}
	return out
}

// Counts returns how many insights carry each flag.
func Counts(insights []model.Insight) (uncontested, battleground, mixed int) {
	for _, in := range insights {
		if in.IsUncontested {
			uncontested++
		}
		if in.IsBattleground {
			battleground++
		}
		if in.IsMixed {
			mixed++
		}
	}
	return uncontested, battleground, mixed
}

func filter(insights []model.Insight, keep func(model.Insight) bool) []model.Insight {
	var out []model.Insight
	for _, in := range insights {
		if keep(in) {
			out = append(out, in)
		}
	}
	return out
}

func head(insights []model.Insight, limit int) []model.Insight {
	if limit >= 0 && len(insights) > limit {
		return insights[:limit]
	}
	return insights
}
