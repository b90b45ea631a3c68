package model

// Insight holds the derived statistics and classification of one tactic.
// StdDev is NaN when fewer than two companies scored the tactic.
type Insight struct {
	Theme    string
	TacticID int
	Label    string

	AvgScore float64
	MaxScore int
	MinScore int
	StdDev   float64

	HighScorers int
	LowScorers  int

	IsUncontested  bool
	IsBattleground bool
	IsMixed        bool
}

// Highlight is the border drawn around a tactic row.
type Highlight int

// Highlight kinds. Mixed rows are not bordered.
const (
	HighlightNone Highlight = iota
	HighlightUncontested
	HighlightBattleground
)

// Highlight picks the row border; uncontested wins over battleground.
func (i Insight) Highlight() Highlight {
	switch {
	case i.IsUncontested:
		return HighlightUncontested
	case i.IsBattleground:
		return HighlightBattleground
	default:
		return HighlightNone
	}
}

// ThemeAverage is the mean tactic average of one theme.
type ThemeAverage struct {
	Theme string
	Avg   float64
}

// CompanyStats summarizes one company across the audit.
type CompanyStats struct {
	Company       string
	OverallAvg    float64
	TacticsScored int
	ThemeAvgs     map[string]float64 // theme -> mean score; absent when unscored
}
