package insight

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithUncontestedMaxAvg sets the average at or below which a tactic is uncontested.
func WithUncontestedMaxAvg(v float64) Option {
	return func(c *Calculator) { c.uncontestedMaxAvg = v }
}

// WithLowScoreMax sets the score at or below which a company is a low scorer.
func WithLowScoreMax(v int) Option {
	return func(c *Calculator) { c.lowScoreMax = v }
}

// WithHighScoreMin sets the score at or above which a company is a high scorer.
func WithHighScoreMin(v int) Option {
	return func(c *Calculator) { c.highScoreMin = v }
}

// WithUncontestedLowShare sets the share of low scorers (relative to the
// company count) that makes a tactic uncontested. Values outside [0,1] are ignored.
func WithUncontestedLowShare(v float64) Option {
	return func(c *Calculator) {
		if v >= 0 && v <= 1 {
			c.uncontestedLowShare = v
		}
	}
}

// WithBattlegroundMinAvg sets the average at or above which a tactic is a battleground.
func WithBattlegroundMinAvg(v float64) Option {
	return func(c *Calculator) { c.battlegroundMinAvg = v }
}

// WithMixedMinStdDev sets the spread at or above which a tactic is mixed.
func WithMixedMinStdDev(v float64) Option {
	return func(c *Calculator) {
		if v > 0 {
			c.mixedMinStdDev = v
		}
	}
}
