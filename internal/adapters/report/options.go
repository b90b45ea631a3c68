package report

// Defaults for the console summary.
const (
	DefaultLimit        = 15
	DefaultLowScoreMax  = 2
	DefaultHighScoreMin = 4
)

// Option applies a configuration option to the Console.
type Option func(*Console)

// WithLimit caps the uncontested and battleground lists.
func WithLimit(n int) Option {
	return func(c *Console) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// WithScoreThresholds sets the low and high scores quoted in section captions.
func WithScoreThresholds(lowMax, highMin int) Option {
	return func(c *Console) {
		c.lowMax, c.highMin = lowMax, highMin
	}
}
