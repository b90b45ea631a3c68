package sampledata

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/steelesean/Design-Automation/internal/domain/model"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

// Score bounds of the audit scale.
const (
	minScore = 1
	maxScore = 5
)

// Market kinds decide how a tactic is scored across companies.
const (
	marketUncontested = iota // most companies ignore it
	marketContested          // scores cluster mid-scale
	marketTableStakes        // nearly everyone does it well
	marketPolarized          // leaders excel, the rest skip it
	marketKinds
)

// Base score per market kind before company bias and noise.
var marketBase = [marketKinds]float64{
	marketUncontested: 1.5,
	marketContested:   3.0,
	marketTableStakes: 4.4,
	marketPolarized:   3.0,
}

// Company strength profiles.
const (
	profileLaggard = iota
	profileAverage
	profileLeader
	profileKinds
)

var profileBias = [profileKinds]float64{
	profileLaggard: -0.6,
	profileAverage: 0,
	profileLeader:  0.6,
}

var themeNames = []string{
	"Onboarding",
	"Pricing Transparency",
	"Trust and Safety",
	"Personalization",
	"Customer Support",
	"Community",
	"Mobile Experience",
	"Checkout",
}

var companyNames = []string{
	"Acme", "Bluebird", "Cobalt", "Driftwood", "Evergreen", "Foxglove",
	"Granite", "Harbor", "Ironwood", "Juniper", "Kestrel", "Lumen",
}

var (
	tacticVerbs = []string{"Guided", "Instant", "Proactive", "Transparent", "Adaptive", "Social", "Visual", "Self-serve"}
	tacticNouns = []string{"tour", "comparison", "checklist", "reminders", "reviews", "chat", "calculator", "templates", "badges", "preview", "guarantee"}
)

// Generate produces a long-format audit: one record per (tactic, company),
// with some cells left unscored. The same config always yields the same audit.
func Generate(ctx context.Context, cfg *Config) ([]model.AuditRecord, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible sample data, not security sensitive

	companies := names(companyNames, cfg.Companies)
	profiles := make([]int, len(companies))
	for i := range profiles {
		profiles[i] = rng.Intn(profileKinds)
	}

	records := make([]model.AuditRecord, 0, cfg.Themes*cfg.TacticsPerTheme*cfg.Companies)
	id := 0
	for _, theme := range names(themeNames, cfg.Themes) {
		for t := 0; t < cfg.TacticsPerTheme; t++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			id++
			name := fmt.Sprintf("%s %s", tacticVerbs[rng.Intn(len(tacticVerbs))], tacticNouns[rng.Intn(len(tacticNouns))])
			market := rng.Intn(marketKinds)

			for c, company := range companies {
				rec := model.AuditRecord{Theme: theme, TacticID: id, TacticName: name, Company: company}
				if rng.Float64() >= cfg.MissingRate {
					rec.Score, rec.HasScore = score(rng, market, profiles[c]), true
				}
				records = append(records, rec)
			}
		}
	}

	logger.Get().Debug(ctx, "sample audit generated",
		logger.Int("records", len(records)),
		logger.Int("tactics", id),
		logger.Int("companies", len(companies)),
	)
	return records, nil
}

func score(rng *rand.Rand, market, profile int) int {
	if market == marketPolarized {
		if profile == profileLeader || rng.Float64() < 0.25 {
			return clamp(5 - rng.Intn(2))
		}
		return clamp(1 + rng.Intn(2))
	}
	v := marketBase[market] + profileBias[profile] + rng.NormFloat64()*0.7
	return clamp(int(math.Round(v)))
}

func clamp(v int) int {
	switch {
	case v < minScore:
		return minScore
	case v > maxScore:
		return maxScore
	default:
		return v
	}
}

// names returns n names from pool, numbering repeats once the pool runs out.
func names(pool []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = pool[i%len(pool)]
		if round := i / len(pool); round > 0 {
			out[i] = fmt.Sprintf("%s %d", out[i], round+1)
		}
	}
	return out
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case cfg.Companies <= 0:
		return fmt.Errorf("%w: companies must be positive", ErrInvalidConfig)
	case cfg.Themes <= 0:
		return fmt.Errorf("%w: themes must be positive", ErrInvalidConfig)
	case cfg.TacticsPerTheme <= 0:
		return fmt.Errorf("%w: tactics per theme must be positive", ErrInvalidConfig)
	case cfg.MissingRate < 0 || cfg.MissingRate >= 1:
		return fmt.Errorf("%w: missing rate must be in [0, 1)", ErrInvalidConfig)
	}
	return nil
}
