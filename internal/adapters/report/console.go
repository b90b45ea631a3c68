// Package report prints the audit summary and builds the XLSX export.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steelesean/Design-Automation/internal/adapters/repository"
	"github.com/steelesean/Design-Automation/internal/domain/insight"
	"github.com/steelesean/Design-Automation/internal/domain/model"
)

const (
	ruleWidth  = 80
	themeWidth = 15
	labelWidth = 45
	nameWidth  = 30
	barScale   = 4
)

// Summary is everything the console report needs.
type Summary struct {
	Matrix    *model.ScoreMatrix
	Insights  []model.Insight
	Companies []model.CompanyStats
}

// Console writes human readable progress and the analysis summary.
type Console struct {
	w       io.Writer
	limit   int
	lowMax  int
	highMin int
	heading lipgloss.Style
	muted   lipgloss.Style
}

// NewConsole creates a Console writing to w. Styling is dropped when w is
// not a terminal.
func NewConsole(w io.Writer, opts ...Option) *Console {
	r := lipgloss.NewRenderer(w)
	c := &Console{
		w:       w,
		limit:   DefaultLimit,
		lowMax:  DefaultLowScoreMax,
		highMin: DefaultHighScoreMin,
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Progress prints a one line status message.
func (c *Console) Progress(msg string) {
	_, _ = fmt.Fprintln(c.w, msg)
}

// Saved prints the location of a written output.
func (c *Console) Saved(what, path string) {
	_, _ = fmt.Fprintf(c.w, "✓ %s saved to: %s\n", what, path)
}

// Summary prints the dataset overview and the ranked sections.
func (c *Console) Summary(s Summary) error {
	var b strings.Builder
	double, single := strings.Repeat("=", ruleWidth), strings.Repeat("-", ruleWidth)

	b.WriteString("\n" + double + "\n")
	b.WriteString(c.heading.Render("COMPETITIVE AUDIT ANALYSIS") + "\n")
	b.WriteString(double + "\n")

	fmt.Fprintf(&b, "\n📊 DATASET: %d companies × %d tactics\n", len(s.Matrix.Companies), len(s.Matrix.Rows))
	fmt.Fprintf(&b, "   Companies: %s\n", strings.Join(s.Matrix.Companies, ", "))

	c.section(&b, single, "🎯 UNCONTESTED OPPORTUNITIES",
		fmt.Sprintf("Tactics where most competitors score LOW (≤%d) - potential differentiation", c.lowMax))
	c.tactics(&b, insight.Uncontested(s.Insights, c.limit), "No clear uncontested opportunities found.")

	c.section(&b, single, "⚔️  BATTLEGROUNDS (Table Stakes)",
		fmt.Sprintf("Tactics where most competitors score HIGH (≥%d) - must match to compete", c.highMin))
	c.tactics(&b, insight.Battlegrounds(s.Insights, c.limit), "No clear battlegrounds found.")

	c.section(&b, single, "📈 THEME PERFORMANCE (Industry Average)", "")
	for _, ta := range insight.ThemeAverages(s.Insights) {
		fmt.Fprintf(&b, "   %-*s %.2f %s\n", nameWidth, ta.Theme, ta.Avg, bar(ta.Avg))
	}

	if len(s.Companies) > 0 {
		c.section(&b, single, "🏢 COMPANY PERFORMANCE (Overall Average)", "")
		for _, cs := range rankCompanies(s.Companies) {
			fmt.Fprintf(&b, "   %-*s %.2f %s %s\n", nameWidth, cs.Company, cs.OverallAvg, bar(cs.OverallAvg),
				c.muted.Render(fmt.Sprintf("(%d tactics)", cs.TacticsScored)))
		}
	}

	b.WriteString("\n" + double + "\n")
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *Console) section(b *strings.Builder, rule, title, caption string) {
	b.WriteString("\n" + rule + "\n")
	b.WriteString(c.heading.Render(title) + "\n")
	if caption != "" {
		b.WriteString("   " + caption + "\n")
	}
	b.WriteString(rule + "\n")
}

func (c *Console) tactics(b *strings.Builder, list []model.Insight, empty string) {
	if len(list) == 0 {
		b.WriteString("   " + empty + "\n")
		return
	}
	for _, in := range list {
		fmt.Fprintf(b, "   [%-*s] %-*s Avg: %s\n",
			themeWidth, truncate(in.Theme, themeWidth),
			labelWidth, in.Label,
			repository.FormatFloat(in.AvgScore))
	}
}

// rankCompanies orders companies by overall average, best first.
func rankCompanies(stats []model.CompanyStats) []model.CompanyStats {
	out := append([]model.CompanyStats(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OverallAvg != out[j].OverallAvg {
			return out[i].OverallAvg > out[j].OverallAvg
		}
		return out[i].Company < out[j].Company
	})
	return out
}

func bar(avg float64) string {
	n := int(avg * barScale)
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
