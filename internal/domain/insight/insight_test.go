package insight_test

import (
	"context"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/steelesean/Design-Automation/internal/domain/insight"
	"github.com/steelesean/Design-Automation/internal/domain/model"
)

var companies = []string{"Acme", "Globex", "Initech"}

func row(theme string, id int, scores ...int) model.TacticRow {
	r := model.TacticRow{
		TacticKey: model.TacticKey{Theme: theme, TacticID: id, Label: model.TacticLabel(id, "Tactic")},
		Scores:    map[string]int{},
	}
	for i, s := range scores {
		if s > 0 {
			r.Scores[companies[i]] = s
		}
	}
	return r
}

func TestCalculatorTactic(t *testing.T) {
	Convey("Given a calculator with default thresholds", t, func() {
		calc := insight.New()

		Convey("When scores are [1,2,2]", func() {
			in := calc.Tactic(row("Trust", 1, 1, 2, 2), companies)

			Convey("Then the tactic is uncontested, not a battleground", func() {
				So(in.AvgScore, ShouldEqual, 1.67)
				So(in.MinScore, ShouldEqual, 1)
				So(in.MaxScore, ShouldEqual, 2)
				So(in.StdDev, ShouldEqual, 0.58)
				So(in.LowScorers, ShouldEqual, 3)
				So(in.HighScorers, ShouldEqual, 0)
				So(in.IsUncontested, ShouldBeTrue)
				So(in.IsBattleground, ShouldBeFalse)
				So(in.IsMixed, ShouldBeFalse)
				So(in.Highlight(), ShouldEqual, model.HighlightUncontested)
			})
		})

		Convey("When scores are [5,5,4]", func() {
			in := calc.Tactic(row("Trust", 2, 5, 5, 4), companies)

			Convey("Then the tactic is a battleground, not uncontested", func() {
				So(in.AvgScore, ShouldEqual, 4.67)
				So(in.HighScorers, ShouldEqual, 3)
				So(in.IsBattleground, ShouldBeTrue)
				So(in.IsUncontested, ShouldBeFalse)
				So(in.Highlight(), ShouldEqual, model.HighlightBattleground)
			})
		})

		Convey("When scores are spread across the scale", func() {
			in := calc.Tactic(row("Trust", 3, 1, 5, 5), companies)

			Convey("Then the tactic is mixed but not bordered", func() {
				So(in.StdDev, ShouldEqual, 2.31)
				So(in.IsMixed, ShouldBeTrue)
				So(in.IsUncontested, ShouldBeFalse)
				So(in.IsBattleground, ShouldBeFalse)
				So(in.Highlight(), ShouldEqual, model.HighlightNone)
			})
		})

		Convey("When scores sit strictly between the thresholds", func() {
			in := calc.Tactic(row("Trust", 4, 3, 3, 3), companies)

			Convey("Then they count as neither high nor low", func() {
				So(in.HighScorers, ShouldEqual, 0)
				So(in.LowScorers, ShouldEqual, 0)
				So(in.StdDev, ShouldEqual, 0)
			})
		})

		Convey("When only one company scored the tactic", func() {
			in := calc.Tactic(row("Trust", 5, 0, 4, 0), companies)

			Convey("Then the spread is undefined and absent scores are skipped", func() {
				So(in.AvgScore, ShouldEqual, 4)
				So(math.IsNaN(in.StdDev), ShouldBeTrue)
				So(in.IsMixed, ShouldBeFalse)
				So(in.IsBattleground, ShouldBeTrue)
			})
		})

		Convey("When low scorers reach the share without a low average", func() {
			// 7 of 10 companies at 2, three at 5: avg 2.9, low share exactly 0.7.
			many := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
			r := model.TacticRow{TacticKey: model.TacticKey{Theme: "T", TacticID: 1}, Scores: map[string]int{}}
			for i, c := range many {
				r.Scores[c] = 2
				if i >= 7 {
					r.Scores[c] = 5
				}
			}
			in := calc.Tactic(r, many)

			Convey("Then the share clause alone marks it uncontested", func() {
				So(in.AvgScore, ShouldEqual, 2.9)
				So(in.LowScorers, ShouldEqual, 7)
				So(in.IsUncontested, ShouldBeTrue)
			})
		})
	})

	Convey("Given thresholds under which both flags can hold", t, func() {
		calc := insight.New(insight.WithBattlegroundMinAvg(1.5))

		Convey("When a tactic has a low average", func() {
			in := calc.Tactic(row("Trust", 6, 2, 2, 2), companies)

			Convey("Then the flags are evaluated independently and uncontested borders first", func() {
				So(in.IsUncontested, ShouldBeTrue)
				So(in.IsBattleground, ShouldBeTrue)
				So(in.Highlight(), ShouldEqual, model.HighlightUncontested)
			})
		})
	})
}

func TestCalculatorInvariants(t *testing.T) {
	Convey("Given every score combination of three companies", t, func() {
		calc := insight.New()
		n := len(companies)

		Convey("Then the documented invariants hold for each", func() {
			for a := 1; a <= 5; a++ {
				for b := 1; b <= 5; b++ {
					for c := 1; c <= 5; c++ {
						in := calc.Tactic(row("T", 1, a, b, c), companies)
						So(in.AvgScore, ShouldBeGreaterThanOrEqualTo, float64(in.MinScore))
						So(in.AvgScore, ShouldBeLessThanOrEqualTo, float64(in.MaxScore))
						So(math.IsNaN(in.StdDev) || in.StdDev >= 0, ShouldBeTrue)
						So(in.HighScorers+in.LowScorers, ShouldBeLessThanOrEqualTo, n)
						So(in.IsUncontested, ShouldEqual, in.AvgScore <= 2 || float64(in.LowScorers) >= 0.7*float64(n))
						So(in.IsBattleground, ShouldEqual, in.AvgScore >= 4)
					}
				}
			}
		})
	})
}

func TestCalculate(t *testing.T) {
	Convey("Given a matrix", t, func() {
		m := &model.ScoreMatrix{
			Companies: companies,
			Rows: []model.TacticRow{
				row("Onboarding", 1, 1, 1, 1),
				row("Onboarding", 2, 5, 5, 5),
				row("Trust", 3, 2, 1, 1),
				row("Trust", 4, 4, 4, 5),
				row("Trust", 5, 3, 3, 3),
			},
		}
		insights := insight.New().Calculate(context.Background(), m)

		Convey("Then one insight per row is produced in row order", func() {
			So(len(insights), ShouldEqual, 5)
			So(insights[0].TacticID, ShouldEqual, 1)
			So(insights[4].TacticID, ShouldEqual, 5)
		})

		Convey("When listing uncontested tactics", func() {
			got := insight.Uncontested(insights, 15)

			Convey("Then they are sorted by ascending average, ties in row order", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].TacticID, ShouldEqual, 1)
				So(got[1].TacticID, ShouldEqual, 3)
			})
		})

		Convey("When listing battlegrounds with a limit", func() {
			got := insight.Battlegrounds(insights, 1)

			Convey("Then the highest average comes first and the list is capped", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0].TacticID, ShouldEqual, 2)
				So(got[0].AvgScore, ShouldEqual, 5)
			})
		})

		Convey("When averaging themes", func() {
			got := insight.ThemeAverages(insights)

			Convey("Then themes are sorted by descending average", func() {
				So(got, ShouldResemble, []model.ThemeAverage{
					{Theme: "Onboarding", Avg: 3},
					{Theme: "Trust", Avg: 2.89},
				})
			})
		})

		Convey("When counting flags", func() {
			u, b, mixed := insight.Counts(insights)

			Convey("Then every flag is tallied", func() {
				So(u, ShouldEqual, 2)
				So(b, ShouldEqual, 2)
				So(mixed, ShouldEqual, 0)
				So(insight.Mixed(insights), ShouldBeEmpty)
			})
		})

		Convey("When summarizing companies", func() {
			stats := insight.Companies(m)

			Convey("Then each company has overall and per-theme averages", func() {
				So(len(stats), ShouldEqual, 3)
				So(stats[0].Company, ShouldEqual, "Acme")
				So(stats[0].TacticsScored, ShouldEqual, 5)
				So(stats[0].OverallAvg, ShouldEqual, 3)
				So(stats[0].ThemeAvgs["Onboarding"], ShouldEqual, 3)
				So(stats[0].ThemeAvgs["Trust"], ShouldEqual, 3)
			})
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Given values to round", t, func() {
		So(insight.Round2(5.0/3.0), ShouldEqual, 1.67)
		So(insight.Round2(14.0/3.0), ShouldEqual, 4.67)
		So(insight.Round2(0.125), ShouldEqual, 0.12)
		So(insight.Round2(2), ShouldEqual, 2)
	})
}
