package report_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/steelesean/Design-Automation/internal/adapters/report"
	"github.com/steelesean/Design-Automation/internal/domain/insight"
	"github.com/steelesean/Design-Automation/internal/domain/model"
)

func tactic(theme string, id int, name string, scores map[string]int) model.TacticRow {
	return model.TacticRow{
		TacticKey: model.TacticKey{Theme: theme, TacticID: id, Label: model.TacticLabel(id, name)},
		Scores:    scores,
	}
}

func fixture() report.Summary {
	m := &model.ScoreMatrix{
		Companies: []string{"Acme", "Globex", "Initech"},
		Rows: []model.TacticRow{
			tactic("Onboarding and Activation", 1, "Signup", map[string]int{"Acme": 1, "Globex": 2, "Initech": 2}),
			tactic("Onboarding and Activation", 2, "Trial", map[string]int{"Acme": 3, "Globex": 3, "Initech": 3}),
			tactic("Trust", 3, "Reviews", map[string]int{"Acme": 5, "Globex": 5, "Initech": 4}),
		},
	}
	return report.Summary{
		Matrix:    m,
		Insights:  insight.New().Calculate(context.Background(), m),
		Companies: insight.Companies(m),
	}
}

func TestConsoleSummary(t *testing.T) {
	Convey("Given a console writing to a buffer", t, func() {
		var buf bytes.Buffer
		c := report.NewConsole(&buf)

		Convey("When printing the summary", func() {
			So(c.Summary(fixture()), ShouldBeNil)
			out := buf.String()

			Convey("Then the dataset header counts companies and tactics", func() {
				So(out, ShouldContainSubstring, "COMPETITIVE AUDIT ANALYSIS")
				So(out, ShouldContainSubstring, "DATASET: 3 companies × 3 tactics")
				So(out, ShouldContainSubstring, "   Companies: Acme, Globex, Initech\n")
			})

			Convey("Then tactic lines truncate the theme and pad the label", func() {
				So(out, ShouldContainSubstring, "   [Onboarding and ] 1. Signup"+strings.Repeat(" ", 36)+" Avg: 1.67\n")
				So(out, ShouldContainSubstring, "   [Trust          ] 3. Reviews"+strings.Repeat(" ", 35)+" Avg: 4.67\n")
			})

			Convey("Then theme averages carry a proportional bar", func() {
				So(out, ShouldContainSubstring, "   Trust                          4.67 "+strings.Repeat("█", 18)+"\n")
			})

			Convey("Then company performance is ranked", func() {
				So(out, ShouldContainSubstring, "COMPANY PERFORMANCE")
				So(strings.Index(out, "   Acme "), ShouldBeLessThan, strings.Index(out, "   Initech "))
			})
		})

		Convey("When nothing is classified", func() {
			s := fixture()
			s.Insights = s.Insights[1:2]
			So(c.Summary(s), ShouldBeNil)

			Convey("Then the empty messages are printed", func() {
				So(buf.String(), ShouldContainSubstring, "   No clear uncontested opportunities found.\n")
				So(buf.String(), ShouldContainSubstring, "   No clear battlegrounds found.\n")
			})
		})

		Convey("When the list limit is lower than the matches", func() {
			var limited bytes.Buffer
			s := fixture()
			s.Matrix.Rows = append(s.Matrix.Rows, tactic("Trust", 4, "Badges", map[string]int{"Acme": 4, "Globex": 4}))
			s.Insights = insight.New().Calculate(context.Background(), s.Matrix)
			So(report.NewConsole(&limited, report.WithLimit(1)).Summary(s), ShouldBeNil)

			Convey("Then only the top entry is listed", func() {
				So(limited.String(), ShouldContainSubstring, "3. Reviews")
				So(limited.String(), ShouldNotContainSubstring, "4. Badges")
			})
		})

		Convey("When reporting progress", func() {
			c.Progress("Loading audit data...")
			c.Saved("Heatmap", "out/competitive-heatmap.png")

			Convey("Then each message is one line", func() {
				So(buf.String(), ShouldEqual, "Loading audit data...\n✓ Heatmap saved to: out/competitive-heatmap.png\n")
			})
		})
	})
}

func TestWriteWorkbook(t *testing.T) {
	Convey("Given a summary", t, func() {
		s := fixture()
		wb := report.Workbook{
			Matrix:    s.Matrix,
			Insights:  s.Insights,
			Companies: s.Companies,
			Themes:    []string{"Onboarding and Activation", "Trust"},
		}

		Convey("When writing the workbook", func() {
			var buf bytes.Buffer
			err := report.WriteWorkbook(&buf, wb)
			So(err, ShouldBeNil)

			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()

			Convey("Then it holds the three sheets", func() {
				So(f.GetSheetList(), ShouldResemble, []string{report.SheetInsights, report.SheetScores, report.SheetCompanies})
			})

			Convey("Then the insights sheet mirrors the CSV columns", func() {
				rows, err := f.GetRows(report.SheetInsights)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 4)
				So(rows[0][0], ShouldEqual, "Theme")
				So(rows[0][11], ShouldEqual, "Is_Mixed")
				So(rows[1][2], ShouldEqual, "1. Signup")
				So(rows[1][3], ShouldEqual, "1.67")
			})

			Convey("Then the scores sheet names each row highlight", func() {
				v, err := f.GetCellValue(report.SheetScores, "F2")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "Uncontested")
				v, err = f.GetCellValue(report.SheetScores, "C4")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "5")
			})

			Convey("Then the companies sheet has a column per theme", func() {
				rows, err := f.GetRows(report.SheetCompanies)
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"Company", "Overall_Avg", "Tactics_Scored", "Onboarding and Activation", "Trust"})
				So(rows[1][0], ShouldEqual, "Acme")
			})
		})

		Convey("When the writer fails", func() {
			err := report.WriteWorkbook(failingWriter{}, wb)

			Convey("Then a workbook error is returned", func() {
				So(errors.Is(err, report.ErrWorkbook), ShouldBeTrue)
			})
		})
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
