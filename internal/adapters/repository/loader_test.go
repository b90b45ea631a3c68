package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/steelesean/Design-Automation/internal/adapters/repository"
	"github.com/steelesean/Design-Automation/internal/domain/dedupe"
)

const auditCSV = `Theme,Tactic_ID,Tactic_Name,Company,Score,Evidence
Trust,12,Reviews,Globex,4,"quoted, with comma"
Onboarding,3,Free trial,Acme,5,
Onboarding,3,Free trial,Globex,2,
Trust,12,Reviews,Acme,,
Onboarding,1,Signup,Globex,1,
Onboarding,1,Signup,Acme,3.0,
Onboarding,3,Free trial,Acme,1,duplicate
Trust,7,Badges,Initech,,
`

func TestLoaderRead(t *testing.T) {
	Convey("Given a loader", t, func() {
		ctx := context.Background()
		l := repository.NewLoader()

		Convey("When reading a well-formed audit", func() {
			records, err := l.Read(ctx, strings.NewReader(auditCSV))

			Convey("Then every row becomes a record and empty scores are kept unscored", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 8)
				So(records[0].Theme, ShouldEqual, "Trust")
				So(records[0].TacticID, ShouldEqual, 12)
				So(records[0].Score, ShouldEqual, 4)
				So(records[0].HasScore, ShouldBeTrue)
				So(records[3].HasScore, ShouldBeFalse)
				So(records[5].Score, ShouldEqual, 3)
			})
		})

		Convey("When a required column is absent", func() {
			_, err := l.Read(ctx, strings.NewReader("Theme,Tactic_ID,Company,Score\nT,1,Acme,3\n"))

			Convey("Then the missing column is reported", func() {
				So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Tactic_Name")
			})
		})

		Convey("When the input is empty", func() {
			_, err := l.Read(ctx, strings.NewReader(""))

			Convey("Then no columns are found", func() {
				So(errors.Is(err, repository.ErrMissingColumn), ShouldBeTrue)
			})
		})

		Convey("When a score is not an integer", func() {
			_, err := l.Read(ctx, strings.NewReader("Theme,Tactic_ID,Tactic_Name,Company,Score\nT,1,A,Acme,3\nT,2,B,Acme,high\n"))

			Convey("Then the row is malformed and its line is named", func() {
				So(errors.Is(err, repository.ErrMalformedRow), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "line 3")
			})
		})

		Convey("When a tactic id is fractional", func() {
			_, err := l.Read(ctx, strings.NewReader("Theme,Tactic_ID,Tactic_Name,Company,Score\nT,1.5,A,Acme,3\n"))

			Convey("Then the row is malformed", func() {
				So(errors.Is(err, repository.ErrMalformedRow), ShouldBeTrue)
			})
		})

		Convey("When a row has the wrong field count", func() {
			_, err := l.Read(ctx, strings.NewReader("Theme,Tactic_ID,Tactic_Name,Company,Score\nT,1,A,Acme\n"))

			Convey("Then the CSV is malformed", func() {
				So(errors.Is(err, repository.ErrMalformedRow), ShouldBeTrue)
			})
		})
	})
}

func TestLoaderPivot(t *testing.T) {
	Convey("Given records with gaps and duplicates", t, func() {
		ctx := context.Background()
		var dupes []dedupe.CellKey
		l := repository.NewLoader(repository.WithDeduper(func() dedupe.Deduper {
			return dedupe.New(dedupe.WithDuplicateHook(func(_ context.Context, key dedupe.CellKey) {
				dupes = append(dupes, key)
			}))
		}))
		records, err := l.Read(ctx, strings.NewReader(auditCSV))
		So(err, ShouldBeNil)

		m := l.Pivot(ctx, records)

		Convey("Then companies are sorted and only scored ones appear", func() {
			So(m.Companies, ShouldResemble, []string{"Acme", "Globex"})
		})

		Convey("Then rows are sorted by theme then tactic id", func() {
			So(len(m.Rows), ShouldEqual, 3)
			So(m.Rows[0].Label, ShouldEqual, "1. Signup")
			So(m.Rows[1].Label, ShouldEqual, "3. Free trial")
			So(m.Rows[2].Label, ShouldEqual, "12. Reviews")
			So(m.Themes(), ShouldResemble, []string{"Onboarding", "Onboarding", "Trust"})
		})

		Convey("Then the first score of a cell wins", func() {
			s, ok := m.Rows[1].Score("Acme")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, 5)
			So(len(dupes), ShouldEqual, 1)
			So(dupes[0].Company, ShouldEqual, "Acme")
		})

		Convey("Then unscored cells are absent", func() {
			_, ok := m.Rows[2].Score("Acme")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestLoaderLoad(t *testing.T) {
	Convey("Given an audit file on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "audit.csv")
		So(os.WriteFile(path, []byte(auditCSV), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			ds, err := repository.NewLoader().Load(ctx, path)

			Convey("Then records and matrix are both returned", func() {
				So(err, ShouldBeNil)
				So(len(ds.Records), ShouldEqual, 8)
				So(len(ds.Matrix.Rows), ShouldEqual, 3)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := repository.NewLoader().Load(ctx, filepath.Join(t.TempDir(), "missing.csv"))

			Convey("Then the open error propagates", func() {
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})
	})
}
