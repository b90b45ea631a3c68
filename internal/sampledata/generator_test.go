package sampledata_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/steelesean/Design-Automation/internal/adapters/repository"
	"github.com/steelesean/Design-Automation/internal/sampledata"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallConfig() *sampledata.Config {
	cfg := sampledata.DefaultConfig()
	cfg.Companies = 4
	cfg.Themes = 3
	cfg.TacticsPerTheme = 5
	cfg.MissingRate = 0.1
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given a small generator config", t, func() {
		ctx := context.Background()
		cfg := smallConfig()

		Convey("When generating an audit", func() {
			records, err := sampledata.Generate(ctx, cfg)

			Convey("Then there is one record per tactic and company", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 3*5*4)
				So(records[0].TacticID, ShouldEqual, 1)
				So(records[len(records)-1].TacticID, ShouldEqual, 15)
			})

			Convey("Then every score is on the audit scale", func() {
				for _, r := range records {
					if r.HasScore {
						So(r.Score, ShouldBeBetweenOrEqual, 1, 5)
					}
				}
			})

			Convey("Then the same seed gives the same audit", func() {
				again, err := sampledata.Generate(ctx, cfg)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, records)
			})
		})

		Convey("When asking for more companies than there are names", func() {
			cfg.Companies = 14
			records, err := sampledata.Generate(ctx, cfg)

			Convey("Then repeated names are numbered", func() {
				So(err, ShouldBeNil)
				So(records[12].Company, ShouldEqual, "Acme 2")
			})
		})

		Convey("When the config is out of range", func() {
			cfg.MissingRate = 1

			Convey("Then generation is refused", func() {
				_, err := sampledata.Generate(ctx, cfg)
				So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given generated records", t, func() {
		ctx := context.Background()
		records, err := sampledata.Generate(ctx, smallConfig())
		So(err, ShouldBeNil)

		Convey("When written and loaded back", func() {
			var buf bytes.Buffer
			So(sampledata.WriteCSV(&buf, records), ShouldBeNil)
			loaded, err := repository.NewLoader().Read(ctx, &buf)

			Convey("Then the loader sees the same records", func() {
				So(err, ShouldBeNil)
				So(loaded, ShouldResemble, records)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given an output path in a missing directory", t, func() {
		cfg := smallConfig()
		cfg.OutputFile = filepath.Join(t.TempDir(), "audits", "audit.csv")

		Convey("When running the generator", func() {
			err := sampledata.Run(context.Background(), cfg)

			Convey("Then the CSV is written", func() {
				So(err, ShouldBeNil)
				info, err := os.Stat(cfg.OutputFile)
				So(err, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})
		})
	})
}
