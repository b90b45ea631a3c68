package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/steelesean/Design-Automation/internal/config"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

func init() {
	_ = logger.Init()
}

const auditCSV = `Theme,Tactic_ID,Tactic_Name,Company,Score
Onboarding,1,Signup,Acme,1
Onboarding,1,Signup,Globex,2
Trust,2,Reviews,Acme,5
Trust,2,Reviews,Globex,4
`

func writeAudit(dir string) string {
	path := filepath.Join(dir, "audit.csv")
	if err := os.WriteFile(path, []byte(auditCSV), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestApplyFlags(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		cmd := newRootCmd()
		cfg := config.New()

		convey.Convey("When no flags are set", func() {
			convey.So(cmd.ParseFlags(nil), convey.ShouldBeNil)
			applyFlags(cmd, flags{input: "ignored.csv"}, cfg)

			convey.Convey("Then the configuration is untouched", func() {
				convey.So(cfg.InputFile, convey.ShouldEqual, config.New().InputFile)
				convey.So(cfg.WriteWorkbook, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When every override is set", func() {
			f := flags{input: "in.csv", outputDir: "out", logLevel: "debug", workbook: true}
			convey.So(cmd.ParseFlags([]string{"--input", "in.csv", "--output-dir", "out", "--log-level", "debug", "--xlsx"}), convey.ShouldBeNil)
			applyFlags(cmd, f, cfg)

			convey.Convey("Then the flags win over the loaded values", func() {
				convey.So(cfg.InputFile, convey.ShouldEqual, "in.csv")
				convey.So(cfg.OutputDir, convey.ShouldEqual, "out")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.WriteWorkbook, convey.ShouldBeTrue)
			})
		})
	})
}

func TestRootCommand(t *testing.T) {
	t.Setenv("AUDIT_IMAGE_DPI", "20")
	convey.Convey("Given an audit file and an output directory", t, func() {
		dir := t.TempDir()
		input := writeAudit(dir)
		outDir := filepath.Join(dir, "insights")

		run := func(args ...string) (string, error) {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(args)
			err := cmd.ExecuteContext(context.Background())
			return out.String(), err
		}

		convey.Convey("When the command runs", func() {
			out, err := run("--input", input, "--output-dir", outDir, "--xlsx")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then every output is written", func() {
				for _, name := range []string{"competitive-heatmap.png", "competitive-insights.csv", "competitive-company-stats.csv", "competitive-insights.xlsx"} {
					_, statErr := os.Stat(filepath.Join(outDir, name))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})

			convey.Convey("Then the summary is printed", func() {
				convey.So(out, convey.ShouldContainSubstring, "DATASET: 2 companies × 2 tactics")
				convey.So(out, convey.ShouldContainSubstring, "✓ Analysis complete!")
			})
		})

		convey.Convey("When the input does not exist", func() {
			_, err := run("--input", filepath.Join(dir, "missing.csv"), "--output-dir", outDir)

			convey.Convey("Then the command fails without writing outputs", func() {
				convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
				_, statErr := os.Stat(outDir)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a flag empties a required setting", func() {
			_, err := run("--input", input, "--output-dir", "")

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When positional arguments are passed", func() {
			_, err := run("extra")

			convey.Convey("Then the command refuses them", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
