package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/steelesean/Design-Automation/internal/domain/dedupe"
	"github.com/steelesean/Design-Automation/internal/domain/model"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

// Input columns. Any other column is ignored.
const (
	ColTheme      = "Theme"
	ColTacticID   = "Tactic_ID"
	ColTacticName = "Tactic_Name"
	ColCompany    = "Company"
	ColScore      = "Score"
)

var requiredColumns = []string{ColTheme, ColTacticID, ColTacticName, ColCompany, ColScore}

// Loader reads long-format audit CSVs and pivots them into a score matrix.
type Loader struct {
	opts options
}

// NewLoader creates a loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{opts: o}
}

// Load reads the audit file at path and returns its records and matrix.
func (l *Loader) Load(ctx context.Context, path string) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := l.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read audit %s: %w", path, err)
	}

	ds := &model.Dataset{Records: records, Matrix: l.Pivot(ctx, records)}
	l.opts.logger.Debug(ctx, "audit loaded",
		logger.String("path", path),
		logger.Int("records", len(records)),
		logger.Int("tactics", len(ds.Matrix.Rows)),
		logger.Int("companies", len(ds.Matrix.Companies)),
	)
	return ds, nil
}

// Read decodes audit records from r. The first line must be a header naming
// every required column.
func (l *Loader) Read(ctx context.Context, r io.Reader) ([]model.AuditRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.AuditRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		rec, err := parseRecord(row, idx)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Pivot builds the score matrix. Unscored records are skipped, the first score
// of a (tactic, company) cell wins, and tactics or companies without any score
// are left out.
func (l *Loader) Pivot(ctx context.Context, records []model.AuditRecord) model.ScoreMatrix {
	seen := l.opts.newDeduper()
	rows := make(map[model.TacticKey]*model.TacticRow)
	companies := make(map[string]struct{})

	for _, rec := range records {
		if !rec.HasScore {
			continue
		}
		key := rec.Key()
		if seen.SeenAndRecord(ctx, dedupe.CellKey{Tactic: key, Company: rec.Company}) {
			continue
		}
		row, ok := rows[key]
		if !ok {
			row = &model.TacticRow{TacticKey: key, Scores: make(map[string]int)}
			rows[key] = row
		}
		row.Scores[rec.Company] = rec.Score
		companies[rec.Company] = struct{}{}
	}

	if n := seen.Duplicates(); n > 0 {
		l.opts.logger.Warn(ctx, "duplicate audit cells ignored", logger.Int("duplicates", n))
	}

	m := model.ScoreMatrix{
		Companies: make([]string, 0, len(companies)),
		Rows:      make([]model.TacticRow, 0, len(rows)),
	}
	for c := range companies {
		m.Companies = append(m.Companies, c)
	}
	sort.Strings(m.Companies)

	for _, row := range rows {
		m.Rows = append(m.Rows, *row)
	}
	sort.Slice(m.Rows, func(i, j int) bool {
		a, b := m.Rows[i], m.Rows[j]
		if a.Theme != b.Theme {
			return a.Theme < b.Theme
		}
		if a.TacticID != b.TacticID {
			return a.TacticID < b.TacticID
		}
		return a.Label < b.Label
	})
	return m
}

type columns struct {
	theme, tacticID, tacticName, company, score int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return columns{
		theme:      pos[ColTheme],
		tacticID:   pos[ColTacticID],
		tacticName: pos[ColTacticName],
		company:    pos[ColCompany],
		score:      pos[ColScore],
	}, nil
}

func parseRecord(row []string, idx columns) (model.AuditRecord, error) {
	rec := model.AuditRecord{
		Theme:      row[idx.theme],
		TacticName: row[idx.tacticName],
		Company:    row[idx.company],
	}

	id, ok, err := parseInt(row[idx.tacticID])
	if err != nil || !ok {
		return rec, fmt.Errorf("%s %q is not an integer", ColTacticID, row[idx.tacticID])
	}
	rec.TacticID = id

	score, ok, err := parseInt(row[idx.score])
	if err != nil {
		return rec, fmt.Errorf("%s %q is not an integer", ColScore, row[idx.score])
	}
	rec.Score, rec.HasScore = score, ok
	return rec, nil
}

// parseInt accepts integers and integral floats such as "3.0". An empty cell
// reports ok=false.
func parseInt(s string) (v int, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false, strconv.ErrSyntax
	}
	return int(f), true, nil
}
