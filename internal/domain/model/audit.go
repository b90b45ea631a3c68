// Package model contains domain models passed between layers.
package model

import "strconv"

// AuditRecord is one scored (tactic, company) row of the long-format audit.
type AuditRecord struct {
	Theme      string
	TacticID   int
	TacticName string
	Company    string
	Score      int
	HasScore   bool // false when the Score cell was empty
}

// TacticKey identifies a tactic row of the score matrix.
type TacticKey struct {
	Theme    string
	TacticID int
	Label    string
}

// Key returns the matrix key of the record's tactic.
func (r AuditRecord) Key() TacticKey {
	return TacticKey{Theme: r.Theme, TacticID: r.TacticID, Label: TacticLabel(r.TacticID, r.TacticName)}
}

// TacticLabel renders the "<id>. <name>" label used in charts and exports.
func TacticLabel(id int, name string) string {
	return strconv.Itoa(id) + ". " + name
}

// TacticRow is one row of the score matrix: a tactic and its per-company scores.
// Companies without a score are absent from Scores.
type TacticRow struct {
	TacticKey
	Scores map[string]int
}

// Score returns the company's score and whether one exists.
func (r TacticRow) Score(company string) (int, bool) {
	s, ok := r.Scores[company]
	return s, ok
}

// ScoreMatrix is the wide view of the audit: rows sorted by theme, tactic id
// and label; companies sorted by name.
type ScoreMatrix struct {
	Companies []string
	Rows      []TacticRow
}

// Themes returns the row themes in row order.
func (m *ScoreMatrix) Themes() []string {
	themes := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		themes[i] = r.Theme
	}
	return themes
}

// Dataset bundles the raw records with the matrix derived from them.
type Dataset struct {
	Records []AuditRecord
	Matrix  ScoreMatrix
}

// ThemeNames returns each distinct theme once, in row order.
func (m *ScoreMatrix) ThemeNames() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range m.Rows {
		if _, ok := seen[r.Theme]; ok {
			continue
		}
		seen[r.Theme] = struct{}{}
		out = append(out, r.Theme)
	}
	return out
}
