package sampledata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/steelesean/Design-Automation/internal/domain/model"
)

// Header is the column order of generated audits.
var Header = []string{"Theme", "Tactic_ID", "Tactic_Name", "Company", "Score", "Evidence"}

var evidence = [maxScore + 1]string{
	1: "No evidence found",
	2: "Mentioned but not implemented",
	3: "Partially implemented",
	4: "Implemented well",
	5: "Best in class",
}

// WriteCSV writes records in the long audit format. Unscored records get an
// empty Score and Evidence.
func WriteCSV(w io.Writer, records []model.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		score, note := "", ""
		if r.HasScore {
			score = strconv.Itoa(r.Score)
			if r.Score >= minScore && r.Score <= maxScore {
				note = evidence[r.Score]
			}
		}
		row := []string{r.Theme, strconv.Itoa(r.TacticID), r.TacticName, r.Company, score, note}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d/%s: %w", r.TacticID, r.Company, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
