package report

import "errors"

// ErrWorkbook is returned when the XLSX export cannot be built.
var ErrWorkbook = errors.New("build workbook failed")
