package render

import "errors"

// ErrRender is returned when the heatmap cannot be produced.
var ErrRender = errors.New("render heatmap failed")
