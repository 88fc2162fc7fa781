package utils

import (
	"github.com/schollz/progressbar/v3"
)

// NewBar returns a terminal progress bar, or nil when disabled. The Bar*
// helpers accept nil so call sites stay unconditional.
func NewBar(enabled bool, max int64, description string) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	return progressbar.Default(max, description)
}

func BarSet(bar *progressbar.ProgressBar, v int64) {
	if bar != nil {
		_ = bar.Set64(v)
	}
}

func BarDone(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
