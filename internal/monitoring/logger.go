package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Progress reports long-running batch work in roughly 10% steps.
type Progress struct {
	Label string
	Total int

	lastDecile int
}

// NewProgress returns a Progress for total units of work.
func NewProgress(label string, total int) *Progress {
	return &Progress{Label: label, Total: total, lastDecile: -1}
}

// Update logs when done crosses into a new 10% band. It is not safe for
// concurrent use; callers serialise updates.
func (p *Progress) Update(done int) {
	if p.Total <= 0 {
		return
	}
	decile := done * 10 / p.Total
	if decile == p.lastDecile {
		return
	}
	p.lastDecile = decile
	Logf("%s: %d/%d (%.0f%%)", p.Label, done, p.Total, 100*float64(done)/float64(p.Total))
}
