package monitoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	prev := Logf
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { Logf = prev })
	return &lines
}

func TestSetLoggerNil(t *testing.T) {
	prev := Logf
	t.Cleanup(func() { Logf = prev })

	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("dropped %d", 1) })
}

func TestProgressLogsEachDecileOnce(t *testing.T) {
	lines := captureLogs(t)

	p := NewProgress("synthesize", 100)
	for i := 1; i <= 100; i++ {
		p.Update(i)
	}
	// 1..9 fall in decile 0, then one line per decile 1..10.
	assert.Len(t, *lines, 11)
	assert.Equal(t, "synthesize: 100/100 (100%)", (*lines)[len(*lines)-1])
}

func TestProgressZeroTotal(t *testing.T) {
	lines := captureLogs(t)
	NewProgress("empty", 0).Update(0)
	assert.Empty(t, *lines)
}
