package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})

	var tests = []struct {
		name  string
		level Level
		log   func(string, ...interface{})
		label string
		shown bool
	}{
		{"error at info", LevelInfo, Error, errorLabel, true},
		{"info at info", LevelInfo, Info, infoLabel, true},
		{"debug at info", LevelInfo, Debug, debugLabel, false},
		{"debug at debug", LevelDebug, Debug, debugLabel, true},
		{"warn at info", LevelInfo, Warn, warnLabel, true},
		{"warn at error", LevelError, Warn, warnLabel, false},
		{"error at error", LevelError, Error, errorLabel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)
			tt.log("read %d collections", 3)
			out := buf.String()
			if tt.shown != strings.Contains(out, tt.label+"read 3 collections") {
				t.Errorf("\ngot output %q, wanted shown=%v", out, tt.shown)
			}
		})
	}
}
