package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("collapsed", "node", "svc") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("hid", "id", "e1") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("hid", "id", "e1") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("overlaps remain") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Laid out", "nodes", 3, "mode", layoutLocal)

	out := buf.String()
	for _, want := range []string{"Laid out", "nodes=3", "mode=local", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output = %q, want %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext() should return the attached logger")
	}
	got.Info("test")
	if buf.Len() == 0 {
		t.Error("attached logger should write to its buffer")
	}
}
