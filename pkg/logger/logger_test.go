package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"ttscraper/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "shouting"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && l == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	l, err := New(&config.LoggingConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New() with file output: %v", err)
	}
	if l == nil {
		t.Fatal("New() returned nil logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, false},
		{"invalid", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zlog := zerolog.New(&buf).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	l := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	t.Run("Debug", func(t *testing.T) {
		buf.Reset()
		l.Debug("debug message")
		if !strings.Contains(buf.String(), "debug message") {
			t.Error("Debug message not found in output")
		}
	})

	t.Run("Info", func(t *testing.T) {
		buf.Reset()
		l.Info("info message")
		if !strings.Contains(buf.String(), "info message") {
			t.Error("Info message not found in output")
		}
	})

	t.Run("Warn", func(t *testing.T) {
		buf.Reset()
		l.Warn("warn message")
		if !strings.Contains(buf.String(), "warn message") {
			t.Error("Warn message not found in output")
		}
	})

	t.Run("Error", func(t *testing.T) {
		buf.Reset()
		l.Error("error message")
		if !strings.Contains(buf.String(), "error message") {
			t.Error("Error message not found in output")
		}
	})
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).With().Timestamp().Logger()
	l := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	l.WithField("run_id", "abc123").Info("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("Message not found in output")
	}
	if !strings.Contains(output, `"run_id":"abc123"`) {
		t.Error("Field not found in output")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).With().Timestamp().Logger()
	l := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	l.WithFields(map[string]interface{}{
		"hashtag": "cats",
		"count":   42,
		"ok":      true,
	}).Info("test message")

	output := buf.String()
	for _, want := range []string{`"hashtag":"cats"`, `"count":42`, `"ok":true`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s: %s", want, output)
		}
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).Logger()
	parent := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	_ = parent.WithField("child_only", "yes")
	parent.Info("from parent")

	if strings.Contains(buf.String(), "child_only") {
		t.Error("child field leaked into parent logger")
	}
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	zlog := zerolog.New(&buf).Logger()
	l := &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}

	l.WithError(nil).Info("no error attached")
	if strings.Contains(buf.String(), `"error"`) {
		t.Error("nil error must not add an error field")
	}
}

func TestTestLoggerCapture(t *testing.T) {
	tl := NewTestLogger()

	tl.Info("plain message")
	tl.WithField("dataset_id", "ds1").Warn("field message")
	tl.WithError(errors.New("boom")).Error("error message")

	if !tl.HasMessage("plain message") {
		t.Error("plain message not captured")
	}
	if got := len(tl.GetMessagesByLevel("WARN")); got != 1 {
		t.Errorf("WARN count = %d, want 1", got)
	}
	if !tl.HasError() {
		t.Error("error message not captured")
	}

	msgs := tl.GetMessages()
	if len(msgs) != 3 {
		t.Fatalf("captured %d messages, want 3", len(msgs))
	}
	if msgs[1].Fields["dataset_id"] != "ds1" {
		t.Errorf("field not carried: %v", msgs[1].Fields)
	}

	tl.Clear()
	if len(tl.GetMessages()) != 0 {
		t.Error("Clear() left messages behind")
	}
}
