package bmslog

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := GetLogLevel()
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		SetLogLevel(savedLevel.String())
	})
	return &buf
}

func TestInfof_PercentInPlainMessage(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("info")

	// a prebuilt message, passed through a func value so vet does not treat it as a format
	msg := "loaded /data/cell 100%.log"
	info := Infof
	info(msg)

	out := buf.String()
	if !strings.Contains(out, "cell 100%.log") {
		t.Fatalf("log output missing literal percent: %s", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("warn")

	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("messages below warn should be dropped: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("expected warn and error lines: %s", out)
	}
}

func TestSetLogLevelIgnoresUnknown(t *testing.T) {
	captureLog(t)
	SetLogLevel("error")
	SetLogLevel("verbose")
	if GetLogLevel() != LevelError {
		t.Fatalf("unknown level should not change level, got %v", GetLogLevel())
	}
	if l, ok := ParseLogLevel(" Warning "); !ok || l != LevelWarn {
		t.Fatalf("ParseLogLevel(Warning) = %v,%v", l, ok)
	}
}

func TestLogLevelString(t *testing.T) {
	cases := map[LogLevel]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR", LogLevel(42): "INFO"}
	for l, want := range cases {
		if got := l.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q want %q", int32(l), got, want)
		}
		if l <= LevelError {
			if back, ok := ParseLogLevel(want); !ok || back != l {
				t.Errorf("ParseLogLevel(%q) = %v,%v", want, back, ok)
			}
		}
	}
}
