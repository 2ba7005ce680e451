package bmslog

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel orders diagnostic output from the parser, the chart view and the shells.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// "warning" is accepted because the YAML config and the --log-level flag share this parser.
var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var (
	threshold  = int32(LevelInfo)
	baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// SetLogLevel sets the threshold by name. Unknown names leave it unchanged.
func SetLogLevel(name string) {
	if l, ok := ParseLogLevel(name); ok {
		atomic.StoreInt32(&threshold, int32(l))
	}
}

// ParseLogLevel maps debug, info, warn or error (any case) to a LogLevel.
func ParseLogLevel(name string) (LogLevel, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

func GetLogLevel() LogLevel { return LogLevel(atomic.LoadInt32(&threshold)) }

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return levelTags[LevelInfo]
	}
	return levelTags[l]
}

// logf prints msg untouched when there are no args: log messages often carry file paths, and
// a path like "cell 100%.log" must not go through fmt.
func logf(l LogLevel, msg string, args []interface{}) {
	if l < GetLogLevel() {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	baseLogger.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a) }

// TimeTrack is deferred by load and render paths: defer bmslog.TimeTrack(time.Now(), "parse").
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
}
