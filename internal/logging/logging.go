package logging

import (
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes orchestration audit lines to a rotating file. Console
// output stays with the commands; this log exists so generation runs and
// fallbacks can be reconstructed after the fact.
type Logger struct {
	logger *log.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton audit logger writing to path. The path from
// the first call wins.
func Get(path string) *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(logFile, "", log.LstdFlags),
		}
	})
	return globalLogger
}

// Run logs the start or outcome of an orchestration run
func (l *Logger) Run(format string, args ...any) {
	l.logger.Printf("run: "+format, args...)
}

// Fallback logs engagement of the deterministic generator
func (l *Logger) Fallback(format string, args ...any) {
	l.logger.Printf("fallback: "+format, args...)
}

// Warn logs a non-fatal degradation
func (l *Logger) Warn(format string, args ...any) {
	l.logger.Printf("warning: "+format, args...)
}

// Close closes the underlying log file
func (l *Logger) Close() error {
	if logFile, ok := l.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}
