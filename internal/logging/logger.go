package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is a buffered, non-blocking file logger. Lines are dropped rather
// than blocking an event handler when the buffer is full.
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	path    string
	output  *os.File
	written int64
	maxSize int64
	logChan chan string
	wg      sync.WaitGroup
}

func NewLogger(level LogLevel, path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	l := &Logger{
		level:   level,
		path:    path,
		output:  file,
		written: info.Size(),
		maxSize: 32 * 1024 * 1024,
		logChan: make(chan string, 4096),
	}

	l.wg.Add(1)
	go l.worker()

	return l, nil
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for line := range l.logChan {
		l.mu.Lock()
		n, _ := l.output.WriteString(line)
		l.written += int64(n)
		if l.written >= l.maxSize {
			l.rotate()
		}
		l.mu.Unlock()
	}
}

// rotate renames the current file to .old and starts a fresh one. Called with
// l.mu held.
func (l *Logger) rotate() {
	l.output.Close()
	os.Rename(l.path, l.path+".old")
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Keep logging to the console if the file cannot be reopened.
		l.output = os.Stderr
		l.written = 0
		return
	}
	l.output = file
	l.written = 0
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp, levelString(level), message)

	if level >= LevelWarn {
		fmt.Fprint(os.Stderr, line)
	}

	select {
	case l.logChan <- line:
	default:
		// Buffer full, drop the line.
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func levelString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Close() error {
	close(l.logChan)
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.output != os.Stderr {
		return l.output.Close()
	}
	return nil
}

var globalLogger *Logger

func InitGlobalLogger(level LogLevel, path string) error {
	logger, err := NewLogger(level, path)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

func CloseGlobalLogger() {
	if globalLogger != nil {
		globalLogger.Close()
		globalLogger = nil
	}
}

func Debug(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Error(format, args...)
	}
}
