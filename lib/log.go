package lib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogDirectory = "logs"
	LogFileName  = "log"
)

/*
	Leveled, colored logging to stdout and an auto-rotating log file in the data directory.
	Component loggers share the same output and level but tag every line with a prefix.
*/

func init() {
	color.NoColor = false
}

// LoggerI defines the interface for various logging levels and formatted output
type LoggerI interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)
	Print(msg string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	WithPrefix(prefix string) LoggerI
}

const (
	DebugLevel int32 = -4
	InfoLevel  int32 = 0
	WarnLevel  int32 = 4
	ErrorLevel int32 = 8

	Reset = iota
	RED
	GREEN
	YELLOW
	BLUE
	GRAY
	MAGENTA
)

var (
	_ LoggerI = &Logger{}
)

// LoggerConfig holds configuration settings for the logger, including logging level and output writer
type LoggerConfig struct {
	Level int32 `json:"level"`
	Out   io.Writer
}

// Logger is the concrete implementation of LoggerI
type Logger struct {
	config LoggerConfig
	prefix string
}

func (l *Logger) Debug(msg string) { l.log(DebugLevel, BLUE, "DEBUG: ", msg) }
func (l *Logger) Info(msg string)  { l.log(InfoLevel, GREEN, "INFO: ", msg) }
func (l *Logger) Warn(msg string)  { l.log(WarnLevel, YELLOW, "WARN: ", msg) }
func (l *Logger) Error(msg string) { l.log(ErrorLevel, RED, "ERROR: ", msg) }

// Print() logs a message without any specific log level or color
func (l *Logger) Print(msg string) { l.write(msg) }

// Fatal() logs an error message and terminates the program
func (l *Logger) Fatal(msg string) {
	l.write(colorString(RED, "FATAL: "+l.tag(msg)))
	os.Exit(1)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(fmt.Sprintf(format, args...)) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.Fatal(fmt.Sprintf(format, args...)) }
func (l *Logger) Printf(format string, args ...interface{}) { l.Print(fmt.Sprintf(format, args...)) }

// WithPrefix() returns a logger sharing this logger's output and level that tags each line with a component name
func (l *Logger) WithPrefix(prefix string) LoggerI {
	if l.prefix != "" {
		prefix = l.prefix + "/" + prefix
	}
	return &Logger{config: l.config, prefix: prefix}
}

// log() filters by level and writes the colored line
func (l *Logger) log(level int32, c int, label, msg string) {
	if l.config.Level <= level {
		l.write(colorString(c, label+l.tag(msg)))
	}
}

// tag() prepends the component prefix if any
func (l *Logger) tag(msg string) string {
	if l.prefix == "" {
		return msg
	}
	return colorString(MAGENTA, "["+l.prefix+"] ") + msg
}

// write() outputs the log message with a timestamp to the configured writer
func (l *Logger) write(msg string) {
	timeColored := colorString(GRAY, time.Now().Format(time.StampMilli))
	if _, err := l.config.Out.Write([]byte(fmt.Sprintf("%s %s\n", timeColored, msg))); err != nil {
		fmt.Println(newLogError(err))
	}
}

// NewLogger() creates a new Logger instance with the specified configuration and optional data directory path
// if no writer is configured, output goes to stdout and a rotating file under <dataDir>/logs
func NewLogger(config LoggerConfig, dataDirPath ...string) LoggerI {
	if config.Out == nil {
		if dataDirPath == nil || dataDirPath[0] == "" {
			dataDirPath = []string{DefaultDataDirPath()}
		}
		logPath := filepath.Join(dataDirPath[0], LogDirectory, LogFileName)
		if _, err := os.Stat(logPath); errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(filepath.Join(dataDirPath[0], LogDirectory), os.ModePerm); err != nil {
				panic(err)
			}
		}
		logFile := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    1, // megabyte
			MaxBackups: 100,
			MaxAge:     14, // days
			Compress:   true,
		}
		config.Out = io.MultiWriter(os.Stdout, logFile)
	}
	return &Logger{config: config}
}

// NewDefaultLogger() creates a Logger with default settings, logging at the Debug level to stdout
func NewDefaultLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   os.Stdout,
	})
}

// NewNullLogger() creates a Logger that discards all log output
func NewNullLogger() LoggerI {
	return NewLogger(LoggerConfig{
		Level: DebugLevel,
		Out:   io.Discard,
	})
}

// colorString() returns a string with color applied, preserving line breaks
func colorString(c int, msg string) string {
	arr := strings.Split(msg, "\n")
	for i, part := range arr {
		arr[i] = cString(c, part)
	}
	return strings.Join(arr, "\n")
}

// cString() returns a string with a specific color applied
func cString(c int, msg string) string {
	switch c {
	case BLUE:
		return color.BlueString(msg)
	case RED:
		return color.RedString(msg)
	case YELLOW:
		return color.YellowString(msg)
	case GREEN:
		return color.GreenString(msg)
	case GRAY:
		return color.HiBlackString(msg)
	case MAGENTA:
		return color.MagentaString(msg)
	default:
		return color.WhiteString(msg)
	}
}

func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, fmt.Sprintf("log.Write() failed with err: %s", err.Error()))
}
