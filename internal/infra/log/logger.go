package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Logger writes to the log file only. consoleLogger carries SUCCESS/ERROR lines
// for the operator. Both are no-ops until Init is called.
var Logger = zap.NewNop()
var consoleLogger = zap.NewNop()
var runField = zap.Skip()
var mu sync.Mutex

// Options controls where and how much is logged.
type Options struct {
	Dir     string // directory for app.log, "" disables the file log
	Level   string // debug, info, warn, error
	Console bool   // print SUCCESS/ERROR lines to stderr
}

// Init builds the file and console loggers. It is safe to call more than once;
// the last call wins.
func Init(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	fileLogger := zap.NewNop()
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}

		fileConfig := zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
			EncodeDuration: zapcore.SecondsDurationEncoder,
		}

		fileCore := zapcore.NewCore(
			&customFileEncoder{Encoder: zapcore.NewConsoleEncoder(fileConfig)},
			getLogFileWriter(filepath.Join(opts.Dir, "app.log")),
			level,
		)
		fileLogger = zap.New(fileCore)
	}

	console := zap.NewNop()
	if opts.Console {
		consoleConfig := zap.NewDevelopmentConfig()
		consoleConfig.EncoderConfig.EncodeLevel = customLevelEncoder
		consoleConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleConfig.EncoderConfig.EncodeCaller = nil
		consoleConfig.Development = false
		consoleConfig.DisableStacktrace = true
		consoleConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

		var err error
		console, err = consoleConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to build console logger: %w", err)
		}
	}

	Logger = fileLogger
	consoleLogger = console
	return nil
}

// Sync flushes both loggers. Errors from syncing stderr are ignored.
func Sync() {
	_ = Logger.Sync()
	_ = consoleLogger.Sync()
}

// NewRunID returns an id that ties together every log line of one run.
func NewRunID() string {
	return uuid.NewString()
}

// SetRunID tags every subsequent file log line with run_id.
func SetRunID(runID string) {
	mu.Lock()
	defer mu.Unlock()
	runField = zap.String("run_id", runID)
}

func withRun(fields []zap.Field) []zap.Field {
	return append(fields, runField)
}

// LogRequest records an outgoing API call in the file log.
func LogRequest(requestID, method, endpoint string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	}, fields...)
	Logger.Info("API request", withRun(allFields)...)
}

// LogResponse records the outcome of an API call. Failures also reach the console.
func LogResponse(requestID string, ok bool, durationMs int64, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("request_id", requestID),
		zap.Bool("ok", ok),
		zap.Int64("duration_ms", durationMs),
	}, fields...)

	if ok {
		Logger.Info("API response", withRun(allFields)...)
		return
	}
	Logger.Error("API response", withRun(allFields)...)
	if endpoint := fieldsToString(fields); endpoint != "" {
		consoleLogger.Error("✗ API request failed " + endpoint)
	} else {
		consoleLogger.Error("✗ API request failed")
	}
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(colorCyan + "DEBUG" + colorReset)
	case zapcore.InfoLevel:
		enc.AppendString(colorGreen + "SUCCESS" + colorReset) // console INFO is SUCCESS
	case zapcore.WarnLevel:
		enc.AppendString(colorYellow + "WARN" + colorReset)
	case zapcore.ErrorLevel:
		enc.AppendString(colorRed + "ERROR" + colorReset)
	case zapcore.FatalLevel:
		enc.AppendString(colorRed + "FATAL" + colorReset)
	case zapcore.PanicLevel:
		enc.AppendString(colorRed + "PANIC" + colorReset)
	default:
		enc.AppendString(colorWhite + level.String() + colorReset)
	}
}

// LogInfo writes to the file log.
func LogInfo(message string, fields ...zap.Field) {
	Logger.Info(message, withRun(fields)...)
}

// LogSuccess writes to the file log and the console.
func LogSuccess(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Info(message, withRun(fields)...)

	if durationMs > 0 {
		consoleLogger.Info(fmt.Sprintf("✓ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Info("✓ " + message)
	}
}

// LogError writes to the file log and the console.
func LogError(message string, fields ...zap.Field) {
	durationMs := extractDuration(fields)

	Logger.Error(message, withRun(fields)...)

	if durationMs > 0 {
		consoleLogger.Error(fmt.Sprintf("✗ %s (%dms)", message, durationMs))
	} else {
		consoleLogger.Error("✗ " + message)
	}
}

// LogWarn writes to the file log.
func LogWarn(message string, fields ...zap.Field) {
	Logger.Warn(message, withRun(fields)...)
}

// LogDebug writes to the file log.
func LogDebug(message string, fields ...zap.Field) {
	Logger.Debug(message, withRun(fields)...)
}

func extractDuration(fields []zap.Field) int64 {
	for _, field := range fields {
		if field.Key == "duration_ms" && field.Type == zapcore.Int64Type {
			return field.Integer
		}
	}
	return 0
}

func fieldsToString(fields []zap.Field) string {
	for _, field := range fields {
		if field.Key == "endpoint" {
			return field.String
		}
	}
	return ""
}

// MaxLogFileSize caps app.log; the file is truncated once it grows past it.
const MaxLogFileSize = 50 * 1024 * 1024

type rotatingLogWriter struct {
	file *os.File
	path string
	mu   sync.Mutex
}

func (w *rotatingLogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := w.file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		w.file.Close()

		w.file, err = os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return 0, fmt.Errorf("failed to truncate log file: %w", err)
		}
	}

	return w.file.Write(p)
}

func (w *rotatingLogWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

func getLogFileWriter(path string) zapcore.WriteSyncer {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v, falling back to stderr\n", path, err)
		return zapcore.AddSync(os.Stderr)
	}

	info, err := file.Stat()
	if err == nil && info.Size() > MaxLogFileSize {
		file.Close()
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to truncate log file %s: %v, falling back to stderr\n", path, err)
			return zapcore.AddSync(os.Stderr)
		}
	}

	return zapcore.AddSync(&rotatingLogWriter{file: file, path: path})
}

// customFileEncoder renders "time     LEVEL msg\t{json fields}".
type customFileEncoder struct {
	zapcore.Encoder
}

func (e *customFileEncoder) Clone() zapcore.Encoder {
	return &customFileEncoder{Encoder: e.Encoder.Clone()}
}

func (e *customFileEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()

	buf.AppendString(entry.Time.Format("2006-01-02 15:04:05"))
	buf.AppendString("     ")
	buf.AppendString(entry.Level.CapitalString())
	buf.AppendString(" ")
	buf.AppendString(entry.Message)

	if len(fields) > 0 {
		buf.AppendString("\t")
		enc := zapcore.NewMapObjectEncoder()
		for _, field := range fields {
			field.AddTo(enc)
		}
		if jsonData, err := json.Marshal(enc.Fields); err == nil {
			buf.AppendString(string(jsonData))
		}
	}

	buf.AppendString("\n")
	return buf, nil
}
