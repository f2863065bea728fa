// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// CreatePrettyLogger creates a logger with user-friendly console output.
// Если logFile не пуст, полные структурированные логи дополнительно пишутся туда в JSON.
// Возвращаемый closer нужно вызвать при завершении.
func CreatePrettyLogger(debug bool, logFile string) (*zap.Logger, io.Closer, error) {
	level := levelFor(debug)
	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(prettyEncoderConfig()),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)
	cores := []zapcore.Core{&FieldFilterCore{core: console}}

	var closer io.Closer = nopCloser{}
	if logFile != "" {
		sink, err := NewFileSink(logFile, time.Second, zap.NewNop())
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			sink,
			level,
		))
		closer = sink
	}

	return zap.New(zapcore.NewTee(cores...)), closer, nil
}

// CreateTUILoggerWithBuffer creates a TUI-compatible logger that only writes to buffer
func CreateTUILoggerWithBuffer(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	// Only use buffer core - NO console output to avoid breaking TUI
	bufferCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		buffer,
		levelFor(debug),
	)
	return zap.New(bufferCore), nil
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zap.Field) string {
	switch msg {
	case "Wallet connected":
		return fmt.Sprintf("%s🔌 Wallet connected: %s%s", ColorGreen, shortenAddress(extractField(fields, "wallet")), ColorReset)

	case "Balance below threshold, requesting airdrop":
		return fmt.Sprintf("%s🪂 Requesting airdrop%s", ColorBlue, ColorReset)

	case "Token created":
		return fmt.Sprintf("%s🪙 Token created: %s (decimals %s)%s", ColorGreen+ColorBold,
			extractField(fields, "mint"), extractField(fields, "decimals"), ColorReset)

	case "Token account created", "Token account already exists":
		return fmt.Sprintf("%s📂 %s: %s%s", ColorBlue, msg, extractField(fields, "account"), ColorReset)

	case "Tokens minted":
		return fmt.Sprintf("%s⚒  Minted %s raw units%s", ColorGreen, extractField(fields, "raw_amount"), ColorReset)

	case "Tokens transferred":
		return fmt.Sprintf("%s📤 Transferred %s raw units to %s%s", ColorCyan,
			extractField(fields, "raw_amount"), shortenAddress(extractField(fields, "destination")), ColorReset)

	case "Tokens burned":
		return fmt.Sprintf("%s🔥 Burned %s raw units%s", ColorPurple, extractField(fields, "raw_amount"), ColorReset)

	case "Transaction confirmed":
		return fmt.Sprintf("%s✅ Transaction confirmed: %s%s", ColorGreen, shortenSignature(extractField(fields, "signature")), ColorReset)

	case "Operation failed", "Operation rejected", "Step failed":
		return fmt.Sprintf("%s✗ %s: %s%s", ColorRed, msg, extractField(fields, "error"), ColorReset)

	default:
		return msg
	}
}

// Helper functions
func extractField(fields []zap.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.Uint64Type, zapcore.Uint8Type, zapcore.Int64Type, zapcore.Uint32Type, zapcore.Int32Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.BoolType:
			return fmt.Sprintf("%t", field.Integer == 1)
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok {
				return err.Error()
			}
		}
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

func shortenAddress(addr string) string {
	if len(addr) > 8 {
		return addr[:4] + "..." + addr[len(addr)-4:]
	}
	return addr
}

func shortenSignature(sig string) string {
	if len(sig) > 16 {
		return sig[:8] + "..." + sig[len(sig)-8:]
	}
	return sig
}

// FieldFilterCore wraps a zapcore.Core: fields are folded into a short message and dropped.
type FieldFilterCore struct {
	core zapcore.Core
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

// With отбрасывает контекстные поля: в консоли они только мешают.
func (c *FieldFilterCore) With([]zapcore.Field) zapcore.Core {
	return c
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, fields...)
	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
