package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LogEntry represents a single log entry in the buffer
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer - потокобезопасный кольцевой буфер логов для TUI.
// Вытесняемые записи дописываются в spill-файл.
type LogBuffer struct {
	mu          sync.Mutex
	ringBuffer  []LogEntry
	maxSize     int
	next        int
	size        int
	spillFile   *os.File
	spillWriter *bufio.Writer
	logger      *zap.Logger

	// Stats
	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer creates a new log buffer with the specified size
func NewLogBuffer(maxSize int, spillFilePath string, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid log buffer size %d", maxSize)
	}

	dir := filepath.Dir(spillFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	spillFile, err := os.OpenFile(spillFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}

	return &LogBuffer{
		ringBuffer:  make([]LogEntry, maxSize),
		maxSize:     maxSize,
		spillFile:   spillFile,
		spillWriter: bufio.NewWriter(spillFile),
		logger:      logger,
	}, nil
}

// Add adds a new log entry to the buffer
func (lb *LogBuffer) Add(level, message string, fields map[string]interface{}) error {
	return lb.add(LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    fields,
	})
}

func (lb *LogBuffer) add(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	var spillErr error
	if lb.size == lb.maxSize {
		// Буфер полон: самая старая запись уходит в файл.
		if err := lb.spillToFile(lb.ringBuffer[lb.next]); err != nil {
			lb.logger.Error("Failed to spill log entry to file", zap.Error(err))
			spillErr = err
		} else {
			lb.spilledEntries++
		}
	} else {
		lb.size++
	}

	lb.ringBuffer[lb.next] = entry
	lb.next = (lb.next + 1) % lb.maxSize
	lb.totalEntries++
	return spillErr
}

// Write принимает JSON-строки zap-энкодера, что позволяет использовать буфер как zapcore.WriteSyncer.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		if line == "" {
			continue
		}
		if err := lb.add(parseLine(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Sync сбрасывает spill-файл на диск.
func (lb *LogBuffer) Sync() error {
	return lb.Flush()
}

func parseLine(line string) LogEntry {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{Timestamp: time.Now(), Level: "info", Message: line}
	}

	entry := LogEntry{Timestamp: time.Now()}
	if level, ok := raw["level"].(string); ok {
		entry.Level = level
	}
	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if ts, ok := raw["time"].(string); ok {
		if parsed, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			entry.Timestamp = parsed
		}
	}
	delete(raw, "level")
	delete(raw, "msg")
	delete(raw, "time")
	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry
}

// spillToFile writes an entry to the spill file
func (lb *LogBuffer) spillToFile(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := lb.spillWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	if _, err := lb.spillWriter.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// GetRecentLogs returns the most recent log entries (up to limit), oldest first
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.size
	if limit > 0 && limit < count {
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	start := (lb.next - count + lb.maxSize) % lb.maxSize
	for i := 0; i < count; i++ {
		logs = append(logs, lb.ringBuffer[(start+i)%lb.maxSize])
	}
	return logs
}

// Flush forces a write of any buffered data to the spill file
func (lb *LogBuffer) Flush() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	if err := lb.spillFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}
	return nil
}

// Close записывает оставшиеся в памяти записи в spill-файл и закрывает его.
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	start := (lb.next - lb.size + lb.maxSize) % lb.maxSize
	for i := 0; i < lb.size; i++ {
		if err := lb.spillToFile(lb.ringBuffer[(start+i)%lb.maxSize]); err != nil {
			lb.logger.Error("Failed to spill entry during close", zap.Error(err))
		}
	}

	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush during close: %w", err)
	}
	if err := lb.spillFile.Close(); err != nil {
		return fmt.Errorf("failed to close spill file: %w", err)
	}

	lb.logger.Debug("Log buffer closed",
		zap.Uint64("totalEntries", lb.totalEntries),
		zap.Uint64("spilledEntries", lb.spilledEntries))
	return nil
}

// GetStats returns buffer statistics
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}

// StartPeriodicFlush starts a goroutine that periodically flushes the buffer
func (lb *LogBuffer) StartPeriodicFlush(interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := lb.Flush(); err != nil {
					lb.logger.Error("Periodic flush failed", zap.Error(err))
				}
			case <-done:
				return
			}
		}
	}()

	return done
}
