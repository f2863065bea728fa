package logger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bufferedFile - файл в режиме добавления с буфером и фоновым сбросом.
// Все обращения к буферу идут под mu.
type bufferedFile struct {
	mu      sync.Mutex
	buf     *bufio.Writer
	file    *os.File
	path    string
	logger  *zap.Logger
	done    chan struct{}
	stopped sync.WaitGroup
	flushes uint64
}

func openBufferedFile(path string, logger *zap.Logger) (*bufferedFile, bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, false, fmt.Errorf("failed to stat file: %w", err)
	}

	bf := &bufferedFile{
		buf:    bufio.NewWriter(file),
		file:   file,
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}
	return bf, stat.Size() == 0, nil
}

// start запускает периодический сброс; before вызывается под mu перед сбросом буфера.
func (bf *bufferedFile) start(interval time.Duration, before func() error) {
	bf.stopped.Add(1)
	go func() {
		defer bf.stopped.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := bf.flush(before); err != nil {
					bf.logger.Error("Periodic flush failed", zap.String("file", bf.path), zap.Error(err))
				}
			case <-bf.done:
				return
			}
		}
	}()
}

func (bf *bufferedFile) flush(before func() error) error {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.flushLocked(before, true)
}

func (bf *bufferedFile) flushLocked(before func() error, fsync bool) error {
	if before != nil {
		if err := before(); err != nil {
			return err
		}
	}
	if err := bf.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if fsync {
		if err := bf.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync file: %w", err)
		}
	}
	bf.flushes++
	return nil
}

func (bf *bufferedFile) close(before func() error) error {
	close(bf.done)
	bf.stopped.Wait()

	bf.mu.Lock()
	defer bf.mu.Unlock()
	if err := bf.flushLocked(before, false); err != nil {
		bf.file.Close()
		return fmt.Errorf("flush on close: %w", err)
	}
	if err := bf.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// FileSink - потокобезопасный приёмник JSON-логов для zap (log_file).
type FileSink struct {
	*bufferedFile
	entries uint64
}

var _ zapcore.WriteSyncer = (*FileSink)(nil)

// NewFileSink открывает path на дозапись и сбрасывает буфер раз в flushInterval.
func NewFileSink(path string, flushInterval time.Duration, logger *zap.Logger) (*FileSink, error) {
	bf, _, err := openBufferedFile(path, logger)
	if err != nil {
		return nil, err
	}
	bf.start(flushInterval, nil)
	return &FileSink{bufferedFile: bf}, nil
}

// Write пишет одну закодированную запись.
func (s *FileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write entry: %w", err)
	}
	s.entries++
	return n, nil
}

// Sync сбрасывает буфер на диск (zap вызывает его из logger.Sync).
func (s *FileSink) Sync() error {
	return s.flush(nil)
}

// Close останавливает фоновый сброс и закрывает файл.
func (s *FileSink) Close() error {
	return s.close(nil)
}

// GetStats returns sink statistics
func (s *FileSink) GetStats() (entries, flushes uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries, s.flushes
}

// ReportWriter дописывает строки CSV-отчёта. Заголовок пишется только в пустой файл,
// поэтому повторные запуски продолжают тот же отчёт.
type ReportWriter struct {
	*bufferedFile
	csv     *csv.Writer
	records uint64
}

// NewReportWriter открывает CSV-отчёт по пути path.
func NewReportWriter(path string, header []string, flushInterval time.Duration, logger *zap.Logger) (*ReportWriter, error) {
	bf, empty, err := openBufferedFile(path, logger)
	if err != nil {
		return nil, err
	}
	rw := &ReportWriter{bufferedFile: bf, csv: csv.NewWriter(bf.buf)}

	if empty && len(header) > 0 {
		if err := rw.csv.Write(header); err != nil {
			bf.file.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := bf.flushLocked(rw.flushCSV, false); err != nil {
			bf.file.Close()
			return nil, err
		}
	}
	bf.start(flushInterval, rw.flushCSV)
	return rw, nil
}

func (rw *ReportWriter) flushCSV() error {
	rw.csv.Flush()
	if err := rw.csv.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// WriteRecord добавляет строку отчёта.
func (rw *ReportWriter) WriteRecord(record []string) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if err := rw.csv.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	rw.records++
	return nil
}

// Flush сбрасывает накопленные строки на диск.
func (rw *ReportWriter) Flush() error {
	return rw.flush(rw.flushCSV)
}

// Close дописывает буфер и закрывает файл.
func (rw *ReportWriter) Close() error {
	if err := rw.close(rw.flushCSV); err != nil {
		return err
	}
	rw.logger.Info("Report closed",
		zap.String("file", rw.path),
		zap.Uint64("records", rw.records),
		zap.Uint64("flushes", rw.flushes))
	return nil
}

// GetStats returns report statistics
func (rw *ReportWriter) GetStats() (records, flushes uint64) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.records, rw.flushes
}
