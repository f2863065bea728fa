package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestBuffer(t *testing.T, size int) (*LogBuffer, string) {
	t.Helper()
	spill := filepath.Join(t.TempDir(), "spill", "dashboard.log")
	buffer, err := NewLogBuffer(size, spill, zaptest.NewLogger(t))
	require.NoError(t, err)
	return buffer, spill
}

func readSpill(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestNewLogBuffer_InvalidSize(t *testing.T) {
	_, err := NewLogBuffer(0, filepath.Join(t.TempDir(), "x.log"), zap.NewNop())
	assert.Error(t, err)
}

func TestLogBuffer_RingSpillsOldest(t *testing.T) {
	buffer, spill := newTestBuffer(t, 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("step %d", i), nil))
	}

	recent := buffer.GetRecentLogs(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "step 2", recent[0].Message)
	assert.Equal(t, "step 4", recent[2].Message)

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, uint64(2), spilled)

	require.NoError(t, buffer.Flush())
	onDisk := readSpill(t, spill)
	require.Len(t, onDisk, 2)
	assert.Equal(t, "step 0", onDisk[0].Message)

	// Close дописывает и то, что осталось в памяти.
	require.NoError(t, buffer.Close())
	assert.Len(t, readSpill(t, spill), 5)
}

func TestLogBuffer_RecentLimit(t *testing.T) {
	buffer, _ := newTestBuffer(t, 5)
	defer buffer.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	logs := buffer.GetRecentLogs(2)
	require.Len(t, logs, 2)
	assert.Equal(t, "Log 1", logs[0].Message)
	assert.Equal(t, "Log 2", logs[1].Message)
}

func TestLogBuffer_WriteParsesZapLines(t *testing.T) {
	buffer, _ := newTestBuffer(t, 10)
	defer buffer.Close()

	lines := `{"level":"warn","time":"2026-03-01T12:00:00.000Z","msg":"Airdrop failed","wallet":"Abc"}
not json at all
`
	n, err := buffer.Write([]byte(lines))
	require.NoError(t, err)
	assert.Equal(t, len(lines), n)

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 2)
	assert.Equal(t, "warn", logs[0].Level)
	assert.Equal(t, "Airdrop failed", logs[0].Message)
	assert.Equal(t, "Abc", logs[0].Fields["wallet"])
	assert.Equal(t, 2026, logs[0].Timestamp.Year())
	assert.Equal(t, "info", logs[1].Level)
	assert.Equal(t, "not json at all", logs[1].Message)
}

func TestLogBuffer_ConcurrentWritersWithFlush(t *testing.T) {
	buffer, _ := newTestBuffer(t, 50)
	done := buffer.StartPeriodicFlush(5 * time.Millisecond)

	var wg sync.WaitGroup
	for g := 0; g < 6; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.NoError(t, buffer.Add("debug", "tick", map[string]interface{}{"g": id}))
				_ = buffer.GetRecentLogs(10)
			}
		}(g)
	}
	wg.Wait()
	close(done)

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(600), total)
	assert.Equal(t, uint64(550), spilled)
	require.NoError(t, buffer.Close())
}

func TestTUILoggerWritesToBuffer(t *testing.T) {
	buffer, _ := newTestBuffer(t, 10)
	defer buffer.Close()

	log, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)
	log.Named("workflow").Info("Tokens minted", zap.Uint64("raw_amount", 100_000_000))
	log.Debug("hidden")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "Tokens minted", entry.Message)
	assert.Equal(t, "workflow", entry.Fields["logger"])
	assert.Equal(t, float64(100_000_000), entry.Fields["raw_amount"])
}
