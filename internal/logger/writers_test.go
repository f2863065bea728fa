package logger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestFileSink_ConcurrentLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")
	sink, err := NewFileSink(path, 20*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)

	log := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		sink,
		zapcore.InfoLevel,
	))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				log.Info("mint confirmed", zap.Int("worker", id), zap.Int("seq", i))
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, log.Sync())

	entries, flushes := sink.GetStats()
	assert.Equal(t, uint64(400), entries)
	assert.NotZero(t, flushes)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 400)
	assert.Contains(t, lines[0], `"msg":"mint confirmed"`)
}

func TestReportWriter_HeaderOnceAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	header := []string{"step", "status"}

	for run := 0; run < 2; run++ {
		rw, err := NewReportWriter(path, header, time.Hour, zaptest.NewLogger(t))
		require.NoError(t, err)
		require.NoError(t, rw.WriteRecord([]string{"run" + strconv.Itoa(run), "ok"}))
		require.NoError(t, rw.Close())
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{header, {"run0", "ok"}, {"run1", "ok"}}, rows)
}

func TestReportWriter_PeriodicFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	rw, err := NewReportWriter(path, nil, 10*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer rw.Close()

	require.NoError(t, rw.WriteRecord([]string{"#1 connect", "ok", "with,comma"}))

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && strings.Contains(string(data), `"with,comma"`)
	}, time.Second, 10*time.Millisecond)

	records, _ := rw.GetStats()
	assert.Equal(t, uint64(1), records)
}

func TestReportWriter_ConcurrentRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	rw, err := NewReportWriter(path, []string{"n"}, 5*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 5; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 40; i++ {
				assert.NoError(t, rw.WriteRecord([]string{strconv.Itoa(i)}))
				if i%10 == 0 {
					assert.NoError(t, rw.Flush())
				}
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rw.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 201)
}
