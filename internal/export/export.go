// Package export сохраняет итоги выполнения плана в CSV или JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// Step statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StepRecord - результат одного шага плана.
type StepRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Step      string    `json:"step"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"`
	Signature string    `json:"signature,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// CSVHeaders returns the column names matching StepRecord.ToCSV
func CSVHeaders() []string {
	return []string{"timestamp", "session", "step", "operation", "status", "signature", "detail"}
}

// ToCSV converts the record to a CSV row
func (r StepRecord) ToCSV() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.Session,
		r.Step,
		r.Operation,
		r.Status,
		r.Signature,
		r.Detail,
	}
}

// Run - выполненный план: записи шагов и итоговое состояние сессии.
type Run struct {
	Plan    string
	Session string
	Records []StepRecord
	Status  *workflow.Status
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format          ExportFormat
	OperationFilter string // only steps of this operation
	OnlyFailed      bool
	OutputDir       string
}

// RunExporter handles run export functionality
type RunExporter struct {
	logger *zap.Logger
}

// NewRunExporter creates a new run exporter
func NewRunExporter(logger *zap.Logger) *RunExporter {
	return &RunExporter{
		logger: logger.Named("export"),
	}
}

// ExportRun writes the run to a new file in options.OutputDir and returns its path
func (e *RunExporter) ExportRun(run Run, options ExportOptions) (string, error) {
	records := e.filterRecords(run.Records, options)
	if len(records) == 0 {
		return "", fmt.Errorf("no steps match the export criteria")
	}

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(options.OutputDir, e.generateFilename(run, options))

	var err error
	switch options.Format {
	case FormatCSV:
		err = e.exportToCSV(records, outputPath)
	case FormatJSON:
		err = e.exportToJSON(run, records, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	e.logger.Info("Run exported",
		zap.String("file", outputPath),
		zap.Int("count", len(records)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterRecords applies filters to the step list
func (e *RunExporter) filterRecords(records []StepRecord, options ExportOptions) []StepRecord {
	var filtered []StepRecord
	for _, r := range records {
		if options.OperationFilter != "" && r.Operation != options.OperationFilter {
			continue
		}
		if options.OnlyFailed && r.Status != StatusError {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// generateFilename creates a filename based on run and export options
func (e *RunExporter) generateFilename(run Run, options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "run"
	if run.Plan != "" {
		prefix += "_" + sanitize(run.Plan)
	}
	if options.OperationFilter != "" {
		prefix += "_" + sanitize(options.OperationFilter)
	}
	if options.OnlyFailed {
		prefix += "_failed"
	}
	if len(run.Session) >= 8 {
		prefix += "_" + run.Session[:8]
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// exportToCSV exports steps to CSV format
func (e *RunExporter) exportToCSV(records []StepRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, r := range records {
		if err := writer.Write(r.ToCSV()); err != nil {
			return fmt.Errorf("failed to write step: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// exportToJSON exports the run with summary and final status
func (e *RunExporter) exportToJSON(run Run, records []StepRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time        `json:"export_time"`
		Plan       string           `json:"plan,omitempty"`
		Session    string           `json:"session"`
		Steps      []StepRecord     `json:"steps"`
		Summary    Summary          `json:"summary"`
		Final      *workflow.Status `json:"final_status,omitempty"`
	}{
		ExportTime: time.Now(),
		Plan:       run.Plan,
		Session:    run.Session,
		Steps:      records,
		Summary:    Summarize(records),
		Final:      run.Status,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Summary contains summary statistics for exported steps
type Summary struct {
	TotalSteps   int            `json:"total_steps"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	Transactions int            `json:"transactions"`
	Operations   map[string]int `json:"operations"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
}

// Summarize calculates summary statistics
func Summarize(records []StepRecord) Summary {
	summary := Summary{
		TotalSteps: len(records),
		Operations: make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	summary.StartDate = records[0].Timestamp
	summary.EndDate = records[len(records)-1].Timestamp
	for _, r := range records {
		summary.Operations[r.Operation]++
		if r.Status == StatusOK {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if r.Signature != "" {
			summary.Transactions++
		}
	}
	return summary
}
