// internal/runner/runner.go
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/export"
	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
	"github.com/Chizober/Solana-Token-Dashboard/internal/plan"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

// ReportHeader - колонки CSV-отчёта о выполнении плана.
var ReportHeader = export.CSVHeaders()

// Runner выполняет план шаг за шагом над одной сессией.
type Runner struct {
	logger          *zap.Logger
	engine          *workflow.Engine
	session         *workflow.Session
	out             io.Writer
	report          *logger.ReportWriter
	records         []export.StepRecord
	defaultDecimals uint8
	keepGoing       bool
}

// Option настраивает Runner.
type Option func(*Runner)

// WithOutput задаёт, куда печатать результаты шагов (по умолчанию stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithReport включает CSV-отчёт.
func WithReport(w *logger.ReportWriter) Option {
	return func(r *Runner) { r.report = w }
}

// WithDefaultDecimals задаёт decimals для create_token без явного значения.
func WithDefaultDecimals(d uint8) Option {
	return func(r *Runner) { r.defaultDecimals = d }
}

// WithKeepGoing продолжает выполнение после ошибки шага.
func WithKeepGoing(keepGoing bool) Option {
	return func(r *Runner) { r.keepGoing = keepGoing }
}

// Summary - итог выполнения плана.
type Summary struct {
	Succeeded int
	Failed    int
}

// NewRunner создаёт Runner для сессии session.
func NewRunner(engine *workflow.Engine, session *workflow.Session, log *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger:          log.Named("runner"),
		engine:          engine,
		session:         session,
		out:             os.Stdout,
		defaultDecimals: workflow.DefaultDecimals,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenReport открывает CSV-отчёт по пути path.
func OpenReport(path string, log *zap.Logger) (*logger.ReportWriter, error) {
	return logger.NewReportWriter(path, ReportHeader, 5*time.Second, log)
}

// Run выполняет шаги по порядку. Без keepGoing первая ошибка останавливает план.
func (r *Runner) Run(ctx context.Context, p *plan.Plan) (Summary, error) {
	var summary Summary
	r.logger.Info("Running plan", zap.String("plan", p.Name), zap.Int("steps", len(p.Steps)))

	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := r.Execute(ctx, step)
		r.record(step, result, err)
		if err != nil {
			summary.Failed++
			r.logger.Error("Step failed", zap.String("step", step.Label()), zap.Error(err))
			fmt.Fprintf(r.out, "[%s] %s\n", step.Label(), workflow.Describe(err))
			if !r.keepGoing {
				return summary, fmt.Errorf("step %s: %w", step.Label(), err)
			}
			continue
		}

		summary.Succeeded++
		fmt.Fprintf(r.out, "[%s]\n%s\n", step.Label(), result)
	}
	return summary, nil
}

// Execute выполняет один шаг плана.
func (r *Runner) Execute(ctx context.Context, step *plan.Step) (fmt.Stringer, error) {
	switch step.Operation {
	case plan.OperationConnect:
		return r.engine.Connect(ctx, r.session)
	case plan.OperationCreateToken:
		return r.engine.CreateToken(ctx, r.session, r.decimals(step))
	case plan.OperationUseToken:
		var decimals *uint8
		if step.Decimals != nil {
			d := uint8(*step.Decimals)
			decimals = &d
		}
		return r.engine.UseToken(ctx, r.session, step.Mint, decimals)
	case plan.OperationCreateAccount:
		return r.engine.CreateAccount(ctx, r.session)
	case plan.OperationMint:
		return r.engine.Mint(ctx, r.session, step.Amount)
	case plan.OperationTransfer:
		return r.engine.Transfer(ctx, r.session, step.Destination, step.Amount)
	case plan.OperationBurn:
		return r.engine.Burn(ctx, r.session, step.Amount)
	case plan.OperationTokenInfo:
		return r.engine.TokenInfo(ctx, r.session)
	case plan.OperationStatus:
		return r.engine.Status(ctx, r.session)
	default:
		return nil, fmt.Errorf("unsupported operation %q", step.Operation)
	}
}

func (r *Runner) decimals(step *plan.Step) uint8 {
	if step.Decimals == nil {
		return r.defaultDecimals
	}
	return uint8(*step.Decimals)
}

// Records возвращает записи выполненных шагов.
func (r *Runner) Records() []export.StepRecord {
	return append([]export.StepRecord(nil), r.records...)
}

func (r *Runner) record(step *plan.Step, result fmt.Stringer, err error) {
	rec := export.StepRecord{
		Timestamp: time.Now(),
		Session:   r.session.ID,
		Step:      step.Label(),
		Operation: string(step.Operation),
		Status:    export.StatusOK,
	}
	if err != nil {
		rec.Status, rec.Detail = export.StatusError, workflow.Describe(err)
	} else {
		rec.Signature = signatureOf(result)
	}
	r.records = append(r.records, rec)

	if r.report == nil {
		return
	}
	if err := r.report.WriteRecord(rec.ToCSV()); err != nil {
		r.logger.Warn("Failed to write report record", zap.Error(err))
	}
}

func signatureOf(result fmt.Stringer) string {
	var sig solana.Signature
	switch res := result.(type) {
	case *workflow.ConnectResult:
		sig = res.AirdropSignature
	case *workflow.CreateTokenResult:
		sig = res.Signature
	case *workflow.AccountResult:
		sig = res.Signature
	case *workflow.BalanceResult:
		sig = res.Signature
	case *workflow.TransferResult:
		sig = res.Signature
	}
	if sig.IsZero() {
		return ""
	}
	return sig.String()
}
