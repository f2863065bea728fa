// ====================================
// File: cmd/tokenctl/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/config"
	"github.com/Chizober/Solana-Token-Dashboard/internal/export"
	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
	"github.com/Chizober/Solana-Token-Dashboard/internal/plan"
	"github.com/Chizober/Solana-Token-Dashboard/internal/runner"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	envFile := flag.String("env", config.DefaultEnvFile, "Optional .env file with TOKEN_DASHBOARD_* variables")
	planPath := flag.String("plan", "", "Path to plan file (YAML)")
	keepGoing := flag.Bool("keep-going", false, "Continue with the next step after a failure")
	reportPath := flag.String("report", "", "Write a CSV report of executed steps")
	exportDir := flag.String("export", "", "Directory for the run export written after the plan finishes")
	exportFormat := flag.String("export-format", "json", "Run export format: json or csv")
	flag.Parse()

	if *planPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tokenctl -plan plan.yaml [-config config.yaml] [-keep-going] [-report report.csv] [-export dir] [-export-format json|csv]")
		os.Exit(2)
	}

	if _, err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}

	format, err := export.ParseFormat(*exportFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(run(*configPath, *planPath, *reportPath, *keepGoing, export.ExportOptions{
		Format:    format,
		OutputDir: *exportDir,
	}))
}

func run(configPath, planPath, reportPath string, keepGoing bool, exportOpts export.ExportOptions) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, closer, err := logger.CreatePrettyLogger(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = log.Sync()
		_ = closer.Close()
	}()

	p, err := plan.NewManager(log).LoadPlanYAML(planPath)
	if err != nil {
		log.Error("Failed to load plan", zap.String("path", planPath), zap.Error(err))
		return 1
	}

	w, err := runner.LoadWallet(cfg.Wallet)
	if err != nil {
		log.Error("Failed to load wallet", zap.Error(err))
		return 1
	}

	signer := runner.NewSigner(w, cfg.AutoApprove, runner.NewPromptApprover(os.Stdin, os.Stdout), log)
	session := workflow.NewSession(signer)

	opts := []runner.Option{
		runner.WithKeepGoing(keepGoing),
		runner.WithDefaultDecimals(uint8(cfg.DefaultDecimals)),
	}
	if reportPath != "" {
		report, err := runner.OpenReport(reportPath, log)
		if err != nil {
			log.Error("Failed to open report", zap.String("path", reportPath), zap.Error(err))
			return 1
		}
		defer func() {
			if err := report.Close(); err != nil {
				log.Warn("Failed to close report", zap.Error(err))
			}
		}()
		opts = append(opts, runner.WithReport(report))
	}

	engine := runner.NewEngine(cfg, log)
	r := runner.NewRunner(engine, session, log, opts...)
	summary, err := r.Run(ctx, p)
	log.Info("Plan finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	if exportOpts.OutputDir != "" {
		exportRun(ctx, engine, session, p, r.Records(), exportOpts, log)
	}
	if err != nil || summary.Failed > 0 {
		return 1
	}
	return 0
}

// exportRun сохраняет шаги и итоговое состояние сессии. Ошибки экспорта не меняют код выхода.
func exportRun(ctx context.Context, engine *workflow.Engine, session *workflow.Session, p *plan.Plan,
	records []export.StepRecord, opts export.ExportOptions, log *zap.Logger) {
	status, err := engine.Status(ctx, session)
	if err != nil {
		log.Warn("Final status unavailable", zap.Error(err))
		status = nil
	}

	path, err := export.NewRunExporter(log).ExportRun(export.Run{
		Plan:    p.Name,
		Session: session.ID,
		Records: records,
		Status:  status,
	}, opts)
	if err != nil {
		log.Warn("Failed to export run", zap.Error(err))
		return
	}
	fmt.Printf("Run exported to %s\n", path)
}
