package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Chizober/Solana-Token-Dashboard/internal/config"
	"github.com/Chizober/Solana-Token-Dashboard/internal/logger"
	"github.com/Chizober/Solana-Token-Dashboard/internal/runner"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/screen"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	envFile := flag.String("env", config.DefaultEnvFile, "Optional .env file with TOKEN_DASHBOARD_* variables")
	flag.Parse()

	// Create context with signal handling
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Логи пишутся только в буфер: терминал занят интерфейсом.
	spillPath := cfg.LogFile
	if spillPath == "" {
		spillPath = filepath.Join(os.TempDir(), "token-dashboard.log")
	}
	buffer, err := logger.NewLogBuffer(1000, spillPath, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to create log buffer: %v", err)
	}
	stopFlush := buffer.StartPeriodicFlush(5 * time.Second)
	defer func() {
		close(stopFlush)
		_ = buffer.Close()
	}()

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	w, err := runner.LoadWallet(cfg.Wallet)
	if err != nil {
		log.Fatalf("Failed to load wallet: %v", err)
	}

	signer := runner.NewSigner(w, cfg.AutoApprove, ui.NewApprover(ui.Bus), appLogger)
	engine := runner.NewEngine(cfg, appLogger)
	session := workflow.NewSession(signer)
	appLogger.Info("Starting token dashboard",
		zap.String("rpc", cfg.RPCURL),
		zap.String("session", session.ID),
		zap.Bool("auto_approve", cfg.AutoApprove))

	app := screen.NewApp(screen.Config{
		Runner:          ui.NewActionRunner(rootCtx, engine, session, appLogger),
		Logs:            buffer,
		Network:         cfg.RPCURL,
		DefaultDecimals: uint8(cfg.DefaultDecimals),
	})

	program := tea.NewProgram(
		ui.NewSafeUIWrapper(app, appLogger),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		appLogger.Error("TUI application failed", zap.Error(err))
		log.Printf("TUI application failed: %v", err)
	}
	appLogger.Info("Shutting down token dashboard")
}
