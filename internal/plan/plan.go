// =============================================
// File: internal/plan/plan.go
// =============================================
// Package plan загружает YAML-сценарии для безголового запуска операций с токеном.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Operation - тип шага сценария.
type Operation string

const (
	OperationConnect       Operation = "connect"
	OperationCreateToken   Operation = "create_token"
	OperationUseToken      Operation = "use_token"
	OperationCreateAccount Operation = "create_account"
	OperationMint          Operation = "mint"
	OperationTransfer      Operation = "transfer"
	OperationBurn          Operation = "burn"
	OperationTokenInfo     Operation = "token_info"
	OperationStatus        Operation = "status"
)

// Step - один шаг сценария.
type Step struct {
	Index       int
	Name        string
	Operation   Operation
	Decimals    *int
	Amount      string
	Destination string
	Mint        solana.PublicKey
}

// Label возвращает имя шага для логов и отчёта.
func (s *Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d %s", s.Index+1, s.Operation)
}

// Plan - упорядоченный список шагов над одной сессией.
type Plan struct {
	Name  string
	Steps []*Step
}

// PlanConfig represents the structure of plan YAML file
type PlanConfig struct {
	Name  string `yaml:"name"`
	Steps []struct {
		Name        string `yaml:"name"`
		Op          string `yaml:"op"`
		Decimals    *int   `yaml:"decimals"`
		Amount      string `yaml:"amount"`
		Destination string `yaml:"destination"`
		Mint        string `yaml:"mint"`
	} `yaml:"steps"`
}

// Manager loads and parses plan definitions.
type Manager struct {
	logger *zap.Logger
}

// NewManager constructs a Manager with the given logger.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger.Named("plan")}
}

func parseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case OperationConnect, OperationCreateToken, OperationUseToken, OperationCreateAccount,
		OperationMint, OperationTransfer, OperationBurn, OperationTokenInfo, OperationStatus:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported operation: %q", s)
	}
}

// LoadPlanYAML reads a plan from YAML file.
// В отличие от списка задач, шаги плана зависят друг от друга, поэтому
// любой некорректный шаг отклоняет весь план.
func (m *Manager) LoadPlanYAML(path string) (*Plan, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Plan loaded", zap.String("name", p.Name), zap.Int("steps", len(p.Steps)))
	return p, nil
}

// Parse разбирает и проверяет YAML-описание плана.
func Parse(data []byte) (*Plan, error) {
	var config PlanConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(config.Steps) == 0 {
		return nil, fmt.Errorf("no steps found in plan")
	}

	p := &Plan{Name: config.Name, Steps: make([]*Step, 0, len(config.Steps))}
	for i, raw := range config.Steps {
		op, err := parseOperation(raw.Op)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		step := &Step{
			Index:       i,
			Name:        raw.Name,
			Operation:   op,
			Decimals:    raw.Decimals,
			Amount:      strings.TrimSpace(raw.Amount),
			Destination: strings.TrimSpace(raw.Destination),
		}
		if err := step.validate(raw.Mint); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, op, err)
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

// validate проверяет наличие обязательных полей. Значения полей
// (формат суммы, адрес получателя) проверяет сам движок при выполнении.
func (s *Step) validate(mint string) error {
	switch s.Operation {
	case OperationCreateToken, OperationUseToken:
		if s.Decimals != nil && (*s.Decimals < 0 || *s.Decimals > 255) {
			return fmt.Errorf("decimals must be between 0 and 255, got %d", *s.Decimals)
		}
	case OperationMint, OperationBurn:
		if s.Amount == "" {
			return fmt.Errorf("amount is required")
		}
	case OperationTransfer:
		if s.Amount == "" {
			return fmt.Errorf("amount is required")
		}
		if s.Destination == "" {
			return fmt.Errorf("destination is required")
		}
	}

	if s.Operation == OperationUseToken {
		key, err := solana.PublicKeyFromBase58(strings.TrimSpace(mint))
		if err != nil {
			return fmt.Errorf("invalid mint %q: %w", mint, err)
		}
		s.Mint = key
	}
	return nil
}
