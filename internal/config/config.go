// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения, перекрывающих файл конфигурации.
const EnvPrefix = "TOKEN_DASHBOARD"

const (
	DefaultRPCURL           = "http://127.0.0.1:8899"
	DefaultCommitment       = string(rpc.CommitmentConfirmed)
	DefaultConfirmTimeoutMS = 60000
	DefaultPollIntervalMS   = 500
	DefaultDecimals         = 6
	DefaultAirdropSOL       = 2.0
)

// AirdropConfig - пополнение кошелька на тестовой сети при подключении.
type AirdropConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ThresholdSOL float64 `mapstructure:"threshold_sol"`
}

// ThresholdLamports возвращает порог airdrop в лампортах.
func (a AirdropConfig) ThresholdLamports() uint64 {
	return decimal.NewFromFloat(a.ThresholdSOL).Shift(9).BigInt().Uint64()
}

// WalletConfig описывает, откуда брать ключ подписанта.
// Приоритет: private_key, затем keypair_path, затем wallets_file + name.
type WalletConfig struct {
	KeypairPath string `mapstructure:"keypair_path"`
	PrivateKey  string `mapstructure:"private_key"`
	WalletsFile string `mapstructure:"wallets_file"`
	Name        string `mapstructure:"name"`
}

// Config holds application settings loaded from config file and environment.
type Config struct {
	RPCURL           string        `mapstructure:"rpc_url"`
	Commitment       string        `mapstructure:"commitment"`
	ConfirmTimeout   time.Duration `mapstructure:"-"`
	ConfirmTimeoutMS int           `mapstructure:"confirm_timeout_ms"`
	PollInterval     time.Duration `mapstructure:"-"`
	PollIntervalMS   int           `mapstructure:"poll_interval_ms"`
	DefaultDecimals  int           `mapstructure:"default_decimals"`
	Airdrop          AirdropConfig `mapstructure:"airdrop"`
	Wallet           WalletConfig  `mapstructure:"wallet"`
	AutoApprove      bool          `mapstructure:"auto_approve"`
	DebugLogging     bool          `mapstructure:"debug_logging"`
	LogFile          string        `mapstructure:"log_file"`
}

// DefaultEnvFile - файл с переменными окружения рядом с бинарником.
const DefaultEnvFile = ".env"

// LoadDotEnv переносит переменные из файла path в окружение процесса.
// Уже заданные переменные не перезаписываются. Отсутствие файла не ошибка.
func LoadDotEnv(path string) (int, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read env file %s: %w", path, err)
	}

	applied := 0
	for key, value := range vars {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return applied, fmt.Errorf("set %s: %w", key, err)
		}
		applied++
	}
	return applied, nil
}

// CommitmentType возвращает уровень подтверждения в типе RPC-клиента.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// LoadConfig reads configuration from path (may be empty) and environment, then validates it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_url":               DefaultRPCURL,
		"commitment":            DefaultCommitment,
		"confirm_timeout_ms":    DefaultConfirmTimeoutMS,
		"poll_interval_ms":      DefaultPollIntervalMS,
		"default_decimals":      DefaultDecimals,
		"airdrop.enabled":       true,
		"airdrop.threshold_sol": DefaultAirdropSOL,
		"wallet.keypair_path":   "",
		"wallet.private_key":    "",
		"wallet.wallets_file":   "",
		"wallet.name":           "",
		"auto_approve":          false,
		"debug_logging":         false,
		"log_file":              "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	// Convert ms to Duration
	cfg.ConfirmTimeout = time.Duration(cfg.ConfirmTimeoutMS) * time.Millisecond
	cfg.PollInterval = time.Duration(cfg.PollIntervalMS) * time.Millisecond

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.RPCURL)
	if err != nil || c.RPCURL == "" {
		return errors.New("invalid rpc_url")
	}
	if !strings.HasPrefix(parsed.Scheme, "http") {
		return errors.New("rpc_url must use http or https")
	}

	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q: expected processed, confirmed or finalized", c.Commitment)
	}

	if c.ConfirmTimeoutMS <= 0 {
		return errors.New("invalid confirm_timeout_ms")
	}
	if c.PollIntervalMS <= 0 {
		return errors.New("invalid poll_interval_ms")
	}
	if c.DefaultDecimals < 0 || c.DefaultDecimals > 255 {
		return errors.New("default_decimals must be between 0 and 255")
	}
	if c.Airdrop.ThresholdSOL < 0 {
		return errors.New("invalid airdrop.threshold_sol")
	}
	if c.Wallet.WalletsFile != "" && c.Wallet.Name == "" {
		return errors.New("wallet.name is required with wallet.wallets_file")
	}
	return nil
}
