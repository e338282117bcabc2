// Package config provides configuration management for Payrun.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/payrun/payrun/internal/fileutil"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int                    `yaml:"version"`
	Home     string                 `yaml:"home"`
	Chains   map[string]ChainConfig `yaml:"chains"`
	Dispatch DispatchConfig         `yaml:"dispatch"`
	Logging  LoggingConfig          `yaml:"logging"`
	Verbose  bool                   `yaml:"verbose"`

	// Secrets are never read from or written to the config file.
	Mnemonic     string `yaml:"-"`
	MnemonicFile string `yaml:"-"`
}

// ChainConfig defines a single EVM chain endpoint and its token table.
type ChainConfig struct {
	RPC          string        `yaml:"rpc"`
	ChainID      int64         `yaml:"chain_id"`
	NativeSymbol string        `yaml:"native_symbol"`
	Tokens       []TokenConfig `yaml:"tokens"`
}

// TokenConfig defines a fungible token contract on a chain.
// Decimals are intentionally absent: the contract's declared value is
// always read live at dispatch time.
type TokenConfig struct {
	Symbol  string `yaml:"symbol"`
	Address string `yaml:"address"`
}

// DispatchConfig defines dispatch timeouts and RPC throttling.
type DispatchConfig struct {
	DialTimeoutSeconds    int     `yaml:"dial_timeout_seconds"`
	ConfirmTimeoutSeconds int     `yaml:"confirm_timeout_seconds"`
	RPCRatePerSecond      float64 `yaml:"rpc_rate_per_second"`
	RPCBurst              int     `yaml:"rpc_burst"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks the startup preconditions: every configured chain must
// have a non-empty RPC URL and a native symbol, and the secret phrase must
// come from somewhere. Violations are fatal configuration errors, not
// per-row failures.
func (c *Config) Validate() error {
	if len(c.Chains) == 0 {
		return perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
			"reason": "no chains configured",
		})
	}

	for name, cc := range c.Chains {
		if cc.RPC == "" {
			return perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"chain":  name,
				"reason": "empty RPC endpoint",
			})
		}
		if cc.NativeSymbol == "" {
			return perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"chain":  name,
				"reason": "missing native symbol",
			})
		}
		if cc.ChainID == 0 {
			return perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"chain":  name,
				"reason": "missing chain id",
			})
		}
	}

	if c.Mnemonic == "" && c.MnemonicFile == "" {
		return perrors.WithSuggestion(
			perrors.WithDetails(perrors.ErrConfiguration, map[string]string{
				"reason": "no secret recovery phrase",
			}),
			"set "+EnvMnemonic+" or "+EnvMnemonicFile,
		)
	}

	return nil
}

// ChainNames returns the configured chain identifiers in sorted order.
func (c *Config) ChainNames() []string {
	names := make([]string, 0, len(c.Chains))
	for name := range c.Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// DefaultHome returns the default payrun home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".payrun"
	}
	return filepath.Join(home, ".payrun")
}
