package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "PAYRUN_HOME"
	EnvMnemonic     = "PAYRUN_MNEMONIC"      // #nosec G101 -- const name, not a credential
	EnvMnemonicFile = "PAYRUN_MNEMONIC_FILE" // #nosec G101 -- const name, not a credential
	EnvLogLevel     = "PAYRUN_LOG_LEVEL"
	EnvVerbose      = "PAYRUN_VERBOSE"

	// envRPCSuffix builds PAYRUN_<CHAIN>_RPC per configured chain.
	envRPCPrefix = "PAYRUN_"
	envRPCSuffix = "_RPC"
)

// RPCEnvVar returns the environment variable name that overrides the RPC
// endpoint of the given chain, e.g. "base" -> "PAYRUN_BASE_RPC".
func RPCEnvVar(chainName string) string {
	return envRPCPrefix + strings.ToUpper(chainName) + envRPCSuffix
}

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvMnemonic); v != "" {
		cfg.Mnemonic = v
	}

	if v := os.Getenv(EnvMnemonicFile); v != "" {
		cfg.MnemonicFile = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Verbose = parseBool(v)
	}

	for name, cc := range cfg.Chains {
		if v := os.Getenv(RPCEnvVar(name)); v != "" {
			cc.RPC = strings.TrimSpace(v)
			cfg.Chains[name] = cc
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
