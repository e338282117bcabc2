package config

// Default RPC endpoints use PublicNode (Allnodes), a privacy-first provider
// that requires no API key.
const (
	DefaultEthereumRPCURL = "https://ethereum-rpc.publicnode.com"
	DefaultBaseRPCURL     = "https://base-rpc.publicnode.com"
	DefaultArbitrumRPCURL = "https://arbitrum-one-rpc.publicnode.com"
	DefaultOptimismRPCURL = "https://optimism-rpc.publicnode.com"
	DefaultBSCRPCURL      = "https://bsc-rpc.publicnode.com"
)

// Dispatch timing defaults.
const (
	DefaultDialTimeoutSeconds    = 15
	DefaultConfirmTimeoutSeconds = 180
	DefaultRPCRatePerSecond      = 5.0
	DefaultRPCBurst              = 10
)

// Defaults returns the default configuration: the closed set of supported
// chains with their canonical stablecoin contracts.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.payrun",
		Chains: map[string]ChainConfig{
			"ethereum": {
				RPC:          DefaultEthereumRPCURL,
				ChainID:      1,
				NativeSymbol: "ETH",
				Tokens: []TokenConfig{
					{Symbol: "USDC", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
					{Symbol: "USDT", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"},
				},
			},
			"base": {
				RPC:          DefaultBaseRPCURL,
				ChainID:      8453,
				NativeSymbol: "ETH",
				Tokens: []TokenConfig{
					{Symbol: "USDC", Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"},
				},
			},
			"arbitrum": {
				RPC:          DefaultArbitrumRPCURL,
				ChainID:      42161,
				NativeSymbol: "ETH",
				Tokens: []TokenConfig{
					{Symbol: "USDC", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"},
					{Symbol: "USDT", Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9"},
				},
			},
			"optimism": {
				RPC:          DefaultOptimismRPCURL,
				ChainID:      10,
				NativeSymbol: "ETH",
				Tokens: []TokenConfig{
					{Symbol: "USDC", Address: "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85"},
				},
			},
			"bsc": {
				RPC:          DefaultBSCRPCURL,
				ChainID:      56,
				NativeSymbol: "BNB",
				Tokens: []TokenConfig{
					{Symbol: "USDC", Address: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d"},
					{Symbol: "USDT", Address: "0x55d398326f99059fF775485246999027B3197955"},
				},
			},
		},
		Dispatch: DispatchConfig{
			DialTimeoutSeconds:    DefaultDialTimeoutSeconds,
			ConfirmTimeoutSeconds: DefaultConfirmTimeoutSeconds,
			RPCRatePerSecond:      DefaultRPCRatePerSecond,
			RPCBurst:              DefaultRPCBurst,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.payrun/payrun.log",
		},
	}
}
