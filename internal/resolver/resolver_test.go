package resolver

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrun/payrun/internal/batch"
	"github.com/payrun/payrun/internal/config"
	"github.com/payrun/payrun/internal/registry"
	perrors "github.com/payrun/payrun/pkg/errors"
)

const (
	testRecipient = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	usdcMainnet   = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	cfg := &config.Config{
		Chains: map[string]config.ChainConfig{
			"ethereum": {
				RPC:          "https://example.invalid/eth",
				ChainID:      1,
				NativeSymbol: "ETH",
				Tokens: []config.TokenConfig{
					{Symbol: "USDC", Address: usdcMainnet},
				},
			},
			"base": {
				RPC:          "https://example.invalid/base",
				ChainID:      8453,
				NativeSymbol: "ETH",
			},
		},
	}

	reg, err := registry.New(cfg)
	require.NoError(t, err)
	return reg
}

// countingReader returns fixed decimals and counts lookups.
type countingReader struct {
	decimals uint8
	calls    atomic.Int64
}

func (r *countingReader) TokenDecimals(_ context.Context, _ common.Address) (uint8, error) {
	r.calls.Add(1)
	return r.decimals, nil
}

// failingReader simulates a dead endpoint.
type failingReader struct{}

func (failingReader) TokenDecimals(_ context.Context, _ common.Address) (uint8, error) {
	return 0, perrors.Wrap(perrors.ErrConnection, "decimals call failed")
}

// TestResolveNative scales a native amount by 18 decimals.
func TestResolveNative(t *testing.T) {
	r := New(testRegistry(t), nil)

	plan, err := r.Resolve(context.Background(), batch.Instruction{
		Recipient: testRecipient,
		Amount:    "0.5",
		Chain:     "ethereum",
		Token:     "ETH",
	}, failingReader{}) // must not be consulted for native transfers
	require.NoError(t, err)

	assert.Equal(t, KindNative, plan.Kind)
	assert.Equal(t, "500000000000000000", plan.Amount.String())
	assert.Equal(t, uint8(18), plan.Decimals)
	assert.Equal(t, common.HexToAddress(testRecipient), plan.Recipient)
	assert.True(t, plan.Token.IsNative())
}

// TestResolveToken scales a token amount by the live decimals value.
func TestResolveToken(t *testing.T) {
	r := New(testRegistry(t), nil)
	reader := &countingReader{decimals: 6}

	plan, err := r.Resolve(context.Background(), batch.Instruction{
		Recipient: testRecipient,
		Amount:    "10",
		Chain:     "ethereum",
		Token:     "usdc",
	}, reader)
	require.NoError(t, err)

	assert.Equal(t, KindToken, plan.Kind)
	assert.Equal(t, "10000000", plan.Amount.String())
	assert.Equal(t, uint8(6), plan.Decimals)
	assert.Equal(t, common.HexToAddress(usdcMainnet), plan.Contract)
}

// TestResolveCachesDecimals reads decimals once per contract per run.
func TestResolveCachesDecimals(t *testing.T) {
	r := New(testRegistry(t), nil)
	reader := &countingReader{decimals: 6}

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), batch.Instruction{
			Recipient: testRecipient,
			Amount:    "1",
			Chain:     "ethereum",
			Token:     "USDC",
		}, reader)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), reader.calls.Load())
}

// TestResolveInvalidRecipient rejects malformed addresses before any lookup.
func TestResolveInvalidRecipient(t *testing.T) {
	r := New(testRegistry(t), nil)

	tests := []string{"", "0x123", "742d35Cc6634C0532925a3b844Bc454e4438f44e", "0xZZZd35Cc6634C0532925a3b844Bc454e4438f44e"}
	for _, recipient := range tests {
		_, err := r.Resolve(context.Background(), batch.Instruction{
			Recipient: recipient,
			Amount:    "1",
			Chain:     "ethereum",
			Token:     "ETH",
		}, failingReader{})
		require.Error(t, err, "recipient %q", recipient)
		assert.True(t, perrors.Is(err, perrors.ErrInvalidRecipient))
	}
}

// TestResolveUnsupportedChain surfaces the registry error unchanged.
func TestResolveUnsupportedChain(t *testing.T) {
	r := New(testRegistry(t), nil)

	_, err := r.Resolve(context.Background(), batch.Instruction{
		Recipient: testRecipient,
		Amount:    "1",
		Chain:     "polygon",
		Token:     "ETH",
	}, failingReader{})
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrUnsupportedChain))
}

// TestResolveUnsupportedToken rejects tokens missing from the chain's table.
func TestResolveUnsupportedToken(t *testing.T) {
	r := New(testRegistry(t), nil)

	_, err := r.Resolve(context.Background(), batch.Instruction{
		Recipient: testRecipient,
		Amount:    "1",
		Chain:     "base",
		Token:     "USDC",
	}, failingReader{})
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrUnsupportedToken))
}

// TestResolveInvalidAmount rejects malformed amounts before the decimals read.
func TestResolveInvalidAmount(t *testing.T) {
	r := New(testRegistry(t), nil)
	reader := &countingReader{decimals: 6}

	for _, amount := range []string{"abc", "-1", "1.2.3"} {
		_, err := r.Resolve(context.Background(), batch.Instruction{
			Recipient: testRecipient,
			Amount:    amount,
			Chain:     "ethereum",
			Token:     "USDC",
		}, reader)
		require.Error(t, err, "amount %q", amount)
		assert.True(t, perrors.Is(err, perrors.ErrInvalidAmount))
	}

	assert.Equal(t, int64(0), reader.calls.Load())
}

// TestResolveDecimalsFailure propagates a dead-endpoint error.
func TestResolveDecimalsFailure(t *testing.T) {
	r := New(testRegistry(t), nil)

	_, err := r.Resolve(context.Background(), batch.Instruction{
		Recipient: testRecipient,
		Amount:    "1",
		Chain:     "ethereum",
		Token:     "USDC",
	}, failingReader{})
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrConnection))
}

// TestDecimalsFunc adapts a closure to the reader interface.
func TestDecimalsFunc(t *testing.T) {
	reader := DecimalsFunc(func(_ context.Context, _ common.Address) (uint8, error) {
		return 8, nil
	})

	decimals, err := reader.TokenDecimals(context.Background(), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, uint8(8), decimals)
}
