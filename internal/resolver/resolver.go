// Package resolver turns raw payment instructions into executable transfer
// plans. All static validation (recipient format, chain/token support,
// amount syntax) happens before any network access; the only remote read is
// the decimals() lookup for token transfers, supplied by the caller.
package resolver

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/payrun/payrun/internal/batch"
	"github.com/payrun/payrun/internal/chain"
	"github.com/payrun/payrun/internal/config"
	"github.com/payrun/payrun/internal/registry"
	"github.com/payrun/payrun/internal/wallet"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// Kind distinguishes the two transfer shapes.
type Kind int

const (
	// KindNative moves the chain's native currency as the transaction value.
	KindNative Kind = iota
	// KindToken calls transfer() on a token contract.
	KindToken
)

// Plan is a fully validated transfer ready for dispatch. Amount is in base
// units: wei for native transfers, token base units otherwise.
type Plan struct {
	Kind      Kind
	Recipient common.Address
	Token     registry.Token
	Contract  common.Address // zero for native transfers
	Amount    *big.Int
	Decimals  uint8
}

// DecimalsReader supplies the live decimals() value for a token contract.
type DecimalsReader interface {
	TokenDecimals(ctx context.Context, contract common.Address) (uint8, error)
}

// DecimalsFunc adapts a function to the DecimalsReader interface.
type DecimalsFunc func(ctx context.Context, contract common.Address) (uint8, error)

// TokenDecimals calls the wrapped function.
func (f DecimalsFunc) TokenDecimals(ctx context.Context, contract common.Address) (uint8, error) {
	return f(ctx, contract)
}

// Resolver validates instructions against the chain registry and caches
// token decimals for the lifetime of a run.
type Resolver struct {
	registry *registry.Registry
	logger   *config.Logger

	mu       sync.Mutex
	decimals map[string]uint8 // chain + "/" + lower(contract) -> decimals
}

// New creates a resolver backed by the given registry.
func New(reg *registry.Registry, logger *config.Logger) *Resolver {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Resolver{
		registry: reg,
		logger:   logger,
		decimals: make(map[string]uint8),
	}
}

// Resolve validates one instruction and produces a transfer plan. The
// reader is consulted only for token transfers whose decimals are not yet
// cached, and only after every static check has passed.
func (r *Resolver) Resolve(ctx context.Context, instruction batch.Instruction, reader DecimalsReader) (*Plan, error) {
	recipient := strings.TrimSpace(instruction.Recipient)
	if !wallet.IsValidAddress(recipient) {
		return nil, perrors.WithDetails(
			perrors.Wrap(perrors.ErrInvalidRecipient, "recipient %q is not a valid address", recipient),
			map[string]string{"recipient": recipient})
	}

	token, err := r.registry.ResolveToken(instruction.Chain, instruction.Token)
	if err != nil {
		return nil, err
	}

	if token.IsNative() {
		amount, parseErr := chain.ParseDecimalAmount(instruction.Amount, chain.NativeDecimals,
			invalidAmount(instruction.Amount))
		if parseErr != nil {
			return nil, parseErr
		}

		return &Plan{
			Kind:      KindNative,
			Recipient: common.HexToAddress(recipient),
			Token:     token,
			Amount:    amount,
			Decimals:  chain.NativeDecimals,
		}, nil
	}

	// Syntax check before the decimals read so a malformed amount never
	// costs an RPC call.
	if _, parseErr := chain.ParseDecimalAmount(instruction.Amount, chain.NativeDecimals,
		invalidAmount(instruction.Amount)); parseErr != nil {
		return nil, parseErr
	}

	contract := common.HexToAddress(token.Address)
	decimals, err := r.tokenDecimals(ctx, token, contract, reader)
	if err != nil {
		return nil, err
	}

	amount, err := chain.ParseDecimalAmount(instruction.Amount, int(decimals),
		invalidAmount(instruction.Amount))
	if err != nil {
		return nil, err
	}

	return &Plan{
		Kind:      KindToken,
		Recipient: common.HexToAddress(recipient),
		Token:     token,
		Contract:  contract,
		Amount:    amount,
		Decimals:  decimals,
	}, nil
}

// tokenDecimals returns the cached decimals for a contract, reading it
// through the reader on first use per run.
func (r *Resolver) tokenDecimals(ctx context.Context, token registry.Token, contract common.Address, reader DecimalsReader) (uint8, error) {
	key := token.Chain + "/" + strings.ToLower(token.Address)

	r.mu.Lock()
	cached, ok := r.decimals[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	decimals, err := reader.TokenDecimals(ctx, contract)
	if err != nil {
		return 0, err
	}

	r.logger.Debug("resolved %s decimals on %s: %d", token.Symbol, token.Chain, decimals)

	r.mu.Lock()
	r.decimals[key] = decimals
	r.mu.Unlock()
	return decimals, nil
}

func invalidAmount(amount string) error {
	return perrors.WithDetails(
		perrors.Wrap(perrors.ErrInvalidAmount, "amount %q is not a valid decimal", amount),
		map[string]string{"amount": amount})
}
