// Package signer binds a derived payment identity to individual chain
// endpoints. Each bound signer wraps a verified RPC connection and signs
// transactions for exactly one chain ID.
package signer

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/payrun/payrun/internal/chain"
	"github.com/payrun/payrun/internal/erc20"
	"github.com/payrun/payrun/internal/registry"
	"github.com/payrun/payrun/internal/wallet"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// Signer is a chain-scoped view of the payment identity: one RPC client,
// one verified chain ID, one signing key.
type Signer struct {
	identity *wallet.Identity
	endpoint registry.Endpoint
	client   *ethclient.Client
	chainID  *big.Int
	limiter  *chain.RateLimiter
}

// Address returns the sender address as a go-ethereum address value.
func (s *Signer) Address() common.Address {
	return common.HexToAddress(s.identity.Address())
}

// ChainID returns the chain ID confirmed against the connected node.
func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// Endpoint returns the endpoint this signer is bound to.
func (s *Signer) Endpoint() registry.Endpoint {
	return s.endpoint
}

// Client exposes the underlying RPC client for dispatch operations.
func (s *Signer) Client() *ethclient.Client {
	return s.client
}

// SignTx signs a transaction for this signer's chain using EIP-155 replay
// protection.
func (s *Signer) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.NewEIP155Signer(s.chainID), s.identity.PrivateKey())
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
			"failed to sign transaction for chain %s", s.endpoint.Chain)
	}
	return signed, nil
}

// TokenDecimals reads the decimals() value from a token contract on this
// signer's chain.
func (s *Signer) TokenDecimals(ctx context.Context, contract common.Address) (uint8, error) {
	data, err := erc20.PackDecimals()
	if err != nil {
		return 0, perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
			"failed to build decimals call")
	}

	if err = s.limiter.Wait(ctx, s.endpoint.RPCURL); err != nil {
		return 0, perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
			"rate limit wait interrupted")
	}

	out, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return 0, perrors.WithDetails(
			perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
				"decimals call failed on %s", s.endpoint.Chain),
			map[string]string{
				"chain":    s.endpoint.Chain,
				"contract": contract.Hex(),
			})
	}

	decimals, err := erc20.UnpackDecimals(out)
	if err != nil {
		return 0, perrors.WithDetails(
			perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
				"token returned malformed decimals"),
			map[string]string{
				"chain":    s.endpoint.Chain,
				"contract": contract.Hex(),
			})
	}
	return decimals, nil
}

// Close releases the RPC connection.
func (s *Signer) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Factory creates and caches one signer per chain for the lifetime of a run.
type Factory struct {
	identity    *wallet.Identity
	dialTimeout time.Duration
	limiter     *chain.RateLimiter

	mu      sync.Mutex
	signers map[string]*Signer
}

// NewFactory wraps a derived identity. The dial timeout bounds endpoint
// connection and chain-ID verification; the limiter throttles RPC traffic
// per endpoint.
func NewFactory(identity *wallet.Identity, dialTimeout time.Duration, limiter *chain.RateLimiter) *Factory {
	if limiter == nil {
		limiter = chain.DefaultRateLimiter()
	}
	return &Factory{
		identity:    identity,
		dialTimeout: dialTimeout,
		limiter:     limiter,
		signers:     make(map[string]*Signer),
	}
}

// Address returns the sender address shared by all bound signers.
func (f *Factory) Address() string {
	return f.identity.Address()
}

// Bind returns a signer for the given endpoint, dialing and verifying the
// node's chain ID on first use. Subsequent calls for the same chain reuse
// the cached connection.
func (f *Factory) Bind(ctx context.Context, endpoint registry.Endpoint) (*Signer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cached, ok := f.signers[endpoint.Chain]; ok {
		return cached, nil
	}

	if err := f.limiter.Wait(ctx, endpoint.RPCURL); err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
			"rate limit wait interrupted")
	}

	dialCtx, cancel := context.WithTimeout(ctx, f.dialTimeout)
	defer cancel()

	client, err := ethclient.DialContext(dialCtx, endpoint.RPCURL)
	if err != nil {
		return nil, perrors.WithDetails(
			perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
				"failed to connect to %s endpoint", endpoint.Chain),
			map[string]string{
				"chain": endpoint.Chain,
				"rpc":   endpoint.RPCURL,
			})
	}

	nodeChainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, perrors.WithDetails(
			perrors.Wrap(perrors.WithCause(perrors.ErrConnection, err),
				"failed to read chain ID from %s endpoint", endpoint.Chain),
			map[string]string{
				"chain": endpoint.Chain,
				"rpc":   endpoint.RPCURL,
			})
	}

	if nodeChainID.Int64() != endpoint.ChainID {
		client.Close()
		return nil, perrors.WithDetails(
			perrors.Wrap(perrors.ErrConnection,
				"endpoint for %s reports chain ID %d, expected %d",
				endpoint.Chain, nodeChainID.Int64(), endpoint.ChainID),
			map[string]string{
				"chain":    endpoint.Chain,
				"rpc":      endpoint.RPCURL,
				"got":      fmt.Sprintf("%d", nodeChainID.Int64()),
				"expected": fmt.Sprintf("%d", endpoint.ChainID),
			})
	}

	bound := &Signer{
		identity: f.identity,
		endpoint: endpoint,
		client:   client,
		chainID:  nodeChainID,
		limiter:  f.limiter,
	}
	f.signers[endpoint.Chain] = bound
	return bound, nil
}

// Close releases every cached connection.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.signers {
		s.Close()
	}
	f.signers = make(map[string]*Signer)
}
