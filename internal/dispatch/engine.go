// Package dispatch submits resolved transfer plans and awaits confirmation.
// One plan produces at most one transaction: there are no retries and no
// replacement transactions, so a dead row never double-spends.
package dispatch

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/payrun/payrun/internal/chain"
	"github.com/payrun/payrun/internal/config"
	"github.com/payrun/payrun/internal/erc20"
	"github.com/payrun/payrun/internal/metrics"
	"github.com/payrun/payrun/internal/resolver"
	"github.com/payrun/payrun/internal/signer"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// Gas limit fallbacks used when eth_estimateGas is unavailable.
const (
	fallbackGasNative = 21_000
	fallbackGasToken  = 65_000
)

// receiptPollInterval is how often the engine asks for a receipt while
// awaiting confirmation.
const receiptPollInterval = 3 * time.Second

// Engine submits plans through bound signers.
type Engine struct {
	confirmTimeout time.Duration
	limiter        *chain.RateLimiter
	logger         *config.Logger
	metrics        *metrics.Metrics
}

// NewEngine builds a dispatch engine. The confirm timeout bounds the wait
// for a receipt after submission.
func NewEngine(confirmTimeout time.Duration, limiter *chain.RateLimiter, logger *config.Logger, m *metrics.Metrics) *Engine {
	if limiter == nil {
		limiter = chain.DefaultRateLimiter()
	}
	if logger == nil {
		logger = config.NullLogger()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Engine{
		confirmTimeout: confirmTimeout,
		limiter:        limiter,
		logger:         logger,
		metrics:        m,
	}
}

// Submit signs, broadcasts, and confirms one transfer. It returns the
// transaction hash once the transaction is mined. Failures after broadcast
// still return the hash alongside the error so the caller can log it.
func (e *Engine) Submit(ctx context.Context, s *signer.Signer, plan *resolver.Plan) (string, error) {
	tx, err := e.buildTx(ctx, s, plan)
	if err != nil {
		return "", err
	}

	signed, err := s.SignTx(tx)
	if err != nil {
		return "", err
	}

	endpoint := s.Endpoint()
	if err = e.limiter.Wait(ctx, endpoint.RPCURL); err != nil {
		return "", perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
			"rate limit wait interrupted")
	}

	sendErr := s.Client().SendTransaction(ctx, signed)
	e.metrics.RecordRPC(sendErr)
	if sendErr != nil {
		return "", perrors.WithDetails(
			perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, sendErr),
				"transaction rejected by %s", endpoint.Chain),
			map[string]string{
				"chain":     endpoint.Chain,
				"recipient": plan.Recipient.Hex(),
			})
	}

	hash := signed.Hash()
	e.logger.Debug("submitted %s transfer on %s: %s", plan.Token.Symbol, endpoint.Chain, hash.Hex())

	start := time.Now()
	receipt, err := e.awaitReceipt(ctx, s, hash)
	if err != nil {
		return hash.Hex(), err
	}
	e.metrics.RecordConfirmation(time.Since(start))

	if receipt.Status != types.ReceiptStatusSuccessful {
		return hash.Hex(), perrors.WithDetails(
			perrors.Wrap(perrors.ErrSubmission, "transaction reverted on %s", endpoint.Chain),
			map[string]string{
				"chain":   endpoint.Chain,
				"tx_hash": hash.Hex(),
			})
	}

	e.logger.Debug("confirmed %s in block %d", hash.Hex(), receipt.BlockNumber.Uint64())
	return hash.Hex(), nil
}

// buildTx assembles and prices a legacy transaction for the plan.
func (e *Engine) buildTx(ctx context.Context, s *signer.Signer, plan *resolver.Plan) (*types.Transaction, error) {
	client := s.Client()
	endpoint := s.Endpoint()

	if err := e.limiter.Wait(ctx, endpoint.RPCURL); err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
			"rate limit wait interrupted")
	}

	nonce, err := client.PendingNonceAt(ctx, s.Address())
	e.metrics.RecordRPC(err)
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
			"failed to fetch nonce on %s", endpoint.Chain)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	e.metrics.RecordRPC(err)
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
			"failed to fetch gas price on %s", endpoint.Chain)
	}

	var (
		to    common.Address
		value *big.Int
		data  []byte
	)
	switch plan.Kind {
	case resolver.KindNative:
		to = plan.Recipient
		value = plan.Amount
	case resolver.KindToken:
		to = plan.Contract
		value = big.NewInt(0)
		data, err = erc20.PackTransfer(plan.Recipient, plan.Amount)
		if err != nil {
			return nil, perrors.Wrap(perrors.WithCause(perrors.ErrSubmission, err),
				"failed to encode token transfer")
		}
	default:
		return nil, perrors.Wrap(perrors.ErrSubmission, "unknown transfer kind %d", plan.Kind)
	}

	gasLimit := e.estimateGas(ctx, s, ethereum.CallMsg{
		From:  s.Address(),
		To:    &to,
		Value: value,
		Data:  data,
	}, plan.Kind)

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	}), nil
}

// estimateGas asks the node for a gas estimate and falls back to a fixed
// limit when the node cannot provide one.
func (e *Engine) estimateGas(ctx context.Context, s *signer.Signer, msg ethereum.CallMsg, kind resolver.Kind) uint64 {
	estimate, err := s.Client().EstimateGas(ctx, msg)
	e.metrics.RecordRPC(err)
	if err == nil && estimate > 0 {
		return estimate
	}

	fallback := uint64(fallbackGasNative)
	if kind == resolver.KindToken {
		fallback = fallbackGasToken
	}
	e.logger.Debug("gas estimation failed on %s, using fallback %d: %v",
		s.Endpoint().Chain, fallback, err)
	return fallback
}

// awaitReceipt polls for the transaction receipt until it appears or the
// confirm timeout elapses.
func (e *Engine) awaitReceipt(ctx context.Context, s *signer.Signer, hash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	endpoint := s.Endpoint()
	for {
		receipt, err := s.Client().TransactionReceipt(waitCtx, hash)
		if err == nil && receipt != nil {
			e.metrics.RecordRPC(nil)
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			e.metrics.RecordRPC(err)
		}

		select {
		case <-waitCtx.Done():
			return nil, perrors.WithDetails(
				perrors.Wrap(perrors.WithCause(perrors.ErrReceiptMissing, waitCtx.Err()),
					"no receipt for %s within %s", hash.Hex(), e.confirmTimeout),
				map[string]string{
					"chain":   endpoint.Chain,
					"tx_hash": hash.Hex(),
				})
		case <-ticker.C:
		}
	}
}
