// Package runner coordinates a payment batch: rows are processed strictly
// in input order, one at a time, and every non-skipped row produces exactly
// one output record. A row failure is logged and recorded but never stops
// the batch; only a result-write failure aborts the run.
package runner

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/payrun/payrun/internal/batch"
	"github.com/payrun/payrun/internal/chain"
	"github.com/payrun/payrun/internal/config"
	"github.com/payrun/payrun/internal/dispatch"
	"github.com/payrun/payrun/internal/metrics"
	"github.com/payrun/payrun/internal/registry"
	"github.com/payrun/payrun/internal/resolver"
	"github.com/payrun/payrun/internal/signer"
	perrors "github.com/payrun/payrun/pkg/errors"
)

// State tracks a row through its lifecycle.
type State int

const (
	// StatePending means the row has been read but not yet validated.
	StatePending State = iota
	// StateValidated means the row resolved to an executable plan.
	StateValidated
	// StateSent means the transfer was confirmed on chain.
	StateSent
	// StateSkipped means the row carried no payment and emitted no record.
	StateSkipped
	// StateFailed means the row emitted a FAILED record.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidated:
		return "validated"
	case StateSent:
		return "sent"
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Summary reports the outcome counts of one run.
type Summary struct {
	Rows    int
	Sent    int
	Failed  int
	Skipped int
}

// Deps are the collaborators a runner drives.
type Deps struct {
	Registry *registry.Registry
	Factory  *signer.Factory
	Resolver *resolver.Resolver
	Engine   *dispatch.Engine
	Writer   batch.ResultWriter
	Logger   *config.Logger
	Metrics  *metrics.Metrics
}

// Runner executes payment batches sequentially.
type Runner struct {
	deps Deps
}

// New builds a runner. Logger and Metrics may be nil.
func New(deps Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = config.NullLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &Runner{deps: deps}
}

// Run processes every instruction in order. The returned error is non-nil
// only for run-fatal conditions (result write failure or context
// cancellation); row-level failures are reflected in the summary.
func (r *Runner) Run(ctx context.Context, instructions []batch.Instruction) (Summary, error) {
	summary := Summary{}

	for _, instruction := range instructions {
		if err := ctx.Err(); err != nil {
			return summary, perrors.Wrap(err, "run interrupted at row %d", instruction.Row)
		}

		summary.Rows++
		r.deps.Metrics.RecordRow()

		if instruction.IsSkippable() {
			summary.Skipped++
			r.deps.Metrics.RecordSkipped()
			r.deps.Logger.Debug("row %d %s: missing recipient or amount", instruction.Row, StateSkipped)
			continue
		}

		hash, err := r.dispatchRow(ctx, instruction)
		if err != nil {
			summary.Failed++
			r.deps.Metrics.RecordFailed()
			r.deps.Logger.Error("row %d %s: recipient=%s amount=%s chain=%s token=%s: %v",
				instruction.Row, StateFailed,
				instruction.Recipient, instruction.Amount, instruction.Chain, instruction.Token, err)
			hash = batch.FailedMarker
		} else {
			summary.Sent++
			r.deps.Metrics.RecordSent()
			r.deps.Logger.Debug("row %d %s: tx=%s", instruction.Row, StateSent, hash)
		}

		result := batch.Result{
			Recipient: instruction.Recipient,
			Amount:    instruction.Amount,
			Chain:     instruction.Chain,
			Token:     instruction.Token,
			TxHash:    hash,
		}
		if writeErr := r.deps.Writer.Write(result); writeErr != nil {
			return summary, perrors.Wrap(writeErr, "aborting run at row %d", instruction.Row)
		}
	}

	return summary, nil
}

// dispatchRow takes one row from pending to sent. Static validation runs
// before any network access: the endpoint is dialed lazily, so a row that
// fails chain, token, recipient, or amount checks never touches the network.
func (r *Runner) dispatchRow(ctx context.Context, instruction batch.Instruction) (string, error) {
	endpoint, err := r.deps.Registry.ResolveEndpoint(instruction.Chain)
	if err != nil {
		return "", err
	}

	var bound *signer.Signer
	bind := func() (*signer.Signer, error) {
		if bound == nil {
			var bindErr error
			bound, bindErr = r.deps.Factory.Bind(ctx, endpoint)
			if bindErr != nil {
				return nil, bindErr
			}
		}
		return bound, nil
	}

	// Token rows bind mid-resolution to read live decimals; native rows
	// bind only after the plan is complete.
	reader := resolver.DecimalsFunc(func(ctx context.Context, contract common.Address) (uint8, error) {
		s, bindErr := bind()
		if bindErr != nil {
			return 0, bindErr
		}
		return s.TokenDecimals(ctx, contract)
	})

	plan, err := r.deps.Resolver.Resolve(ctx, instruction, reader)
	if err != nil {
		return "", err
	}
	r.deps.Logger.Debug("row %d %s: %s %s on %s",
		instruction.Row, StateValidated,
		chain.FormatDecimalAmount(plan.Amount, int(plan.Decimals)), instruction.Token, endpoint.Chain)

	s, err := bind()
	if err != nil {
		return "", err
	}
	return r.deps.Engine.Submit(ctx, s, plan)
}
