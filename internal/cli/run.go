package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/payrun/payrun/internal/batch"
	"github.com/payrun/payrun/internal/chain"
	"github.com/payrun/payrun/internal/dispatch"
	"github.com/payrun/payrun/internal/metrics"
	"github.com/payrun/payrun/internal/registry"
	"github.com/payrun/payrun/internal/resolver"
	"github.com/payrun/payrun/internal/runner"
	"github.com/payrun/payrun/internal/secret"
	"github.com/payrun/payrun/internal/signer"
	"github.com/payrun/payrun/internal/wallet"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var (
	runInputPath   string
	runResultsPath string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatch a batch of payments from a CSV file",
	Long: `Run reads payment instructions from the input CSV, sends each transfer in
order, and appends one record per payment to the results file: the
transaction hash for confirmed transfers or FAILED for rows that could not
be dispatched. Rows with an empty address or amount are skipped.

A failed row never stops the batch. The command exits non-zero only for
startup problems such as missing configuration or an unreadable input file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBatch(cmd)
	},
}

//nolint:gocognit // Wiring the full pipeline is sequential setup, clearer inline
func runBatch(cmd *cobra.Command) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	mnemonic, err := secret.LoadMnemonic(cfg)
	if err != nil {
		return err
	}

	identity, err := wallet.FromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}
	logger.Debug("sender address %s", identity.Address())

	reg, err := registry.New(cfg)
	if err != nil {
		return err
	}

	instructions, err := batch.ReadInstructionsFile(runInputPath)
	if err != nil {
		return err
	}

	writer, err := batch.NewCSVResultWriter(runResultsPath)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Close() }()

	limiter := chain.NewRateLimiter(cfg.Dispatch.RPCRatePerSecond, cfg.Dispatch.RPCBurst)
	factory := signer.NewFactory(identity,
		time.Duration(cfg.Dispatch.DialTimeoutSeconds)*time.Second, limiter)
	defer factory.Close()

	runMetrics := metrics.New()
	engine := dispatch.NewEngine(
		time.Duration(cfg.Dispatch.ConfirmTimeoutSeconds)*time.Second,
		limiter, logger, runMetrics)

	r := runner.New(runner.Deps{
		Registry: reg,
		Factory:  factory,
		Resolver: resolver.New(reg, logger),
		Engine:   engine,
		Writer:   writer,
		Logger:   logger,
		Metrics:  runMetrics,
	})

	summary, err := r.Run(cmd.Context(), instructions)
	if err != nil {
		return err
	}

	if closeErr := writer.Close(); closeErr != nil {
		return closeErr
	}

	if err = printSummary(summary); err != nil {
		return err
	}
	if cfg.Verbose {
		_ = formatter.Println(runMetrics.Snapshot().String())
	}
	return nil
}

func printSummary(summary runner.Summary) error {
	if formatter.IsJSON() {
		return formatter.Print(map[string]int{
			"rows":    summary.Rows,
			"sent":    summary.Sent,
			"failed":  summary.Failed,
			"skipped": summary.Skipped,
		})
	}
	return formatter.Println(fmt.Sprintf("%d rows: %d sent, %d failed, %d skipped (results: %s)",
		summary.Rows, summary.Sent, summary.Failed, summary.Skipped, runResultsPath))
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	runCmd.Flags().StringVarP(&runInputPath, "input", "i", "", "input CSV of payment instructions (required)")
	runCmd.Flags().StringVarP(&runResultsPath, "results", "r", "results.csv", "output CSV of per-payment results")
	_ = runCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(runCmd)
}
