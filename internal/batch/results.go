package batch

import (
	"encoding/csv"
	"os"

	perrors "github.com/payrun/payrun/pkg/errors"
)

// FailedMarker is written in place of a transaction hash when a row could
// not be dispatched.
const FailedMarker = "FAILED"

// Result is one output record: the original instruction fields plus the
// transaction hash, or FailedMarker when dispatch failed.
type Result struct {
	Recipient string
	Amount    string
	Chain     string
	Token     string
	TxHash    string
}

// ResultWriter records one result per non-skipped row. Implementations must
// persist each record before returning so that a crash mid-batch loses at
// most the row in flight.
type ResultWriter interface {
	Write(result Result) error
}

// CSVResultWriter appends result records to a CSV file, flushing after
// every record.
type CSVResultWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVResultWriter creates the output file and writes the header row.
func NewCSVResultWriter(path string) (*CSVResultWriter, error) {
	f, err := os.Create(path) //nolint:gosec // Path comes from the operator's CLI flag
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to create output file %s", path)
	}

	w := csv.NewWriter(f)
	header := []string{ColumnRecipient, ColumnAmount, ColumnChain, ColumnToken, "TX_HASH"}
	if err = w.Write(header); err != nil {
		_ = f.Close()
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to write output header")
	}
	w.Flush()
	if err = w.Error(); err != nil {
		_ = f.Close()
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to write output header")
	}

	return &CSVResultWriter{file: f, writer: w}, nil
}

// Write appends one record and flushes it to disk immediately.
func (w *CSVResultWriter) Write(result Result) error {
	record := []string{result.Recipient, result.Amount, result.Chain, result.Token, result.TxHash}
	if err := w.writer.Write(record); err != nil {
		return perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to write result record")
	}

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to flush result record")
	}

	if err := w.file.Sync(); err != nil {
		return perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to sync output file")
	}
	return nil
}

// Close flushes any buffered output and closes the file.
func (w *CSVResultWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		_ = w.file.Close()
		return perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to flush output file")
	}

	if err := w.file.Close(); err != nil {
		return perrors.Wrap(perrors.WithCause(perrors.ErrResultWrite, err),
			"failed to close output file")
	}
	return nil
}
