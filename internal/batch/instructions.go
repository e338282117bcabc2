// Package batch handles the CSV surfaces of a payment run: reading payment
// instructions and appending one result record per dispatched row.
package batch

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	perrors "github.com/payrun/payrun/pkg/errors"
)

// Input column names. Header matching is case-insensitive and ignores
// surrounding whitespace; extra columns are ignored.
const (
	ColumnRecipient = "EVM_WALLET_ADDRESS"
	ColumnAmount    = "AMOUNT"
	ColumnChain     = "CHAIN"
	ColumnToken     = "TOKEN"
)

// Instruction is one payment row as read from the input file, untouched
// except for whitespace trimming. Validation happens downstream so that a
// bad row never blocks the rest of the batch.
type Instruction struct {
	Row       int // 1-based data row number, for logging
	Recipient string
	Amount    string
	Chain     string
	Token     string
}

// IsSkippable reports whether the row carries no payment at all: rows with
// an empty recipient or amount are silently skipped rather than failed.
func (i Instruction) IsSkippable() bool {
	return i.Recipient == "" || i.Amount == ""
}

// ReadInstructionsFile reads payment instructions from a CSV file.
func ReadInstructionsFile(path string) ([]Instruction, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the operator's CLI flag
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrBatchInput, err),
			"failed to open input file %s", path)
	}
	defer func() { _ = f.Close() }()

	return ReadInstructions(f)
}

// ReadInstructions reads payment instructions from CSV data. The first
// record is the header; the four payment columns are located by name.
func ReadInstructions(r io.Reader) ([]Instruction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Rows may carry trailing extra columns
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, perrors.Wrap(perrors.WithCause(perrors.ErrBatchInput, err),
			"failed to read input header")
	}

	columns, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var instructions []Instruction
	row := 0
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, perrors.Wrap(perrors.WithCause(perrors.ErrBatchInput, readErr),
				"failed to read input row %d", row+1)
		}

		row++
		instructions = append(instructions, Instruction{
			Row:       row,
			Recipient: field(record, columns[ColumnRecipient]),
			Amount:    field(record, columns[ColumnAmount]),
			Chain:     field(record, columns[ColumnChain]),
			Token:     field(record, columns[ColumnToken]),
		})
	}

	return instructions, nil
}

// locateColumns maps the required column names to their header positions.
func locateColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, 4)
	for idx, name := range header {
		key := strings.ToUpper(strings.TrimSpace(name))
		switch key {
		case ColumnRecipient, ColumnAmount, ColumnChain, ColumnToken:
			if _, dup := columns[key]; !dup {
				columns[key] = idx
			}
		}
	}

	for _, required := range []string{ColumnRecipient, ColumnAmount, ColumnChain, ColumnToken} {
		if _, ok := columns[required]; !ok {
			return nil, perrors.WithDetails(
				perrors.Wrap(perrors.ErrBatchInput, "input file is missing the %s column", required),
				map[string]string{"column": required})
		}
	}

	return columns, nil
}

// field returns the trimmed value at idx, or empty when the row is short.
func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
