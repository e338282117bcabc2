// Package metrics tracks run-level counters for a payment batch. All
// counters are atomic so dispatch internals can record without locking.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics accumulates counters over one run.
type Metrics struct {
	rowsTotal   atomic.Int64
	rowsSent    atomic.Int64
	rowsFailed  atomic.Int64
	rowsSkipped atomic.Int64

	rpcCalls  atomic.Int64
	rpcErrors atomic.Int64

	confirmTotalNanos atomic.Int64
	confirmCount      atomic.Int64
}

// New returns a zeroed metrics set.
func New() *Metrics {
	return &Metrics{}
}

// RecordRow counts one input row.
func (m *Metrics) RecordRow() { m.rowsTotal.Add(1) }

// RecordSent counts one confirmed transfer.
func (m *Metrics) RecordSent() { m.rowsSent.Add(1) }

// RecordFailed counts one row that produced a FAILED record.
func (m *Metrics) RecordFailed() { m.rowsFailed.Add(1) }

// RecordSkipped counts one row skipped for missing fields.
func (m *Metrics) RecordSkipped() { m.rowsSkipped.Add(1) }

// RecordRPC counts one RPC round trip and whether it errored.
func (m *Metrics) RecordRPC(err error) {
	m.rpcCalls.Add(1)
	if err != nil {
		m.rpcErrors.Add(1)
	}
}

// RecordConfirmation records the submit-to-receipt latency of one transfer.
func (m *Metrics) RecordConfirmation(d time.Duration) {
	m.confirmTotalNanos.Add(int64(d))
	m.confirmCount.Add(1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	RowsTotal   int64
	RowsSent    int64
	RowsFailed  int64
	RowsSkipped int64
	RPCCalls    int64
	RPCErrors   int64
	AvgConfirm  time.Duration
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		RowsTotal:   m.rowsTotal.Load(),
		RowsSent:    m.rowsSent.Load(),
		RowsFailed:  m.rowsFailed.Load(),
		RowsSkipped: m.rowsSkipped.Load(),
		RPCCalls:    m.rpcCalls.Load(),
		RPCErrors:   m.rpcErrors.Load(),
	}
	if count := m.confirmCount.Load(); count > 0 {
		s.AvgConfirm = time.Duration(m.confirmTotalNanos.Load() / count)
	}
	return s
}

// String renders the snapshot as a single summary line.
func (s Snapshot) String() string {
	return fmt.Sprintf("rows=%d sent=%d failed=%d skipped=%d rpc_calls=%d rpc_errors=%d avg_confirm=%s",
		s.RowsTotal, s.RowsSent, s.RowsFailed, s.RowsSkipped, s.RPCCalls, s.RPCErrors, s.AvgConfirm)
}
