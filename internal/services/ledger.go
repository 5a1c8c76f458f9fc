// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package services

import (
	"sync/atomic"

	"github.com/schildwaechter/countinghouse/internal/o11y"
)

var (
	// running totals, written by the ledger monitor and read
	// concurrently by the metrics callbacks
	TextsTallied      atomic.Int64
	CharactersTallied atomic.Int64
	LedgerChan        chan int64
)

// ledger backlog before tallies get dropped
const ledgerCapacity = 1024

// InitLedgerChannel initializes the ledger channel
func InitLedgerChannel() {
	LedgerChan = make(chan int64, ledgerCapacity)
}

// StartLedgerMonitor books incoming tallies into the running totals
func StartLedgerMonitor() {
	go func() {
		for characters := range LedgerChan {
			TextsTallied.Add(1)
			CharactersTallied.Add(characters)
			if o11y.TextsTalliedCounterProm != nil {
				o11y.TextsTalliedCounterProm.Inc()
			}
			if o11y.CharactersTalliedCounterProm != nil {
				o11y.CharactersTalliedCounterProm.Add(float64(characters))
			}
		}
	}()
}

// RecordTally hands a finished tally to the ledger monitor.
// Bookkeeping is best effort: when the ledger is congested the
// tally is dropped rather than delaying the request.
func RecordTally(characters int64) {
	if LedgerChan == nil {
		return
	}
	select {
	case LedgerChan <- characters:
	default:
	}
}
