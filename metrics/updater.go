package metrics

import (
	"strconv"
	"time"

	"github.com/canopy-network/lphelper/lib"
)

const (
	eventTypeExecute = "execute"
	attrAction       = "action"
	attrSwaps        = "swaps"
)

// UpdateNodeStatus updates the node status
func UpdateNodeStatus(active bool) {
	if active {
		NodeStatus.Set(1)
	} else {
		NodeStatus.Set(0)
	}
}

// UpdateLedgerMetrics updates the committed height and the journal size
func UpdateLedgerMetrics(height uint64, journalEntries int) {
	LedgerMetrics.Height.Set(float64(height))
	LedgerMetrics.JournalEntries.Set(float64(journalEntries))
}

// ObserveTransaction records the outcome of an applied transaction
// contract actions are only counted for committed transactions, failed ones carry no events
func ObserveTransaction(result *lib.TxResult, err lib.ErrorI, duration time.Duration) {
	TransactionMetrics.ProcessingTime.Observe(duration.Seconds())
	switch {
	case err == nil:
		TransactionMetrics.Outcomes.WithLabelValues(OutcomeCommitted).Inc()
	case lib.IsDefect(err):
		TransactionMetrics.Outcomes.WithLabelValues(OutcomeDefect).Inc()
		return
	default:
		TransactionMetrics.Outcomes.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	TransactionMetrics.Messages.Add(float64(len(result.Messages)))
	for _, e := range result.EventsOf(eventTypeExecute) {
		if action, ok := e.Get(attrAction); ok {
			ContractMetrics.Actions.WithLabelValues(action).Inc()
		}
		if swaps, ok := e.Get(attrSwaps); ok {
			if n, convErr := strconv.Atoi(swaps); convErr == nil {
				ContractMetrics.Swaps.Add(float64(n))
			}
		}
	}
}
