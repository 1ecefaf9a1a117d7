package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// transaction outcome labels
const (
	OutcomeCommitted = "committed"
	OutcomeFailed    = "failed"
	OutcomeDefect    = "defect"
)

var (
	// NodeStatus represents the current status of the node
	NodeStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lphelper_node_status",
		Help: "Current status of the node (1 for active, 0 for inactive)",
	})

	// LedgerMetrics represents the committed ledger state
	LedgerMetrics = struct {
		Height         prometheus.Gauge
		JournalEntries prometheus.Gauge
	}{
		Height: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lphelper_ledger_height",
			Help: "Latest committed height",
		}),
		JournalEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lphelper_journal_entries",
			Help: "Number of transaction results indexed by the journal",
		}),
	}

	// TransactionMetrics represents transaction-related metrics
	TransactionMetrics = struct {
		Outcomes       *prometheus.CounterVec
		Messages       prometheus.Counter
		ProcessingTime prometheus.Histogram
	}{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lphelper_transaction_outcomes",
			Help: "Number of applied transactions by outcome (committed, failed, defect)",
		}, []string{"outcome"}),
		Messages: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lphelper_transaction_messages",
			Help: "Number of top level messages in committed transactions",
		}),
		ProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lphelper_transaction_processing_seconds",
			Help:    "Time taken to apply and commit a transaction in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	// ContractMetrics represents the actions contracts reported through their execute events
	ContractMetrics = struct {
		Actions *prometheus.CounterVec
		Swaps   prometheus.Counter
	}{
		Actions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lphelper_contract_actions",
			Help: "Number of committed contract actions by name",
		}, []string{"action"}),
		Swaps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lphelper_balancing_swaps",
			Help: "Number of swaps planned by balancing deposits",
		}),
	}
)
