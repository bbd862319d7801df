package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the posting engine and the allocation processor. Registered on
// the default registry and exposed via promhttp in main.
var (
	EntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sacco_ledger",
		Name:      "journal_entries_posted_total",
		Help:      "Number of journal entries durably committed to the ledger.",
	})

	PostingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sacco_ledger",
		Name:      "journal_posting_failures_total",
		Help:      "Number of posting attempts rejected or rolled back.",
	})

	DepositsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sacco_ledger",
		Name:      "deposits_completed_total",
		Help:      "Number of deposits fully allocated and committed.",
	})

	DepositsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sacco_ledger",
		Name:      "deposits_failed_total",
		Help:      "Number of deposits that failed processing and were rolled back.",
	})

	PeriodRotations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sacco_ledger",
		Name:      "fiscal_period_rotations_total",
		Help:      "Number of fiscal period close-and-open operations.",
	})
)
