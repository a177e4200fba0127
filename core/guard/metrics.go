package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	verdictAllowed  = "allowed"
	verdictRejected = "rejected"
	verdictFailed   = "failed"
)

var queriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "erpchat_guard_queries_total",
		Help: "Total number of guarded query executions by verdict",
	},
	[]string{"verdict"},
)
