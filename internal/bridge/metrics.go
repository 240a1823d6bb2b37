package bridge

import "expvar"

var (
	metricPlaysAppliedTotal   = expvar.NewInt("plays_applied_total")
	metricResetsTotal         = expvar.NewInt("game_resets_total")
	metricBroadcastSent       = expvar.NewInt("broadcast_sent_total")
	metricBroadcastEvictions  = expvar.NewInt("broadcast_evictions_total")
	metricViewersActive       = expvar.NewInt("viewers_active")
	metricCommandsIgnored     = expvar.NewInt("commands_ignored_total")
	metricIntelGeneratedTotal = expvar.NewInt("intelligence_generated_total")
	metricIntelErrorsTotal    = expvar.NewInt("intelligence_errors_total")
)
