package renderer

import "expvar"

var (
	metricSendTotal       = expvar.NewInt("renderer_send_total")
	metricSendErrorsTotal = expvar.NewInt("renderer_send_errors_total")
)
