package httptransport

import "expvar"

var (
	metricRendererConnectTotal  = expvar.NewInt("renderer_connect_total")
	metricRendererConnectErrors = expvar.NewInt("renderer_connect_errors_total")
)
