package quality

import "expvar"

var metricTicksTotal = expvar.NewInt("quality_ticks_total")
