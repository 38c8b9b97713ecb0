/*
Package monitoring provides Prometheus metrics for the workspace backend.

# Overview

Metrics live in a private registry owned by a Metrics value, so several
instances (one per test, one per process) never collide on registration.

# Metrics

- HTTP request count and latency, by route and status
- Command calls, latency and failures, by tool and error kind
- Search result sizes and walk entry counts
- Worker pool occupancy

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "filesystem.rename_fs")
	// ... perform operation ...
	timer.Stop(err)
*/
package monitoring
