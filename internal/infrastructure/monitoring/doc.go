/*
Package monitoring provides Prometheus metrics for resource fetching.

# Overview

Each browsing session owns one Metrics value backed by its own registry.
The transport client records fetch outcomes per scheme, cache hits and
stores, redirects followed, dial results, decoded body sizes and the
number of pooled keep-alive connections.

All recording methods accept a nil receiver, so callers that do not care
about metrics simply pass nil.

# Usage

	metrics := monitoring.NewMetrics()
	client := transport.NewClient(state, transport.Options{Metrics: metrics})

	families, _ := metrics.Registry.Gather()
*/
package monitoring
