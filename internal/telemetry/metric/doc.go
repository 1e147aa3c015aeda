// Package metric provides Prometheus metrics for statedump.
//
// Metrics include:
//
//   - Records and bytes moved per column
//   - Shard root counts
//   - Operation latency histograms
//   - Error counters
//
// statedump is a batch tool, so there is no /metrics endpoint. Metrics are
// written once at exit with WriteTextfile for the node-exporter textfile
// collector.
package metric
