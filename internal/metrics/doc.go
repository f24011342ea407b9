// Package metrics holds the Prometheus collectors exported by bigocalc and
// the runtime memory snapshots taken around each analysis.
package metrics
