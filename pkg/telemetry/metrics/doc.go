// Package metrics provides Prometheus metrics for the stdrc compiler.
//
// # Metrics
//
//   - stdr_compiler_compiles_total{status}: compiles by outcome
//   - stdr_compiler_compile_duration_seconds: compile wall time
//   - stdr_compiler_pass_iterations_total{pass}: changing iterations per pass
//   - stdr_compiler_inclusions_total: inclusion references resolved
//
// Namespace and subsystem come from the configuration.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	compiler := stdr.New(stdr.WithRecorder(collector))
//
// The watch command serves Handler on the configured listen address. The
// one-shot commands can dump the registry with WriteTextfile instead, since
// nothing would be around to scrape them.
package metrics
