// Package logger provides structured logging for vetta using zerolog.
//
// Loggers are created from a Config (console or JSON output), tagged per
// component, and enriched with run-scoped fields such as run_id and stage.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("earnings").WithRun(runID)
//	log.Info("chunk received", logger.Fields(logger.FieldSegments, n))
package logger
