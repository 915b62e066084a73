// Package logging provides structured JSON logging for screencoord.
//
// Every command opens one [Logger] that appends slog JSON lines to
// {state_dir}/debug.log, rotating the file by size. The capture overlay and
// the document layer log each capture, rename, deletion and host failure so a
// run can be reconstructed afterwards with [ReadEntries] and [Filter].
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(stateDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun(runID).WithComponent("overlay")
//	runLogger.Info("captured coordinate", "x", 120, "y", 340)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"captured coordinate","run_id":"01J...","component":"overlay","x":120,"y":340}
//
// # Testing
//
// Use [NopLogger] to discard output.
//
// # Configuration
//
//	logging:
//	  enabled: true
//	  level: info
//	  max_size_mb: 10
//	  max_backups: 3
package logging
