// Package shutdown turns process termination signals into context
// cancellation.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background(), nil)
//	defer stop()
//	err := app.RunContext(ctx, os.Args)
//
// Long-running operations observe ctx and abandon their work. Snapshot
// writes go through a temp file, so an interrupted capture never leaves a
// partial file behind.
package shutdown
