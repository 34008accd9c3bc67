// Package bootstrap wires a vetta process together: logger, telemetry, the
// transcription provider manager and shutdown hooks.
//
//	app, err := bootstrap.NewApp(ctx, cfg)
//	if err != nil { ... }
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    p, err := app.Transcriber(ctx)
//	    ...
//	})
//
// RunTask cancels the task on SIGINT/SIGTERM and always runs the stop hooks.
package bootstrap
