// Package engine defines the contract between the host bridge and the wallet
// synchronization engine it drives.
//
// The bridge treats the engine as a black box reached through three calls:
//
//	app, err := eng.Boot(ctx, cfg, progress) // initial sync and scan, start servers
//	err = app.Sync(shutdown)                 // blocks until shutdown fires
//	err = eng.TestRPC(ctx, cfg)              // connectivity probe, no lifecycle
//
// # Progress
//
// While booting, and optionally afterwards, the engine reports progress by
// sending Progress values to the ProgressSender it was given. Send fails
// with an error once the receiving side has gone away; engines treat that
// as a cancellation request and return ErrCanceled.
//
// # Cancellation
//
// Cancellation is cooperative. Boot must honor ctx, and Sync must return
// once the shutdown channel delivers a value or is closed. Engines report a
// cancellation by returning an error that wraps ErrCanceled; the bridge
// treats it as a successful termination.
package engine
