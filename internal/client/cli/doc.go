// Package cli provides the interactive quiz command-line client.
//
// It wires configuration, the durable session cache, the API client and the
// client stores, then runs a REPL over them. Store failures and successes are
// queued on a channel notifier and printed after each command.
//
// Key features:
//   - Register / Login / Logout, with the session restored on start
//   - Browse and play quizzes, create community quizzes
//   - Shop, inventory and purchases
//   - Moderation queue for admins
//   - Client metrics dump
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
