// Package cli provides the interactive gophblog command-line client.
//
// It wires configuration and the HTTP API client into a small REPL:
// register or log in, read posts, and write, edit or delete your own.
// The bearer token lives in memory only and is dropped on logout or exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
