// Package cli provides the interactive dashboard command-line client.
//
// It wires configuration, the HTTP vault gateway, the collection store and
// the workflow state machines into a REPL. Typical flow: load config, reload
// the collection, start a background session-expiry watcher, and execute
// user commands.
//
// Key features:
//   - List / search / filter the credential collection
//   - Add, edit and delete entries (with confirmation)
//   - Reveal and copy secrets with timed clipboard retraction
//   - Create, list, revoke and consume share links
//   - Password generation and user preferences
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartSessionWatcher, and runREPL for details.
package cli
