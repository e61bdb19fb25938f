// Package cli provides the interactive tiernerd command-line client.
//
// It wires configuration, the local credential store, the HTTP gateway, the
// feature services and the session manager into a REPL. Typical flow: restore
// the stored session, start a background connectivity watcher, and execute
// user commands until exit.
//
// Key features:
//   - Register / Login / Logout, with the session kept across restarts
//   - Lists: show, create, delete
//   - Items: show, add (possibly starting a comparison), edit
//   - Online/offline indicator in the prompt
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
