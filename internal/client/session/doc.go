// Package session owns the signed-in state of the client.
//
// A Manager is the single writer of the session: who is signed in, with
// which bearer token, and whether the last action failed. Everything else
// reads it through State, CurrentUser, Token, LastError or Snapshot.
//
// Lifecycle:
//
//	StateResolving --Restore--> StateAnonymous | StateAuthenticated
//	StateAnonymous --Login/Register--> StateAuthenticated
//	StateAuthenticated --SignOut--> StateAnonymous
//
// Login, Register, SignOut and Restore never run concurrently: while one is in
// flight the others are rejected without touching the session.
//
// Credentials are written to the store after the in-memory state changes.
// A failed write is retried with backoff; if it still fails the session stays
// signed in for this process, NeedsPersist reports true and FlushPending
// tries again.
package session
