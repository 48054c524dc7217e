// Package oauthstate provides durable storage for OAuth state parameters
// so authorization flows survive process restarts.
//
// The MCP host may kill and relaunch the server subprocess while a user is
// still on the Google consent screen. An in-memory table would lose the
// pending state parameter and the callback would be rejected, so the table
// is persisted to a JSON file and reloaded on every operation.
//
// # Key Properties
//
//   - Consume-once: a state token validates successfully at most once.
//     Replayed callbacks fail with ErrInvalidState.
//   - Session binding: a state issued for one session cannot be redeemed
//     by another. Mismatches consume the record and fail with
//     ErrSessionMismatch.
//   - Lazy expiry: expired records are swept as a side effect of the next
//     store operation; there is no background timer.
//
// # Concurrency
//
// All operations on a Store serialize on an internal mutex, giving
// read-modify-write atomicity per operation. The backing file is assumed
// to be owned by a single process; restarts of that process are fine,
// concurrent writers from other processes are not supported.
//
// # Failure Semantics
//
// An unreadable or malformed state file is treated as an empty table so
// that new authorizations can still be issued. Write failures are not
// swallowed: they surface as *PersistenceError so callers can abort the
// flow instead of proceeding without durability.
package oauthstate
