// Package store keeps a SQLite catalog of saved programs.
//
// Every successful ProgSave can be appended as one row: which session
// produced it, in what order, for which backend and robot, where it was
// written, and its size, digest and generation log. The catalog is
// append-only; `robopost history` reads it back.
//
// # Ordering
//
// Rows are ordered by a per-session logical sequence number, never by wall
// time. Queries sort by created_at, then session_id, then seq, so output is
// stable across runs.
//
// # Connection
//
// Open passes journal_mode=WAL, synchronous=NORMAL and busy_timeout=5000 in
// the DSN and keeps a single connection. Schema changes are numbered
// migrations tracked in PRAGMA user_version.
//
// # Usage
//
//	s, err := store.Open("robopost.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	sess := store.NewSession(s, store.UUIDv7Generator{})
//	env := post.Env{Observe: sess.Observer(ctx)}
package store
