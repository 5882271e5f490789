// Package nextclass is the Composition Root for the nextclass scheduling
// portal core.
//
// It connects the domain logic (conflict detection and the verification
// state machine) with the record store that persists every entity when no
// external database is available.
//
// Philosophy:
//
// The core treats a handful of JSON documents as a transactional database.
// Writers are serialized per record key, every persisted write is an atomic
// rename, and readers never need a lock: they observe either the old
// document or the new one, never a torn one. On top of that store sits a
// verification state machine whose hard invariant is that a "verified"
// schedule can never silently drift: any class-list change demotes the
// status in the same atomic write.
//
// Features:
//
//   - **Per-key locking**: mutations contend only on the same (collection, id).
//   - **Crash consistent**: temp-file-then-rename writes; readers are lock-free.
//   - **Typed collections**: generic `Collection[T]` over the same on-disk JSON.
//   - **Verification lifecycle**: none -> pending -> {verified, rejected} with
//     automatic downgrade on schedule changes and a one-way sharing latch.
//   - **Reactive**: `Store.Watch` streams record changes (fsnotify for
//     external edits).
//
// Usage:
//
//	coord, err := nextclass.New("./data",
//		nextclass.WithLogger(logger),
//	)
//
//	// Add a class; conflicts and verification demotion are handled atomically.
//	err = coord.AddClass(ctx, "amelia", entry)
package nextclass
