// Package storage defines the persistence contract of the settings engine
// and ships the backends it is usually wired to.
//
// A Store keeps one nested document per key. The engine writes the whole
// state tree under a single key after every mutation and after the initial
// load, and reads it back once at startup:
//
//	engine.Save -> Store.SetData("settings", tree)
//	engine.Load -> Store.GetData("settings")
//
// Backends:
//   - MemoryStore: process memory, deep copies on every read/write.
//   - FileStore: one file per key, JSON/YAML/TOML by extension, with an
//     fsnotify based Watch for external edits.
//   - badgerstore: embedded dgraph-io/badger key-value database.
//   - sqlitestore: SQLite table through ncruces/go-sqlite3.
//
// Stores never retry. Retry policy, if any, belongs to the caller.
package storage
