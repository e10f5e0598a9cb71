// Package storage provides the persistence slots of a monorga vault.
//
// Persistence is a small key/value contract (get, set, exists) that the
// vault treats as atomic per key. Backends that can replace several keys in
// one step also implement Batcher.
//
// Two backends are provided:
//   - Memory: in-process map, used by tests and short-lived sessions
//   - Storage: a BBolt database file with two buckets
//       config: format version, timestamps, vault id (unencrypted)
//       slots:  opaque records written by the vault
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
