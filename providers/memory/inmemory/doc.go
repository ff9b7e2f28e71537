// Package inmemory provides a concurrency-safe, slice-backed [memory.Provider].
// Nothing survives the process; use boltmemory for that.
package inmemory
