// Package boltmemory persists conversation histories in a bbolt database file.
//
// One [Store] holds many conversations, each in its own bucket keyed by
// conversation id. [Store.Memory] returns the [memory.Provider] of one
// conversation:
//
//	store, err := boltmemory.Open("history.db")
//	if err != nil { ... }
//	defer store.Close()
//	history := store.Memory(conversationID)
package boltmemory
