// Package memory defines the Provider interface for conversation history.
//
// Two implementations ship with the module:
//   - [github.com/leofalp/deepchat/providers/memory/inmemory]: a mutex-guarded
//     slice for single-process use.
//   - [github.com/leofalp/deepchat/providers/memory/boltmemory]: a bbolt file
//     that keeps histories across restarts.
//
// Every method takes a context and returns an error so that persistent
// stores can report failures.
package memory
