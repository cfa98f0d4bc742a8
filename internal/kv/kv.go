// Package kv defines the synchronous string-keyed storage primitive the
// record store is built on, mirroring the get/set/remove contract of a
// browser's per-origin local storage: values persist across runs until
// explicitly removed, and a missing key is reported distinctly from an
// empty value.
package kv

// KV is a synchronous string-keyed storage primitive.
//
// Contract:
//   - Get returns (value, true, nil) if the key is present, ("", false, nil)
//     if it is absent.
//   - Set creates or replaces the value under key.
//   - Remove deletes the key; removing an absent key is a no-op.
//
// Implementations are not required to be safe for concurrent use; the
// record store serializes access on its own.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
