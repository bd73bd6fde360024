// Package cache provides the persistent key-value store shared by the
// runtime parameter resolvers.
package cache

import "context"

// Store is the contract between the resolvers and the backing storage.
// Values are opaque bytes; the caller decides the encoding per key.
//
// A Store never reports read errors: anything that prevents a key from
// being returned intact (absent, unreadable, corrupt) is a miss. Writes
// are best-effort and may be dropped silently.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}
