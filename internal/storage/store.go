// Package storage persists generated image bytes and hands back the public
// URL clients use to view them.
package storage

import "context"

// ObjectStore writes image payloads under a key and returns a public URL.
// Keys use forward slashes and never start with one.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
