// Package kvstore provides the key/value storage boundary the state layer
// hydrates from and dehydrates to. Values are plain strings; callers encode
// JSON themselves. A missing key is reported as (_, false, nil), never as an
// error.
package kvstore

import "context"

// Store is the async key/value adapter contract.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
