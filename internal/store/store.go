// internal/store/store.go
package store

import "errors"

// ErrNotFound distinguishes an absent entity from a query failure so
// handlers can decide between retryable absence and a hard error.
var ErrNotFound = errors.New("entity not found")
