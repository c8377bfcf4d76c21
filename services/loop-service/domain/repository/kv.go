// Package repository defines the interfaces for the data access layer
package repository

import "context"

// KeyValue is the persistence substrate: a durable string-keyed store of whole documents.
type KeyValue interface {
	// Get returns the value under key; found is false when the key was never written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent writes value only when key does not exist and reports whether it wrote.
	// The check and the write are atomic across every process sharing the substrate.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	Delete(ctx context.Context, key string) error
}
