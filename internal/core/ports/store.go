package ports

// CacheStore persists named entries under the cache directory of the project.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Has reports whether an entry exists for key.
	Has(key string) bool

	// Read returns the content stored under key.
	Read(key string) (string, error)

	// Write atomically replaces the content stored under key.
	Write(key string, content string) error

	// Delete removes the entry stored under key. Deleting a missing entry is not an error.
	Delete(key string) error
}
