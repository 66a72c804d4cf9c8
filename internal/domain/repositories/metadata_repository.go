package repositories

import "context"

// MetadataRepository looks up package metadata on a registry.
type MetadataRepository interface {
	// SourceURI returns the source code URI of a dependency on the registry
	// at registryURL, falling back to its homepage. Lookup or decoding
	// problems yield an empty string.
	SourceURI(ctx context.Context, registryURL, name string) string
}
