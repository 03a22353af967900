// Package cover resolves and uploads item cover images against an HTTP
// object store addressed by URL convention:
//
//	{endpoint}/{bucket}/book-{id}.{ext}
//	{endpoint}/{bucket}/isbn-{isbn}.{ext}
//
// The store is an opaque collaborator; this package never participates in
// its consistency.
package cover

import (
	"context"
	"io"
)

type Repo interface {
	// Resolve returns the URL of the first cover object that exists for the
	// item, trying the id scheme before the isbn scheme across the known
	// extensions. Returns ErrNoCover when nothing matches.
	Resolve(ctx context.Context, itemID int64, isbn string) (string, error)

	// Upload stores the cover under the id scheme and returns its URL.
	Upload(ctx context.Context, itemID int64, ext string, contentType string, body io.Reader) (string, error)
}
