// Package blob stores resource attachments and hands back the opaque URL
// recorded on the resource's fileUrl field. Two backends exist: a local
// filesystem directory (default) and an S3-compatible object store that
// returns presigned GET URLs.
package blob

import "context"

// Store persists one attachment per call.
type Store interface {
	// Put uploads the file at sourcePath and returns the URL to record on
	// the resource.
	Put(ctx context.Context, sourcePath string) (string, error)
}
