// Package evidence stores merit evidence files uploaded with guild
// applications and registrations.
//
// Two backends exist: DiskStore writes to a local uploads directory,
// S3Store writes to an S3-compatible bucket. Both return an opaque
// reference that is persisted on the user or application record.
package evidence

import (
	"context"
	"errors"
	"io"
)

// MaxEvidenceSize caps uploaded evidence files at 5 MiB.
const MaxEvidenceSize = 5 << 20

// Standard errors for evidence operations.
var (
	// ErrTooLarge indicates the upload exceeded MaxEvidenceSize.
	ErrTooLarge = errors.New("evidence file too large")

	// ErrStoreFailed indicates the backend could not persist the file.
	ErrStoreFailed = errors.New("evidence store failed")
)

// Store defines the interface for evidence persistence.
type Store interface {
	// Put persists the file content under the given key and returns
	// an opaque reference for later retrieval.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
}
