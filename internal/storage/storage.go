// Package storage provides the short-lived file spool for uploaded
// recordings and optional S3 export of session reports. Audio is only ever
// written to the temp spool and is removed as soon as a request finishes;
// reports (JSON analysis results, never audio) are the only thing that may
// leave the machine.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for the upload spool and report export.
type Storage interface {
	// SaveTemp saves data to a temporary file and returns the file path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// UploadReport uploads a JSON session report and returns its URL.
	// Returns ErrReportsNotConfigured when no report bucket is configured.
	UploadReport(ctx context.Context, key string, data io.Reader) (url string, err error)
}
