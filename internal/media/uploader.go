// Package media uploads locally staged files to permanent storage and hands
// back opaque public URLs. Everything above it treats those URLs as strings.
package media

import (
	"context"
	"errors"
)

var ErrEmptyURL = errors.New("upload produced no url")

// Uploader takes a local temporary file path and returns a permanent URL.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
