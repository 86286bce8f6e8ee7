package providers

import (
	"context"
)

// PatientPhoto is a resolved photo file ready to serve.
type PatientPhoto struct {
	Data        []byte
	ContentType string
}

// PhotoStore resolves patient photo files from the practice image store.
type PhotoStore interface {
	// Load returns the photo for a stored file name, or an error when the
	// file cannot be found in any known layout.
	Load(ctx context.Context, fileName string) (*PatientPhoto, error)
}
