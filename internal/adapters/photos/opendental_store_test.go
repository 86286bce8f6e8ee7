package photos_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileops/dentaldesk/internal/adapters/photos"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

func writePhoto(t *testing.T, root string, parts ...string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))
}

func TestPatientFolder(t *testing.T) {
	tests := []struct {
		fileName string
		expected string
	}{
		{"GarciaBenjamin15388.jpg", "GarciaBenjamin"},
		{"SmithJane101.jpeg", "SmithJane"},
		{"ONeill7.png", "ONeill"},
		{"NoDigits.jpg", "NoDigits"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, photos.PatientFolder(tt.fileName), tt.fileName)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", photos.ContentTypeFor("a.jpg"))
	assert.Equal(t, "image/jpeg", photos.ContentTypeFor("a.JPEG"))
	assert.Equal(t, "image/png", photos.ContentTypeFor("a.png"))
	assert.Equal(t, "image/gif", photos.ContentTypeFor("a.gif"))
	assert.Equal(t, "image/jpeg", photos.ContentTypeFor("a.unknown"))
}

func TestLoad_LetterLayout(t *testing.T) {
	root := t.TempDir()
	writePhoto(t, root, "S", "SmithJane", "SmithJane101.jpg")
	store := photos.NewOpenDentalStore(root)

	photo, err := store.Load(context.Background(), "SmithJane101.jpg")

	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), photo.Data)
	assert.Equal(t, "image/jpeg", photo.ContentType)
}

func TestLoad_AToZLayout(t *testing.T) {
	root := t.TempDir()
	writePhoto(t, root, "A to Z Folders", "GarciaBenjamin", "GarciaBenjamin15388.png")
	store := photos.NewOpenDentalStore(root)

	photo, err := store.Load(context.Background(), "GarciaBenjamin15388.png")

	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.ContentType)
}

func TestLoad_MissingFile(t *testing.T) {
	store := photos.NewOpenDentalStore(t.TempDir())

	_, err := store.Load(context.Background(), "Nobody1.jpg")

	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestLoad_RejectsPathSeparators(t *testing.T) {
	store := photos.NewOpenDentalStore(t.TempDir())

	_, err := store.Load(context.Background(), "../../etc/passwd")
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))

	_, err = store.Load(context.Background(), `..\secret.jpg`)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestLoad_UnconfiguredRoot(t *testing.T) {
	store := photos.NewOpenDentalStore("")

	_, err := store.Load(context.Background(), "SmithJane101.jpg")

	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}
