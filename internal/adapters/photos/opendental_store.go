package photos

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/smileops/dentaldesk/internal/domain/providers"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

var (
	extPattern     = regexp.MustCompile(`\.\w+$`)
	trailingDigits = regexp.MustCompile(`\d+$`)
)

var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// OpenDentalStore resolves patient photos from the Open Dental image share.
// Files live either under "<letter>/<folder>/" or "A to Z Folders/<folder>/",
// where the folder is the file name minus extension and trailing digits
// (e.g. "GarciaBenjamin15388.jpg" → folder "GarciaBenjamin", letter "G").
type OpenDentalStore struct {
	root string
}

// NewOpenDentalStore creates a photo store rooted at the image share path
func NewOpenDentalStore(root string) providers.PhotoStore {
	return &OpenDentalStore{root: root}
}

// Load resolves and reads a photo by its stored file name.
func (s *OpenDentalStore) Load(ctx context.Context, fileName string) (*providers.PatientPhoto, error) {
	if s.root == "" {
		return nil, apperrors.NewNotFoundError("image store is not configured")
	}
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return nil, apperrors.NewValidationError("invalid photo file name")
	}

	folder := PatientFolder(fileName)
	letter := "_"
	if folder != "" {
		letter = strings.ToUpper(folder[:1])
	}

	candidates := []string{
		filepath.Join(s.root, letter, folder, fileName),
		filepath.Join(s.root, "A to Z Folders", folder, fileName),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return &providers.PatientPhoto{
			Data:        data,
			ContentType: ContentTypeFor(fileName),
		}, nil
	}

	return nil, apperrors.NewNotFoundError("photo file not found in image store")
}

// PatientFolder derives the patient folder name from a photo file name.
func PatientFolder(fileName string) string {
	namePart := extPattern.ReplaceAllString(fileName, "")
	return trailingDigits.ReplaceAllString(namePart, "")
}

// ContentTypeFor maps a photo file extension to its MIME type.
func ContentTypeFor(fileName string) string {
	parts := strings.Split(fileName, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}
	return "image/jpeg"
}
