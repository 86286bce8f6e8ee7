package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smileops/dentaldesk/internal/domain/entities"
	apperrors "github.com/smileops/dentaldesk/pkg/errors"
)

// FileArchive stores one briefing text file per date under a directory.
type FileArchive struct {
	dir string
}

// NewFileArchive creates a file-based briefing archive
func NewFileArchive(dir string) *FileArchive {
	return &FileArchive{dir: dir}
}

// Save writes the briefing with a generated-at header to <dir>/<date>.txt.
func (a *FileArchive) Save(briefing *entities.Briefing) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", apperrors.NewInternalError("failed to create archive directory", err)
	}

	path := a.pathFor(briefing.Date)
	header := fmt.Sprintf(
		"Daily Dental Briefing — %s (generated %s)\n%s\n\n",
		briefing.Date.Format("2006-01-02"),
		briefing.GeneratedAt.Format("15:04:05"),
		strings.Repeat("=", 60),
	)

	if err := os.WriteFile(path, []byte(header+briefing.Text), 0o644); err != nil {
		return "", apperrors.NewInternalError("failed to write briefing file", err)
	}

	return path, nil
}

// Read returns the archived briefing text for a date, header included.
func (a *FileArchive) Read(date time.Time) (string, error) {
	data, err := os.ReadFile(a.pathFor(date))
	if err != nil {
		return "", apperrors.NewNotFoundError(
			fmt.Sprintf("no archived briefing for %s", date.Format("2006-01-02")))
	}
	return string(data), nil
}

func (a *FileArchive) pathFor(date time.Time) string {
	return filepath.Join(a.dir, date.Format("2006-01-02")+".txt")
}
