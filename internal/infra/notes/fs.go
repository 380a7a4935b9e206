package notes

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

const (
	notesDir  = "notes"
	notesFile = "consultation_notes.docx"
)

func errNotesNotFound() error {
	return httperr.NotFoundErr("notes_not_found", "The consultation has no notes.")
}

// FSStore keeps notes under <base>/consultations/<id>/notes.
type FSStore struct {
	base string
}

func NewFSStore(dataDir string) *FSStore {
	return &FSStore{base: filepath.Join(dataDir, "consultations")}
}

func (s *FSStore) consultationDir(id uuid.UUID) string {
	return filepath.Join(s.base, id.String())
}

func (s *FSStore) notesPath(id uuid.UUID) string {
	return filepath.Join(s.consultationDir(id), notesDir, notesFile)
}

// Provision is idempotent: an existing document is left untouched.
func (s *FSStore) Provision(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.notesPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return httperr.IO("notes_provision_failed", "The notes folder could not be created.", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return httperr.IO("notes_provision_failed", "The notes file could not be created.", err)
	}
	if err := f.Close(); err != nil {
		return httperr.IO("notes_provision_failed", "The notes file could not be created.", err)
	}

	logger.WithField("consultation_id", id).Debug("notes provisioned")
	return nil
}

func (s *FSStore) Remove(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.RemoveAll(s.consultationDir(id)); err != nil {
		return httperr.IO("notes_remove_failed", "The notes folder could not be removed.", err)
	}
	return nil
}

// Open returns the absolute path of the notes document.
func (s *FSStore) Open(ctx context.Context, id uuid.UUID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.notesPath(id)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errNotesNotFound()
	}
	if err != nil {
		return "", httperr.IO("notes_open_failed", "The notes could not be opened.", err)
	}
	if !info.Mode().IsRegular() {
		return "", errNotesNotFound()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", httperr.IO("notes_open_failed", "The notes could not be opened.", err)
	}
	return abs, nil
}

var _ domain.NotesStore = (*FSStore)(nil)
