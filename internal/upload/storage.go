package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extension allow-lists. Link images accept a narrower set than profile
// pictures.
var (
	LinkImageExts = []string{".jpg", ".png"}
	PictureExts   = []string{".jpg", ".jpeg", ".png"}
)

var (
	// ErrDisallowedType is returned when the uploaded file's extension is not
	// on the relevant allow-list.
	ErrDisallowedType = errors.New("upload: file type not allowed")
	// ErrBadName is returned for stored names that escape the upload directory.
	ErrBadName = errors.New("upload: invalid stored filename")
)

// Storage persists uploaded images under a single configured directory and
// hands back the stored filename to be referenced from the database.
type Storage struct {
	dir string
}

// New creates the upload directory if needed and returns a Storage rooted there.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the root directory files are stored under.
func (s *Storage) Dir() string { return s.dir }

// Path returns the full filesystem path for a stored filename.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Allowed reports whether the original filename carries an extension from exts.
func Allowed(filename string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// SaveImage stores a link image under a fresh unique name and returns it.
func (s *Storage) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if !Allowed(header.Filename, LinkImageExts) {
		return "", ErrDisallowedType
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := s.write(name, file); err != nil {
		return "", err
	}
	return name, nil
}

// SavePicture stores a profile picture under a deterministic per-user name
// and returns it. A second upload for the same user and extension overwrites
// the previous file.
func (s *Storage) SavePicture(userID uint, file multipart.File, header *multipart.FileHeader) (string, error) {
	if !Allowed(header.Filename, PictureExts) {
		return "", ErrDisallowedType
	}
	name := fmt.Sprintf("user_%d%s", userID, strings.ToLower(filepath.Ext(header.Filename)))
	if err := s.write(name, file); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. Missing files are not an error; removal of a
// reference that was already cleaned up should be idempotent.
func (s *Storage) Remove(name string) error {
	if name == "" {
		return nil
	}
	if filepath.Base(name) != name {
		return ErrBadName
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Storage) write(name string, src io.Reader) error {
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	return nil
}
