// Package storage bucket de archivos subidos (PDF de los search strings).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
)

var _ ports.FileStore = (*FileStore)(nil)

// FileStore guarda los archivos bajo un directorio raíz. Las rutas son relativas y con "/".
type FileStore struct {
	fs afero.Fs
}

// NewLocalFileStore crea el directorio si no existe y encierra las rutas en él.
func NewLocalFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return NewFileStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewFileStore sobre un afero.Fs cualquiera (afero.NewMemMapFs en tests).
func NewFileStore(fsys afero.Fs) *FileStore {
	return &FileStore{fs: fsys}
}

// Save escribe el archivo creando los directorios intermedios.
func (s *FileStore) Save(_ context.Context, p string, data []byte) error {
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	if dir := path.Dir(clean); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("storage: crear %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, clean, data, 0o640); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	return nil
}

// Read devuelve domain.ErrNotFound si el archivo no existe.
func (s *FileStore) Read(_ context.Context, p string) ([]byte, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: %s: %w", clean, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", clean, err)
	}
	return data, nil
}

// cleanPath rechaza rutas absolutas o que salgan del bucket.
func cleanPath(p string) (string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return "", fmt.Errorf("%w: ruta %q", domain.ErrInvalidInput, p)
	}
	clean := path.Clean(p)
	if clean != p || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: ruta %q", domain.ErrInvalidInput, p)
	}
	return clean, nil
}
