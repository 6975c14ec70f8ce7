package storage

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/domain"
)

func TestFileStore_SaveRead(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "c1/doc.pdf", []byte("%PDF-1.4")))
	got, err := s.Read(ctx, "c1/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), got)
}

func TestFileStore_NoExiste(t *testing.T) {
	_, err := NewFileStore(afero.NewMemMapFs()).Read(context.Background(), "c1/nada.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_RutasInvalidas(t *testing.T) {
	s := NewFileStore(afero.NewMemMapFs())
	for _, p := range []string{"", "/etc/passwd", "../x.pdf", "c1/../../x.pdf", "c1//x.pdf", "c1\\x.pdf", "."} {
		err := s.Save(context.Background(), p, []byte("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, p)
	}
}

func TestNewLocalFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "c1/a.pdf", []byte("a")))
	exists, err := afero.Exists(afero.NewOsFs(), dir+"/c1/a.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}
