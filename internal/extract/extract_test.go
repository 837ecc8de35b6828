package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	e := New()

	t.Run("missing file", func(t *testing.T) {
		_, err := e.Extract(filepath.Join(t.TempDir(), "nope.pdf"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))

		_, err := e.Extract(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("no extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "README")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

		_, err := e.Extract(path)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("extension check is case-insensitive", func(t *testing.T) {
		// The file exists but is not a valid PDF, so the failure must come
		// from parsing, not from the extension dispatch.
		path := filepath.Join(t.TempDir(), "doc.PDF")
		require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0644))

		_, err := e.Extract(path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("corrupt docx", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))

		_, err := e.Extract(path)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnsupportedType)
	})
}
