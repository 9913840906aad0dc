package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileRepository_UploadAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, err := NewLocalFileRepository(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	name := GenerateObjectPath(".PDF")
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	stored, err := repo.Upload(ctx, name, strings.NewReader("invoice"), "application/pdf", 7)
	require.NoError(t, err)
	assert.Equal(t, name, stored)

	content, err := os.ReadFile(filepath.Join(repo.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "invoice", string(content))

	url, err := repo.GenerateURL(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+name, url)
	assert.Equal(t, name, ObjectPathFromReference(url))

	require.NoError(t, repo.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(repo.Dir(), name))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Deleting twice is a no-op
	assert.NoError(t, repo.Delete(ctx, name))
}

func TestLocalFileRepository_RejectsTraversal(t *testing.T) {
	repo, err := NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Upload(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain", 1)
	assert.ErrorIs(t, err, ErrInvalidObjectPath)

	assert.ErrorIs(t, repo.Delete(context.Background(), "../../etc/passwd"), ErrInvalidObjectPath)
}

func TestLocalFileRepository_DoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	repo, err := NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Upload(ctx, "same.png", strings.NewReader("first"), "image/png", 5)
	require.NoError(t, err)

	_, err = repo.Upload(ctx, "same.png", strings.NewReader("second"), "image/png", 6)
	assert.Error(t, err)
}

func TestObjectPathFromReference(t *testing.T) {
	assert.Equal(t, "abc.jpg", ObjectPathFromReference("/uploads/abc.jpg"))
	assert.Equal(t, "", ObjectPathFromReference("https://example.com/abc.jpg"))
	assert.Equal(t, "", ObjectPathFromReference(""))
}
