package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploader_WritesPerStudent(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, nil)

	link, err := u.Upload(context.Background(), []byte("%PDF-1.7"), "report.pdf", "42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "file://"))
	assert.True(t, strings.HasSuffix(link, "/42/report.pdf"))

	b, err := os.ReadFile(filepath.Join(dir, "42", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(b))
}

func TestLocalUploader_RejectsMissingStudentAndTraversal(t *testing.T) {
	dir := t.TempDir()
	u := NewLocalUploader(dir, nil)

	_, err := u.Upload(context.Background(), []byte("x"), "a.pdf", "")
	assert.ErrorIs(t, err, ErrStudentIDRequired)

	_, err = u.Upload(context.Background(), []byte("x"), "../../escape.pdf", "../7")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "7", "escape.pdf"))
	assert.NoError(t, err)
}
