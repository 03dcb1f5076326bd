package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
)

// LocalUploader writes reports to <dir>/<studentID>/<filename>.
type LocalUploader struct {
	dir    string
	logger *slog.Logger
}

func NewLocalUploader(dir string, logger *slog.Logger) *LocalUploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalUploader{dir: dir, logger: logger}
}

func (u *LocalUploader) Upload(ctx context.Context, pdf []byte, filename, studentID string) (string, error) {
	if studentID == "" {
		return "", ErrStudentIDRequired
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	userDir := filepath.Join(u.dir, filepath.Base(studentID))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(userDir, filepath.Base(filename))
	if err := os.WriteFile(dest, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	u.logger.Info("report stored locally", "student_id", studentID, "path", abs)
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
