//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"career-report/internal/domain"
	"career-report/internal/infrastructure/migration"
	"career-report/pkg/infrastructure"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportsRepo_SaveAndLatest(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := infrastructure.NewReportsPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, migration.RunMigrations(ctx, pool))

	r := NewReportsRepo(pool)
	student := "it-" + uuid.NewString()
	older := &domain.ReportRecord{StudentID: student, FileName: "a.pdf", ReportLink: "https://x/a", PageCount: 6, SizeBytes: 10, CreatedAt: time.Now().Add(-time.Hour).UTC()}
	newer := &domain.ReportRecord{StudentID: student, FileName: "b.pdf", ReportLink: "https://x/b", PageCount: 6, SizeBytes: 20, CreatedAt: time.Now().UTC()}
	require.NoError(t, r.Save(ctx, older))
	require.NoError(t, r.Save(ctx, newer))
	assert.NotEqual(t, uuid.Nil, older.ID)

	got, err := r.LatestForStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", got.FileName)
	assert.Equal(t, 6, got.PageCount)
}
