package repository

import (
	"context"
	"testing"

	"career-report/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportsRepo_NilPoolIsNoop(t *testing.T) {
	r := NewReportsRepo(nil)
	assert.False(t, r.Enabled())

	rec := &domain.ReportRecord{StudentID: "42"}
	require.NoError(t, r.Save(context.Background(), rec))

	got, err := r.LatestForStudent(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, got)

	var nilRepo *ReportsRepo
	assert.False(t, nilRepo.Enabled())
}
