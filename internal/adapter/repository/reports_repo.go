package repository

import (
	"context"

	"career-report/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ReportsRepo records generated reports. A nil pool disables it.
type ReportsRepo struct {
	pool *pgxpool.Pool
}

func NewReportsRepo(pool *pgxpool.Pool) *ReportsRepo {
	return &ReportsRepo{pool: pool}
}

func (r *ReportsRepo) Enabled() bool { return r != nil && r.pool != nil }

func (r *ReportsRepo) Save(ctx context.Context, rec *domain.ReportRecord) error {
	if !r.Enabled() {
		return nil
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO report_links (id, student_id, file_name, report_link, page_count, size_bytes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET report_link = EXCLUDED.report_link, page_count = EXCLUDED.page_count, size_bytes = EXCLUDED.size_bytes`,
		rec.ID, rec.StudentID, rec.FileName, rec.ReportLink, rec.PageCount, rec.SizeBytes, rec.CreatedAt)
	return err
}

// LatestForStudent returns the most recent report recorded for a student.
func (r *ReportsRepo) LatestForStudent(ctx context.Context, studentID string) (*domain.ReportRecord, error) {
	if !r.Enabled() {
		return nil, nil
	}
	rec := &domain.ReportRecord{}
	err := r.pool.QueryRow(ctx, `SELECT id, student_id, file_name, report_link, page_count, size_bytes, created_at
		FROM report_links WHERE student_id = $1 ORDER BY created_at DESC LIMIT 1`, studentID).
		Scan(&rec.ID, &rec.StudentID, &rec.FileName, &rec.ReportLink, &rec.PageCount, &rec.SizeBytes, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
