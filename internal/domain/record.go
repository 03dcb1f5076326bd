package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportRecord is the ledger entry written after a report is uploaded.
type ReportRecord struct {
	ID         uuid.UUID `json:"id"`
	StudentID  string    `json:"studentId"`
	FileName   string    `json:"fileName"`
	ReportLink string    `json:"reportLink"`
	PageCount  int       `json:"pageCount"`
	SizeBytes  int       `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}
