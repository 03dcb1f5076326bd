package populate

import (
	"strings"

	"career-report/internal/domain"
)

const (
	tokStudentName = "student_name"
	tokStudentID   = "student_id"
	tokSchoolName  = "school_name"
	tokGradeBoard  = "grade_board"
)

// Cover fills page 1: name, id, school, grade and board.
func Cover(tpl string, data *domain.ReportPayload, id Identity) string {
	name := firstNonEmpty(id.StudentName, data.StudentName, "Student Name")
	studentID := firstNonEmpty(id.StudentID, string(data.StudentID), "N/A")
	school := firstNonEmpty(data.SchoolName, "School Name")
	grade := firstNonEmpty(string(data.Grade), "N/A")
	board := firstNonEmpty(data.Board, "N/A")

	return strings.NewReplacer(
		token(tokStudentName), clean(name),
		token(tokStudentID), clean(studentID),
		token(tokSchoolName), clean(school),
		token(tokGradeBoard), clean("Grade "+grade+" – "+board),
	).Replace(tpl)
}
