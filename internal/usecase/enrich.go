package usecase

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"career-report/internal/domain"
	"career-report/internal/populate"
)

var errNoReportData = errors.New("report data is missing")

// Enrich returns a copy of data whose careers carry the catalog's
// recommended skills and courses. Careers the catalog does not know end up
// with neither, whatever the request sent.
func Enrich(data *domain.ReportPayload, cat populate.Catalog) (*domain.ReportPayload, error) {
	if data == nil {
		return nil, errNoReportData
	}
	out := data.Clone()
	for bi := range out.TopBuckets {
		careers := out.TopBuckets[bi].TopCareers
		for ci := range careers {
			entry, ok := cat.Career(careers[ci].CareerName)
			if !ok {
				careers[ci].RecommendedSkills = nil
				careers[ci].RecommendedCourses = nil
				continue
			}
			careers[ci].RecommendedSkills = append([]string(nil), entry.RecommendedSkills...)
			careers[ci].RecommendedCourses = append([]string(nil), entry.RecommendedCourses...)
		}
	}
	return out, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ReportFilename builds Career_Report_<name>_<id>_<YYYY-MM-DD>.pdf with every
// non-alphanumeric character of the name replaced by an underscore.
func ReportFilename(studentName, studentID string, at time.Time) string {
	name := unsafeFilenameChars.ReplaceAllString(firstNonBlank(studentName, "Student"), "_")
	id := firstNonBlank(studentID, "000")
	return "Career_Report_" + name + "_" + id + "_" + at.UTC().Format("2006-01-02") + ".pdf"
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
