// Package populate turns cached page templates into request-specific HTML.
//
// Templates carry {{token}} placeholders and <!-- region:name --> blocks.
// Every function here is a pure string transformation: the cached template
// is never modified, a new string is returned.
package populate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"career-report/internal/domain"

	"github.com/microcosm-cc/bluemonday"
)

// ErrCareerNotInCatalog is returned when a rendered career has no catalog
// entry to take its "why this fits" text from.
var ErrCareerNotInCatalog = errors.New("career not found in catalog")

// Catalog is the read-only reference data the populators look values up in.
type Catalog interface {
	Career(name string) (domain.CatalogCareer, bool)
	Recommendation(bucketName string) (string, bool)
	TraitDescription(code string) (string, bool)
	LogoSrc() string
}

// Page identifies one template of the report.
type Page struct {
	Name   string
	Number int
}

// PageFromName derives the page number from names like "page4.html".
func PageFromName(name string) Page {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "page"), ".html"))
	return Page{Name: name, Number: n}
}

// Identity carries the top-level request identity, which takes precedence
// over the values embedded in the report data.
type Identity struct {
	StudentID   string
	StudentName string
}

// strict strips all markup from caller-supplied text.
var strict = bluemonday.StrictPolicy()

func clean(s string) string { return strict.Sanitize(s) }

// Populate fills the template for page with data.
func Populate(tpl string, page Page, data *domain.ReportPayload, id Identity, cat Catalog) (string, error) {
	if data == nil {
		data = &domain.ReportPayload{}
	}
	switch {
	case page.Number == 1:
		return Cover(tpl, data, id), nil
	case page.Number == 2:
		return Profile(tpl, data, cat), nil
	case page.Number >= 3:
		idx := page.Number - 3
		var bucket *domain.Bucket
		if idx < len(data.TopBuckets) {
			bucket = &data.TopBuckets[idx]
		}
		return CareerPage(tpl, idx, bucket, cat)
	default:
		return tpl, nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// replaceRegion swaps everything between the region markers, markers
// included, for content. A template without the region is returned as is.
func replaceRegion(html, name, content string) string {
	open := "<!-- region:" + name + " -->"
	closing := "<!-- /region:" + name + " -->"
	start := strings.Index(html, open)
	if start < 0 {
		return html
	}
	end := strings.Index(html[start:], closing)
	if end < 0 {
		return html
	}
	end += start + len(closing)
	return html[:start] + content + html[end:]
}

func token(name string) string { return "{{" + name + "}}" }

// Lint reports the tokens and regions a template lacks for its page.
func Lint(name, tpl string) []string {
	page := PageFromName(name)
	var want []string
	switch {
	case page.Number == 1:
		want = []string{token(tokStudentName), token(tokStudentID), token(tokSchoolName), token(tokGradeBoard)}
	case page.Number == 2:
		want = []string{token(tokSummary), token(tokTraitInsight)}
		for _, code := range TraitCodes {
			want = append(want, token(scoreToken(code)))
		}
	case page.Number >= 3:
		want = []string{
			token(tokBucketHeading),
			"<!-- region:" + regionCareers + " -->", "<!-- /region:" + regionCareers + " -->",
			"<!-- region:" + regionRecommendation + " -->", "<!-- /region:" + regionRecommendation + " -->",
		}
	}
	var missing []string
	for _, w := range want {
		if !strings.Contains(tpl, w) {
			missing = append(missing, w)
		}
	}
	return missing
}

// Ordinal returns the "choice" label for the zero-based position i.
func Ordinal(i int) string {
	labels := []string{"1st", "2nd", "3rd", "4th", "5th"}
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("%dth", i+1)
}
