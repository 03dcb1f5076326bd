package populate

import (
	"fmt"
	"strconv"
	"strings"

	"career-report/internal/domain"
)

const (
	tokBucketHeading     = "bucket_heading"
	regionCareers        = "careers"
	regionRecommendation = "recommendation"

	// careersPerPage is how many careers of a bucket get a card.
	careersPerPage = 2

	noRecommendation = "No recommendation available for this category."
	emptyCareers     = `<div class="flex-grow"></div>`
	cardSeparator    = `<div class="my-2"></div>`
	studyPathDivider = `<div class="text-header-blue text-base font-bold"> / </div>`
)

// CareerPage fills one of the bucket pages. bucketIndex is zero-based. A nil
// bucket, or one without careers, collapses the card region to an empty
// placeholder.
func CareerPage(tpl string, bucketIndex int, bucket *domain.Bucket, cat Catalog) (string, error) {
	if bucket == nil || bucket.BucketName == "" || len(bucket.TopCareers) == 0 {
		html := strings.ReplaceAll(tpl, token(tokBucketHeading), "")
		html = replaceRegion(html, regionCareers, emptyCareers)
		return replaceRegion(html, regionRecommendation, recommendationBlock("")), nil
	}

	careers := bucket.TopCareers
	if len(careers) > careersPerPage {
		careers = careers[:careersPerPage]
	}

	cards := make([]string, 0, len(careers))
	for i, c := range careers {
		card, err := careerCard(i, c, cat)
		if err != nil {
			return "", err
		}
		cards = append(cards, card)
	}

	heading := strconv.Itoa(bucketIndex+1) + ". " + clean(bucket.BucketName)
	html := strings.ReplaceAll(tpl, token(tokBucketHeading), heading)
	html = replaceRegion(html, regionCareers,
		`<div class="flex-grow flex flex-col">`+strings.Join(cards, cardSeparator)+`</div>`)

	rec, ok := cat.Recommendation(bucket.BucketName)
	if !ok || rec == "" {
		rec = noRecommendation
	}
	return replaceRegion(html, regionRecommendation, recommendationBlock(rec)), nil
}

func recommendationBlock(text string) string {
	return `<div class="bg-white rounded-xl p-4 h-full shadow-sm border border-slate-50 recommendation-content">` +
		`<p class="text-[12px] text-gray-700 leading-snug line-clamp-5">` + text + `</p></div>`
}

func chips(items []string, class string) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, class, clean(it))
	}
	return b.String()
}

func careerCard(i int, c domain.Career, cat Catalog) (string, error) {
	entry, ok := cat.Career(c.CareerName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrCareerNotInCatalog, c.CareerName)
	}

	steps := make([]string, 0, len(c.StudyPath))
	for _, p := range c.StudyPath {
		steps = append(steps, `<div class="bg-pill-bg px-3 py-1.5 rounded-md text-xs font-semibold text-slate-700">`+clean(p)+`</div>`)
	}
	const chipClass = "bg-pill-bg px-2 py-0.5 rounded-full text-xs font-semibold text-slate-700"

	return fmt.Sprintf(`
<div class="bg-white rounded-2xl p-4 shadow-soft career-card">
  <div class="flex items-center mb-2">
    <div class="w-[6px] h-[28px] bg-header-blue rounded mr-4"></div>
    <div class="text-xl font-bold text-header-blue leading-none">
      <span class="career-name">%s</span> <span class="text-lg font-bold ml-2 text-green-success choice">%s Choice</span>
    </div>
  </div>
  <div class="text-[13px] mb-1 pl-5 text-gray-700 leading-normal why-fit">
    <strong class="text-gray-900">Why This Fits:</strong> %s
  </div>
  <div class="flex items-center mb-2 pl-5">
    <div class="font-bold text-[13px] mr-4 text-gray-900">Study Path:</div>
    <div class="flex items-center gap-2 flex-wrap study-path">%s</div>
  </div>
  <div class="bg-yellow-bg rounded-lg p-3 border border-yellow-border">
    <div class="flex items-center text-header-blue font-bold text-xs mb-1.5">
      <span class="mr-2 text-sm">💡</span>
      <span class="mr-1">Pro Tip by</span>
      <img src="%s" alt="ALLEN ONLINE" class="h-[14px] w-auto mx-1 inline-block align-middle">
      <span>Experts</span>
    </div>
    <div class="text-[11px] text-gray-600 pl-7 leading-relaxed">
      To excel in this career,
      <div class="flex flex-wrap items-baseline gap-1 mt-2 skills">
        <h5 class="font-bold">top skills you must develop:</h5>
        %s
      </div>
      <div class="flex flex-wrap items-baseline gap-1 mt-2 courses">
        <h5 class="font-bold">Courses recommended for you:</h5>
        %s
      </div>
    </div>
  </div>
</div>`,
		clean(c.CareerName), Ordinal(i), entry.WhyFit,
		strings.Join(steps, studyPathDivider), cat.LogoSrc(),
		chips(c.RecommendedSkills, chipClass), chips(c.RecommendedCourses, chipClass),
	), nil
}
