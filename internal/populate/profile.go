package populate

import (
	"strings"

	"career-report/internal/domain"
)

const (
	tokSummary      = "summary_paragraph"
	tokTraitInsight = "trait_insight"

	noScoresInsight   = "No RIASEC scores available."
	noInsightFallback = "Unable to generate specific RIASEC insight."
)

// TraitCodes are the six interest codes page 2 draws bars for, in order.
var TraitCodes = []string{"R", "I", "A", "S", "E", "C"}

func scoreToken(code string) string { return "score_" + code }

// TraitInsight returns the descriptor of the highest scoring trait.
func TraitInsight(scores domain.TraitScores, cat Catalog) string {
	code, ok := scores.Highest()
	if !ok {
		return noScoresInsight
	}
	if desc, ok := cat.TraitDescription(code); ok && desc != "" {
		return desc
	}
	return noInsightFallback
}

// Profile fills page 2: summary paragraph, trait insight and score bars.
// A trait missing from the payload is drawn at 0.
func Profile(tpl string, data *domain.ReportPayload, cat Catalog) string {
	pairs := []string{
		token(tokSummary), clean(data.SummaryParagraph),
		token(tokTraitInsight), TraitInsight(data.VibeScores, cat),
	}
	for _, code := range TraitCodes {
		score, _ := data.VibeScores.Get(code)
		pairs = append(pairs, token(scoreToken(code)), formatScore(score))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
