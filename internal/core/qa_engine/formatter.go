package qa_engine

import (
	"html"
	"math"
	"sort"
	"strings"

	"github.com/markdave123-py/askdoc/internal/models"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight returns the sentence as escaped HTML with the answer span wrapped
// in <mark>. The span comes from the model offsets when they point at the
// answer text, otherwise from its only occurrence in the sentence. An answer
// that is empty, missing, or ambiguous leaves the sentence unmarked.
func Highlight(sentence string, res models.QAResult) string {
	start, end, ok := answerSpan(sentence, res)
	if !ok {
		return html.EscapeString(sentence)
	}

	var sb strings.Builder
	sb.Grow(len(sentence) + len(markOpen) + len(markClose))
	sb.WriteString(html.EscapeString(sentence[:start]))
	sb.WriteString(markOpen)
	sb.WriteString(html.EscapeString(sentence[start:end]))
	sb.WriteString(markClose)
	sb.WriteString(html.EscapeString(sentence[end:]))
	return sb.String()
}

func answerSpan(sentence string, res models.QAResult) (int, int, bool) {
	if res.Answer == "" {
		return 0, 0, false
	}
	if res.Start >= 0 && res.End > res.Start && res.End <= len(sentence) &&
		sentence[res.Start:res.End] == res.Answer {
		return res.Start, res.End, true
	}
	if strings.Count(sentence, res.Answer) != 1 {
		return 0, 0, false
	}
	start := strings.Index(sentence, res.Answer)
	return start, start + len(res.Answer), true
}

// Rank orders candidates by confidence, highest first, keeping encounter order
// between equal scores, and keeps at most topN. An empty list becomes the
// single "no relevant answer" fallback.
func Rank(candidates []models.AnswerCandidate, topN int) []models.AnswerCandidate {
	if len(candidates) == 0 {
		return models.Fallback(models.MsgNoAnswer)
	}

	ranked := make([]models.AnswerCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// roundConfidence rounds a model score to two decimals for display and ranking.
func roundConfidence(score float64) float64 {
	return math.Round(score*100) / 100
}
