// Package report renders ranking results into the user-facing quote message
// and the structured payload the API returns alongside it.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
)

// Quote is the structured quote payload for one completed request.
type Quote struct {
	Summary         string                  `json:"summary"`
	CandidateCount  int                     `json:"candidate_count"`
	Recommendations []score.ScoredCandidate `json:"recommendations"`
	Message         string                  `json:"message"`
}

// Build assembles the quote payload: the confirmed request summary, the top
// recommendations and the rendered chat message.
func Build(slots schema.Slots, res score.Result) Quote {
	return Quote{
		Summary:         schema.RenderSummary(slots),
		CandidateCount:  res.Count,
		Recommendations: res.Items,
		Message:         Render(slots, res),
	}
}

// Render formats the ranking result as the Korean chat reply.
func Render(slots schema.Slots, res score.Result) string {
	if res.Count == 0 {
		return "조건에 맞는 인쇄소를 찾지 못했어요. 납기나 지역 조건을 조정해서 다시 찾아볼까요?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "조건에 맞는 인쇄소 %d곳 중 추천 %d곳을 찾았어요!\n", res.Count, len(res.Items))

	for i, c := range res.Items {
		fmt.Fprintf(&b, "\n%d. %s", i+1, c.Name)
		if c.Verified {
			b.WriteString(" ✓인증")
		}
		b.WriteString("\n")
		if c.Address != "" {
			fmt.Fprintf(&b, "   위치: %s\n", c.Address)
		}
		fmt.Fprintf(&b, "   예상 견적: %s원\n", groupDigits(c.EstimatedPrice))
		fmt.Fprintf(&b, "   예상 소요: %s\n", formatETA(c.ETAHours))
		fmt.Fprintf(&b, "   추천 이유: %s\n", c.Reason)
	}

	b.WriteString("\n연락처가 필요하시면 번호를 알려드릴게요.")
	return b.String()
}

// formatETA renders hours as days+hours once past a day.
func formatETA(hours float64) string {
	h := int(hours + 0.5)
	if h < 24 {
		return fmt.Sprintf("약 %d시간", h)
	}
	days := h / 24
	rem := h % 24
	if rem == 0 {
		return fmt.Sprintf("약 %d일", days)
	}
	return fmt.Sprintf("약 %d일 %d시간", days, rem)
}

func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
