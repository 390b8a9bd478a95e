package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
)

func sampleResult() score.Result {
	items := []score.ScoredCandidate{
		{
			VendorID:       1,
			Name:           "한빛인쇄",
			Address:        "서울-중구 을지로 100",
			EstimatedPrice: 165000,
			ETAHours:       27.5,
			Verified:       true,
			Reason:         "경쟁력 있는 가격, 빠른 납기",
			Scores:         score.SubScores{Total: 92},
		},
		{
			VendorID:       2,
			Name:           "모던프린트",
			Address:        "서울-종로 인사동길 12",
			EstimatedPrice: 180000,
			ETAHours:       20,
			Reason:         "안정적인 납기",
			Scores:         score.SubScores{Total: 78},
		},
	}
	return score.Result{Count: 5, Items: items, All: items}
}

func TestRender(t *testing.T) {
	slots := schema.Slots{schema.SlotCategory: "business_card"}
	out := Render(slots, sampleResult())

	assert.Contains(t, out, "5곳 중 추천 2곳")
	assert.Contains(t, out, "1. 한빛인쇄")
	assert.Contains(t, out, "✓인증")
	assert.Contains(t, out, "165,000원")
	assert.Contains(t, out, "약 1일 4시간")
	assert.Contains(t, out, "2. 모던프린트")
	assert.Contains(t, out, "약 20시간")
	assert.Contains(t, out, "경쟁력 있는 가격")
}

func TestRenderEmptyResult(t *testing.T) {
	out := Render(schema.Slots{}, score.Result{Items: []score.ScoredCandidate{}, All: []score.ScoredCandidate{}})
	assert.Contains(t, out, "찾지 못했어요")
}

func TestBuild(t *testing.T) {
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "500",
	}

	q := Build(slots, sampleResult())
	assert.Equal(t, 5, q.CandidateCount)
	require.Len(t, q.Recommendations, 2)
	assert.Contains(t, q.Summary, "명함")
	assert.NotEmpty(t, q.Message)
}
