package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"명함", CategoryBusinessCard, true},
		{"business_card", CategoryBusinessCard, true},
		{"배너", CategoryBanner, true},
		{"포스터", CategoryPoster, true},
		{"스티커", CategorySticker, true},
		{"현수막", CategoryBannerLarge, true},
		{"브로슈어", CategoryBrochure, true},
		{"티셔츠", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseCategory(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSlotsDefaults(t *testing.T) {
	s := Slots{}
	assert.Equal(t, 1, s.Quantity())
	assert.Equal(t, 3, s.DueDays())
	assert.Equal(t, 0, s.Budget())

	s[SlotQuantity] = "500"
	s[SlotDueDays] = "5일"
	s[SlotBudget] = "15만원"
	assert.Equal(t, 500, s.Quantity())
	assert.Equal(t, 5, s.DueDays())
	assert.Equal(t, 150000, s.Budget())
}

func TestSlotsMergeDoesNotOverwrite(t *testing.T) {
	s := Slots{SlotQuantity: "500"}
	s.Merge(map[string]string{
		SlotQuantity: "100",
		"paper":      "아트지",
	})

	assert.Equal(t, "500", s.Get(SlotQuantity))
	assert.Equal(t, "아트지", s.Get("paper"))
}

func TestSlotsMergeNormalizes(t *testing.T) {
	s := Slots{}
	s.Merge(map[string]string{
		SlotCategory: "명함",
		SlotQuantity: "1,000부",
		SlotBudget:   "10만원",
		SlotRegion:   "서울 중구",
		SlotDelivery: "택배로 보내주세요",
	})

	assert.Equal(t, "business_card", s.Get(SlotCategory))
	assert.Equal(t, "1000", s.Get(SlotQuantity))
	assert.Equal(t, "100000", s.Get(SlotBudget))
	assert.Equal(t, "서울-중구", s.Get(SlotRegion))
	assert.Equal(t, "parcel", s.Get(SlotDelivery))
}

func TestSlotsMergeDropsUnparseable(t *testing.T) {
	s := Slots{}
	s.Merge(map[string]string{
		SlotCategory: "티셔츠",
		SlotQuantity: "많이",
		SlotDelivery: "비둘기",
	})

	assert.False(t, s.Has(SlotCategory))
	assert.False(t, s.Has(SlotQuantity))
	assert.False(t, s.Has(SlotDelivery))
}

func TestSlotsClearEnablesReask(t *testing.T) {
	s := Slots{"paper": "일반지"}
	s.Clear("paper")
	s.Merge(map[string]string{"paper": "고급지"})
	assert.Equal(t, "고급지", s.Get("paper"))
}

func TestNextMissingWalksFlow(t *testing.T) {
	s := Slots{}

	p, ok := NextMissing(s)
	require.True(t, ok)
	assert.Equal(t, SlotCategory, p.Key)

	s[SlotCategory] = "business_card"
	p, ok = NextMissing(s)
	require.True(t, ok)
	assert.Equal(t, "paper", p.Key)
	assert.NotEmpty(t, p.Question)
	assert.NotEmpty(t, p.Choices)

	s["paper"] = "아트지"
	p, ok = NextMissing(s)
	require.True(t, ok)
	assert.Equal(t, "printing", p.Key)
}

func TestNextMissingCompleteFlow(t *testing.T) {
	s := Slots{
		SlotCategory: "business_card",
		"paper":      "아트지",
		"printing":   "양면 컬러",
		"finishing":  "무광",
		SlotQuantity: "500",
		SlotDueDays:  "3",
		SlotRegion:   "서울-중구",
		SlotBudget:   "100000",
	}

	_, ok := NextMissing(s)
	assert.False(t, ok)
	assert.Empty(t, Missing(s))

	valid, errs := Validate(s)
	assert.True(t, valid)
	assert.Empty(t, errs)
}

func TestRequiredSlotsIncludeCommonTail(t *testing.T) {
	for _, cat := range []Category{
		CategoryBusinessCard, CategoryBanner, CategoryPoster,
		CategorySticker, CategoryBannerLarge, CategoryBrochure,
	} {
		keys := RequiredSlots(cat)
		require.NotEmpty(t, keys, "category %s", cat)
		assert.Contains(t, keys, SlotQuantity, "category %s", cat)
		assert.Contains(t, keys, SlotDueDays, "category %s", cat)
		assert.Contains(t, keys, SlotRegion, "category %s", cat)
		assert.Contains(t, keys, SlotBudget, "category %s", cat)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	s := Slots{
		SlotCategory: "business_card",
		SlotQuantity: "영개",
		SlotDueDays:  "0일",
	}

	valid, errs := Validate(s)
	assert.False(t, valid)
	assert.Contains(t, errs, SlotQuantity)
	assert.Contains(t, errs, SlotDueDays)
}

func TestRenderSummary(t *testing.T) {
	s := Slots{
		SlotCategory: "business_card",
		"paper":      "아트지",
		"finishing":  "무광",
		SlotQuantity: "500",
		SlotRegion:   "서울-중구",
		SlotDueDays:  "3",
		SlotBudget:   "100000",
	}

	out := RenderSummary(s)
	assert.Contains(t, out, "항목: 명함")
	assert.Contains(t, out, "용지: 아트지")
	assert.Contains(t, out, "수량: 500부")
	assert.Contains(t, out, "예산: 100,000원")
}

func TestExplainTerm(t *testing.T) {
	facts, ok := ExplainTerm("무광")
	require.True(t, ok)
	assert.Equal(t, "무광", facts.Term)
	assert.NotEmpty(t, facts.Description)
	assert.NotEmpty(t, facts.UseCases)

	_, ok = ExplainTerm("양자코팅")
	assert.False(t, ok)
}
