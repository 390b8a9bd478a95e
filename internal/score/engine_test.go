package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

func testVendor(id int64, name string) *models.Vendor {
	return &models.Vendor{
		ID:                 id,
		Name:               name,
		Address:            "서울-중구 을지로 100",
		Active:             true,
		RegistrationStatus: models.RegistrationCompleted,
		Categories:         []string{"business_card", "banner", "sticker", "poster"},
		Capabilities: map[string]models.Capability{
			"business_card": {
				Materials: "아트지 250g, 스노우지, 반누보",
				Finishing: "무광 코팅, 유광 코팅, 박",
			},
			"sticker": {
				Materials: "칼라스티커, 투명스티커",
				Finishing: "유광",
				Sizes:     "100x100, 원형50, 자유형",
			},
			"banner": {
				Materials: "일반천, 메쉬",
				Sizes:     "5000x900, 4000x600",
			},
		},
	}
}

func TestEstimatePriceDeterministic(t *testing.T) {
	v := testVendor(1, "한빛인쇄")
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "500",
	}

	first := EstimatePrice(v, schema.CategoryBusinessCard, slots)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EstimatePrice(v, schema.CategoryBusinessCard, slots))
	}
	assert.GreaterOrEqual(t, first, 1)
}

func TestEstimatePriceVarianceBounds(t *testing.T) {
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "100",
	}

	// Unit base 300 x 100 units, scaled only by the per-vendor variance
	// factor, so every vendor lands inside [0.90, 1.10] of 30000.
	for id := int64(1); id <= 50; id++ {
		v := testVendor(id, "업체")
		price := EstimatePrice(v, schema.CategoryBusinessCard, slots)
		assert.GreaterOrEqual(t, price, 27000, "vendor %d", id)
		assert.LessOrEqual(t, price, 33001, "vendor %d", id)
	}
}

func TestEstimatePriceModifiersIncrease(t *testing.T) {
	v := testVendor(3, "모던프린트")
	base := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "200",
	}
	colored := base.Clone()
	colored["printing"] = "컬러 양면"
	finished := base.Clone()
	finished["finishing"] = "무광"

	plain := EstimatePrice(v, schema.CategoryBusinessCard, base)
	assert.Greater(t, EstimatePrice(v, schema.CategoryBusinessCard, colored), plain)
	assert.Greater(t, EstimatePrice(v, schema.CategoryBusinessCard, finished), plain)
}

func TestEstimatePriceUnknownSizeUsesNominalArea(t *testing.T) {
	v := testVendor(7, "배너월드")
	slots := schema.Slots{
		schema.SlotCategory: "banner",
		schema.SlotQuantity: "1",
	}

	// Area mode with no usable size falls back to the nominal area, so the
	// price stays tiny but positive.
	price := EstimatePrice(v, schema.CategoryBanner, slots)
	assert.GreaterOrEqual(t, price, 1)
	assert.Less(t, price, 100)
}

func TestEstimateETAHours(t *testing.T) {
	v := testVendor(5, "퀵프린트")
	v.Address = "부산 해운대구 센텀로 20"

	base := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "100",
	}
	// (24 + 1.5) * 0.85 with no shipping or proximity adjustments.
	assert.InDelta(t, 21.675, EstimateETAHours(v, schema.CategoryBusinessCard, base), 0.001)

	matte := base.Clone()
	matte["finishing"] = "무광"
	assert.InDelta(t, 28.475, EstimateETAHours(v, schema.CategoryBusinessCard, matte), 0.001)

	shipped := base.Clone()
	shipped[schema.SlotDelivery] = "택배"
	assert.InDelta(t, 21.675+24, EstimateETAHours(v, schema.CategoryBusinessCard, shipped), 0.001)
}

func TestEstimateETAHoursAreaAndProximity(t *testing.T) {
	v := testVendor(6, "대형출력소")
	v.Address = "서울 중구 충무로 5"

	slots := schema.Slots{
		schema.SlotCategory: "banner",
		schema.SlotQuantity: "1",
		"size":              "5000x900mm",
		schema.SlotRegion:   "서울 중구",
		schema.SlotDelivery: "직접 수령",
	}

	// Area term min(24, 45000/10000) = 4.5; quantity term 0.015; pickup adds
	// nothing; matching region subtracts 6.
	want := (24+0.015+4.5)*0.85 - 6
	assert.InDelta(t, want, EstimateETAHours(v, schema.CategoryBanner, slots), 0.001)
}

func TestEstimateETAHoursNeverNegative(t *testing.T) {
	v := testVendor(8, "당일인쇄")
	fast := 0.5
	rush := 0.1
	v.Profile = &models.Profile{
		Leadtime: &models.LeadtimeOverride{
			BaseHours:      &fast,
			RushMultiplier: &rush,
		},
	}
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotRegion:   "서울 중구",
	}

	assert.GreaterOrEqual(t, EstimateETAHours(v, schema.CategoryBusinessCard, slots), 0.0)
}

func TestDeadlineScore(t *testing.T) {
	cases := []struct {
		name     string
		eta      float64
		dueDays  int
		expected float64
	}{
		{"comfortable slack", 20, 3, 100},
		{"exactly on time", 72, 3, 100},
		{"one day late", 90, 3, 80},
		{"two days late", 110, 3, 60},
		{"three days late", 96, 1, 40},
		{"five days late", 130, 1, 20},
		{"hopeless", 300, 1, 5},
		{"zero due days floored to one", 20, 0, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeadlineScore(tc.eta, tc.dueDays))
		})
	}
}

func TestPriceFitScoresSpread(t *testing.T) {
	scores := priceFitScores(map[int64]int{1: 10000, 2: 20000}, 0)

	require.Len(t, scores, 2)
	assert.Equal(t, 100.0, scores[1])
	assert.Equal(t, 0.0, scores[2])
}

func TestPriceFitScoresUniformPool(t *testing.T) {
	scores := priceFitScores(map[int64]int{1: 15000, 2: 15000, 3: 15000}, 0)

	for id, s := range scores {
		assert.Equal(t, 50.0, s, "vendor %d", id)
	}
}

func TestPriceFitScoresBudget(t *testing.T) {
	// Vendor 2 is 50% over a 20000 budget: base 0 minus the 50-point cap,
	// clamped to 0. Vendor 1 is 50% under: base 100 plus the 20-point cap,
	// clamped to 100.
	scores := priceFitScores(map[int64]int{1: 10000, 2: 30000}, 20000)
	assert.Equal(t, 100.0, scores[1])
	assert.Equal(t, 0.0, scores[2])

	// A mildly over-budget middle vendor loses proportionally.
	scores = priceFitScores(map[int64]int{1: 10000, 2: 22000, 3: 30000}, 20000)
	base := 100.0 * float64(30000-22000) / float64(30000-10000)
	assert.InDelta(t, base-10.0, scores[2], 0.001)
}

func TestPriceFitScoresEmptyPool(t *testing.T) {
	scores := priceFitScores(map[int64]int{}, 10000)
	assert.NotNil(t, scores)
	assert.Empty(t, scores)
}

func TestFitScoreBusinessCard(t *testing.T) {
	v := testVendor(1, "한빛인쇄")
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "1000",
		"paper":             "아트지",
		"finishing":         "무광",
	}

	// Material 35 + finishing 25 + capacity headroom (2000-1000)/2000 * 20.
	// Business cards skip the size term.
	assert.InDelta(t, 70.0, FitScore(v, schema.CategoryBusinessCard, slots), 0.001)
}

func TestFitScoreStickerSizeMatch(t *testing.T) {
	v := testVendor(2, "스티커팩토리")
	slots := schema.Slots{
		schema.SlotCategory: "sticker",
		schema.SlotQuantity: "100",
		"type":              "칼라스티커",
		"size":              "100x100",
	}

	// Material 35 + size 20 + capacity 19; no finishing requested so that
	// term stays out.
	assert.InDelta(t, 74.0, FitScore(v, schema.CategorySticker, slots), 0.001)
}

func TestFitScoreNoCapabilityData(t *testing.T) {
	v := testVendor(3, "신규업체")
	v.Capabilities = nil
	slots := schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "100",
		"paper":             "아트지",
	}

	// Only the capacity term can score without declared capabilities.
	got := FitScore(v, schema.CategoryBusinessCard, slots)
	assert.InDelta(t, 19.0, got, 0.001)
}

func TestFitScoreCapped(t *testing.T) {
	v := testVendor(4, "만능인쇄")
	slots := schema.Slots{
		schema.SlotCategory: "sticker",
		schema.SlotQuantity: "1",
		"type":              "투명스티커",
		"size":              "원형50",
		"finishing":         "유광",
	}

	got := FitScore(v, schema.CategorySticker, slots)
	assert.LessOrEqual(t, got, 100.0)
	assert.Greater(t, got, 99.0)
}

func TestResolveRulesProfileOverride(t *testing.T) {
	rate := 0.05
	v := testVendor(9, "프리미엄")
	v.Profile = &models.Profile{
		Pricing: map[string]models.PricingOverride{
			"banner": {RatePerCM2: &rate},
		},
		DailyCapacity: 500,
	}

	rules := resolveRules(v, schema.CategoryBanner)
	assert.Equal(t, 0.05, rules.Pricing.RatePerCM2)
	assert.Equal(t, 500, rules.DailyCapacity)
	// Untouched fields keep category defaults.
	assert.Equal(t, 1.15, rules.Pricing.ColorMultiplier)

	// The shared default map must not absorb the override.
	assert.Equal(t, 0.015, defaultPricing[schema.CategoryBanner].RatePerCM2)
}
