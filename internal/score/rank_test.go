package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

func rankSlots() schema.Slots {
	return schema.Slots{
		schema.SlotCategory: "business_card",
		schema.SlotQuantity: "500",
		schema.SlotDueDays:  "3",
		schema.SlotRegion:   "서울-중구",
		"paper":             "아트지",
		"finishing":         "무광",
	}
}

func rankPool() []*models.Vendor {
	names := []string{"한빛인쇄", "모던프린트", "퀵프린트", "명함나라", "프린트플러스"}
	pool := make([]*models.Vendor, 0, len(names))
	for i, name := range names {
		pool = append(pool, testVendor(int64(i+1), name))
	}
	return pool
}

func TestRankEligibilityFilter(t *testing.T) {
	pool := rankPool()
	pool[1].Active = false
	pool[2].RegistrationStatus = "pending"
	pool[3].Categories = []string{"banner"}

	res := Rank(rankSlots(), pool)

	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.All, 2)
	for _, c := range res.All {
		assert.Contains(t, []int64{1, 5}, c.VendorID)
	}
}

func TestRankEmptyPool(t *testing.T) {
	res := Rank(rankSlots(), nil)

	assert.Equal(t, 0, res.Count)
	require.NotNil(t, res.Items)
	require.NotNil(t, res.All)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.All)
}

func TestRankMissingCategory(t *testing.T) {
	slots := rankSlots()
	slots.Clear(schema.SlotCategory)

	res := Rank(slots, rankPool())
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.All)
}

func TestRankWeightConservation(t *testing.T) {
	res := Rank(rankSlots(), rankPool())
	require.Equal(t, 5, res.Count)

	for _, c := range res.All {
		s := c.Scores
		assert.Equal(t, s.Total, s.PriceContribution+s.DeadlineContribution+s.FitContribution,
			"vendor %d", c.VendorID)
		assert.GreaterOrEqual(t, s.PriceContribution, 0)
		assert.LessOrEqual(t, s.PriceContribution, 40)
		assert.GreaterOrEqual(t, s.DeadlineContribution, 0)
		assert.LessOrEqual(t, s.DeadlineContribution, 30)
		assert.GreaterOrEqual(t, s.FitContribution, 0)
		assert.LessOrEqual(t, s.FitContribution, 30)
		assert.GreaterOrEqual(t, s.Total, 0)
		assert.LessOrEqual(t, s.Total, 100)
	}
}

func TestRankOrderingAndTopThree(t *testing.T) {
	res := Rank(rankSlots(), rankPool())
	require.Equal(t, 5, res.Count)
	require.Len(t, res.Items, 3)
	require.Len(t, res.All, 5)

	for i := 1; i < len(res.All); i++ {
		assert.GreaterOrEqual(t, res.All[i-1].Scores.Total, res.All[i].Scores.Total)
	}
	// The headline slice is the ranking's prefix.
	for i, item := range res.Items {
		assert.Equal(t, res.All[i].VendorID, item.VendorID)
	}
}

func TestRankDeterministic(t *testing.T) {
	slots := rankSlots()
	pool := rankPool()

	first := Rank(slots, pool)
	for i := 0; i < 3; i++ {
		again := Rank(slots, pool)
		require.Equal(t, first.Count, again.Count)
		for j := range first.All {
			assert.Equal(t, first.All[j].VendorID, again.All[j].VendorID)
			assert.Equal(t, first.All[j].Scores, again.All[j].Scores)
			assert.Equal(t, first.All[j].EstimatedPrice, again.All[j].EstimatedPrice)
		}
	}
}

func TestRankStableTieOrder(t *testing.T) {
	// Two vendors sharing a name differ only by ID, which feeds both the
	// price variance and the tie-break offset. Repeated runs must agree on
	// their relative order.
	pool := []*models.Vendor{testVendor(14, "쌍둥이"), testVendor(7, "쌍둥이")}
	slots := rankSlots()

	first := Rank(slots, pool)
	require.Equal(t, 2, first.Count)
	for i := 0; i < 5; i++ {
		again := Rank(slots, pool)
		assert.Equal(t, first.All[0].VendorID, again.All[0].VendorID)
		assert.Equal(t, first.All[1].VendorID, again.All[1].VendorID)
	}
}

func TestRankBudgetShiftsPriceScores(t *testing.T) {
	slots := rankSlots()
	slots[schema.SlotBudget] = "120,000원"
	require.Equal(t, 120000, slots.Budget())

	res := Rank(slots, rankPool())
	require.Equal(t, 5, res.Count)

	// 500 cards land well under a 120000 budget, so the cheapest vendor
	// keeps the full relative score and everyone stays within bounds.
	for _, c := range res.All {
		assert.GreaterOrEqual(t, c.Scores.Price, 0)
		assert.LessOrEqual(t, c.Scores.Price, 100)
	}
}

func TestRankSingleVendorNeutralPrice(t *testing.T) {
	res := Rank(rankSlots(), []*models.Vendor{testVendor(1, "한빛인쇄")})

	require.Equal(t, 1, res.Count)
	assert.Equal(t, 50, res.All[0].Scores.Price)
}

func TestRankReasonText(t *testing.T) {
	res := Rank(rankSlots(), rankPool())
	require.NotEmpty(t, res.All)

	for _, c := range res.All {
		assert.NotEmpty(t, c.Reason)
	}

	// A comfortable deadline should surface turnaround language on the
	// leader.
	top := res.All[0]
	if top.Scores.Deadline >= 80 {
		assert.Contains(t, top.Reason, "납기")
	}
}

func TestRankResultFieldsPopulated(t *testing.T) {
	res := Rank(rankSlots(), rankPool())
	require.NotEmpty(t, res.Items)

	top := res.Items[0]
	assert.NotZero(t, top.VendorID)
	assert.NotEmpty(t, top.Name)
	assert.Greater(t, top.EstimatedPrice, 0)
	assert.Greater(t, top.ETAHours, 0.0)
}
