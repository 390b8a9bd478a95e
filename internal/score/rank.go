package score

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

// neutralScore is the fallback given to a vendor whose record could not be
// scored; it keeps the vendor visible in the ranking instead of silently
// dropping it.
const neutralScore = 50.0

// Eligible reports whether a vendor can be ranked for a category: it must be
// active, have completed registration, and support the category.
func Eligible(v *models.Vendor, cat schema.Category) bool {
	if v == nil || !v.Active || v.RegistrationStatus != models.RegistrationCompleted {
		return false
	}
	for _, c := range v.Categories {
		if c == string(cat) {
			return true
		}
	}
	return false
}

type vendorEstimate struct {
	vendor        *models.Vendor
	price         int
	eta           float64
	deadlineScore float64
	fitScore      float64
	failed        bool
}

// Rank filters the vendor pool to the eligible candidates for the requested
// category, scores each across price, deadline and work fit, and
// returns the full descending ranking plus the top-3 headline slice. A pool
// with no eligible vendors yields Count==0 and empty slices.
func Rank(slots schema.Slots, vendors []*models.Vendor) Result {
	empty := Result{Count: 0, Items: []ScoredCandidate{}, All: []ScoredCandidate{}}

	cat, ok := slots.Category()
	if !ok {
		return empty
	}

	var estimates []vendorEstimate
	for _, v := range vendors {
		if !Eligible(v, cat) {
			continue
		}
		estimates = append(estimates, estimateVendor(v, cat, slots))
	}
	if len(estimates) == 0 {
		return empty
	}

	// Relative price fit needs the whole pool; failed vendors stay out of
	// the spread so a zero price cannot skew it.
	poolPrices := make(map[int64]int, len(estimates))
	for _, est := range estimates {
		if !est.failed {
			poolPrices[est.vendor.ID] = est.price
		}
	}
	priceScores := priceFitScores(poolPrices, slots.Budget())

	all := make([]ScoredCandidate, 0, len(estimates))
	for _, est := range estimates {
		priceScore, found := priceScores[est.vendor.ID]
		if !found {
			priceScore = neutralScore
		}
		all = append(all, buildCandidate(est, priceScore))
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].sortKey != all[j].sortKey {
			return all[i].sortKey > all[j].sortKey
		}
		return all[i].VendorID < all[j].VendorID
	})

	top := all
	if len(top) > 3 {
		top = top[:3]
	}
	items := make([]ScoredCandidate, len(top))
	copy(items, top)

	return Result{Count: len(all), Items: items, All: all}
}

// estimateVendor computes the per-vendor estimates and pool-independent
// sub-scores. A panic from a corrupt record is recovered locally: the vendor
// gets neutral scores and the batch continues.
func estimateVendor(v *models.Vendor, cat schema.Category, slots schema.Slots) (est vendorEstimate) {
	est.vendor = v
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Vendor scoring failed, using neutral fallback",
				zap.Int64("vendor_id", v.ID),
				zap.String("vendor", v.Name),
				zap.Any("panic", r),
			)
			est = vendorEstimate{
				vendor:        v,
				deadlineScore: neutralScore,
				fitScore:      neutralScore,
				failed:        true,
			}
		}
	}()

	est.price = EstimatePrice(v, cat, slots)
	est.eta = EstimateETAHours(v, cat, slots)
	est.deadlineScore = DeadlineScore(est.eta, slots.DueDays())
	est.fitScore = FitScore(v, cat, slots)
	return est
}

func buildCandidate(est vendorEstimate, priceScore float64) ScoredCandidate {
	priceC := clampInt(int(math.Round(priceScore*priceWeight)), 0, priceCeiling)
	deadlineC := clampInt(int(math.Round(est.deadlineScore*deadlineWeight)), 0, deadlineCeiling)
	fitC := clampInt(int(math.Round(est.fitScore*fitWeight)), 0, fitCeiling)
	total := priceC + deadlineC + fitC

	v := est.vendor
	return ScoredCandidate{
		VendorID:        v.ID,
		Name:            v.Name,
		Phone:           v.Phone,
		Address:         v.Address,
		EstimatedPrice:  est.price,
		ETAHours:        math.Round(est.eta*10) / 10,
		ProductionTime:  v.ProductionTime,
		DeliveryOptions: v.DeliveryOptions,
		Verified:        v.Verified,
		Reason:          buildReason(priceScore, est.deadlineScore, est.fitScore),
		Scores: SubScores{
			Price:                int(math.Round(priceScore)),
			Deadline:             int(math.Round(est.deadlineScore)),
			Fit:                  int(math.Round(est.fitScore)),
			PriceContribution:    priceC,
			DeadlineContribution: deadlineC,
			FitContribution:      fitC,
			Total:                total,
		},
		// Fixed id-derived offset keeps equal composites in a stable total
		// order without touching the reported score.
		sortKey: float64(total) + float64(v.ID%7)*0.07,
	}
}

func buildReason(priceScore, deadlineScore, fitScore float64) string {
	var reasons []string
	switch {
	case priceScore >= 80:
		reasons = append(reasons, "경쟁력 있는 가격")
	case priceScore >= 60:
		reasons = append(reasons, "합리적인 가격")
	}
	switch {
	case deadlineScore >= 80:
		reasons = append(reasons, "빠른 납기")
	case deadlineScore >= 60:
		reasons = append(reasons, "안정적인 납기")
	}
	switch {
	case fitScore >= 80:
		reasons = append(reasons, "완벽한 스펙 매칭")
	case fitScore >= 60:
		reasons = append(reasons, "적합한 작업 능력")
	}
	if len(reasons) == 0 {
		return "종합적인 만족도"
	}
	return strings.Join(reasons, ", ")
}
