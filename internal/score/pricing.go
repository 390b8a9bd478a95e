package score

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

// requestedFinishing resolves the finishing code for a requirement set. The
// poster flow collects it under "coating"; everything else under "finishing".
func requestedFinishing(slots schema.Slots) string {
	if slots.Has("finishing") {
		return normalize.Finishing(slots.Get("finishing"))
	}
	return normalize.Finishing(slots.Get("coating"))
}

func isColorPrinting(slots schema.Slots) bool {
	p := strings.ToLower(slots.Get("printing"))
	return strings.Contains(p, "컬러") || strings.Contains(p, "color")
}

func isDuplexPrinting(slots schema.Slots) bool {
	p := strings.ToLower(slots.Get("printing"))
	return strings.Contains(p, "양면") || strings.Contains(p, "duplex") || strings.Contains(p, "double")
}

// EstimatePrice estimates a vendor's total price in won for one requirement
// set. Missing or malformed inputs degrade to defaults; the result is always
// at least 1.
func EstimatePrice(v *models.Vendor, cat schema.Category, slots schema.Slots) int {
	rules := resolveRules(v, cat)
	pr := rules.Pricing

	var base float64
	if pr.Mode == ModeArea {
		w, h, _ := normalize.Size(slots.Get("size"))
		area := normalize.AreaCM2(w, h)
		if area <= 0 {
			// Unknown size must not collapse to a zero price.
			area = 1.0
		}
		base = area * pr.RatePerCM2
	} else {
		base = pr.BaseUnitPrice
	}

	if isColorPrinting(slots) {
		base *= pr.ColorMultiplier
	}
	if isDuplexPrinting(slots) {
		base *= pr.DuplexMultiplier
	}

	fin := requestedFinishing(slots)
	if surcharge, ok := pr.FinishingSurcharge[fin]; ok {
		base += surcharge
	} else {
		base += pr.FinishingSurcharge[normalize.FinishingNone]
	}

	total := base * float64(slots.Quantity()) * priceVariance(v)
	price := int(math.Ceil(total))
	if price < 1 {
		price = 1
	}
	return price
}

// priceVariance is a deterministic per-vendor factor in [0.90, 1.10], derived
// from the vendor's identity. Shared heuristic defaults would otherwise give
// many vendors an identical price and make relative price scoring degenerate.
func priceVariance(v *models.Vendor) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", v.ID, v.Name)
	return 0.90 + 0.20*float64(h.Sum64()%2001)/2000.0
}
