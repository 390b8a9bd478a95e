package score

import (
	"math"
	"strings"

	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

// Categories whose production time grows with printed area.
var largeFormat = map[schema.Category]bool{
	schema.CategoryBanner:      true,
	schema.CategoryBannerLarge: true,
	schema.CategoryPoster:      true,
}

// Fixed shipping hours per delivery method.
var shippingHours = map[normalize.DeliveryMethod]float64{
	normalize.DeliveryPickup:  0,
	normalize.DeliveryCourier: 6,
	normalize.DeliveryTruck:   12,
	normalize.DeliveryParcel:  24,
}

// Hours shaved off when the vendor sits in the requested region.
const regionProximityHours = 6

// EstimateETAHours estimates completion time in hours: base lead time plus
// quantity- and area-proportional terms and finishing add-time, scaled by the
// vendor's rush multiplier, plus delivery shipping, minus the regional
// proximity discount. Never negative, never fails.
func EstimateETAHours(v *models.Vendor, cat schema.Category, slots schema.Slots) float64 {
	rules := resolveRules(v, cat)
	lead := rules.Lead

	qtyTerm := float64(slots.Quantity()) / 100.0 * lead.Per100Units

	areaTerm := 0.0
	if largeFormat[cat] {
		w, h, _ := normalize.Size(slots.Get("size"))
		areaTerm = math.Min(24.0, normalize.AreaCM2(w, h)/10000.0)
	}

	finAdd := lead.FinishingAddHours[requestedFinishing(slots)]

	eta := (lead.BaseHours + qtyTerm + areaTerm + finAdd) * lead.RushMultiplier

	eta += shippingHours[normalize.Delivery(slots.Get(schema.SlotDelivery))]

	region := strings.ReplaceAll(slots.Get(schema.SlotRegion), " ", "")
	address := strings.ReplaceAll(v.Address, " ", "")
	if region != "" && address != "" && strings.Contains(address, region) {
		eta -= regionProximityHours
	}

	if eta < 0 {
		eta = 0
	}
	return eta
}
