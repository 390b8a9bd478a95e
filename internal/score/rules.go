package score

import (
	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

// PricingMode selects how a vendor's base cost is computed.
type PricingMode string

const (
	ModeArea PricingMode = "area"
	ModeUnit PricingMode = "unit"
)

// pricingRules is the fully resolved per-category pricing rule set for one
// vendor: category defaults with the vendor's declared overrides applied
// field by field.
type pricingRules struct {
	Mode               PricingMode
	RatePerCM2         float64
	BaseUnitPrice      float64
	ColorMultiplier    float64
	DuplexMultiplier   float64
	FinishingSurcharge map[string]float64
}

// leadProfile is the resolved lead-time model for one vendor.
type leadProfile struct {
	BaseHours         float64
	Per100Units       float64
	RushMultiplier    float64
	FinishingAddHours map[string]float64
}

type vendorRules struct {
	Pricing       pricingRules
	Lead          leadProfile
	DailyCapacity int
}

// Heuristic category defaults. Every supported category has an entry so rule
// resolution never fails for lack of vendor-declared data.
var defaultPricing = map[schema.Category]pricingRules{
	schema.CategoryBusinessCard: {
		Mode:             ModeUnit,
		BaseUnitPrice:    300,
		ColorMultiplier:  1.2,
		DuplexMultiplier: 1.5,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingGloss: 50,
			normalize.FinishingMatte: 80,
			normalize.FinishingNone:  0,
		},
	},
	schema.CategoryPoster: {
		Mode:             ModeArea,
		RatePerCM2:       0.02,
		ColorMultiplier:  1.2,
		DuplexMultiplier: 1.7,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingGloss: 200,
			normalize.FinishingMatte: 250,
			normalize.FinishingNone:  0,
		},
	},
	schema.CategoryBanner: {
		Mode:             ModeArea,
		RatePerCM2:       0.015,
		ColorMultiplier:  1.15,
		DuplexMultiplier: 1.0,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingNone: 0,
		},
	},
	schema.CategorySticker: {
		Mode:             ModeArea,
		RatePerCM2:       0.03,
		ColorMultiplier:  1.2,
		DuplexMultiplier: 1.0,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingGloss: 60,
			normalize.FinishingMatte: 80,
			normalize.FinishingNone:  0,
		},
	},
	schema.CategoryBannerLarge: {
		Mode:             ModeArea,
		RatePerCM2:       0.012,
		ColorMultiplier:  1.0,
		DuplexMultiplier: 1.0,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingNone: 0,
		},
	},
	schema.CategoryBrochure: {
		Mode:             ModeUnit,
		BaseUnitPrice:    700,
		ColorMultiplier:  1.2,
		DuplexMultiplier: 1.6,
		FinishingSurcharge: map[string]float64{
			normalize.FinishingNone: 0,
		},
	},
}

var defaultLead = leadProfile{
	BaseHours:      24,
	Per100Units:    1.5,
	RushMultiplier: 0.85,
	FinishingAddHours: map[string]float64{
		normalize.FinishingGloss: 6,
		normalize.FinishingMatte: 8,
	},
}

const defaultDailyCapacity = 2000

// resolveRules merges the built-in category defaults with the vendor's
// declared overrides. Override wins per field; absent fields keep defaults.
func resolveRules(v *models.Vendor, cat schema.Category) vendorRules {
	rules := vendorRules{
		Pricing:       defaultPricing[cat],
		Lead:          defaultLead,
		DailyCapacity: defaultDailyCapacity,
	}
	if rules.Pricing.Mode == "" {
		rules.Pricing = pricingRules{
			Mode:               ModeUnit,
			BaseUnitPrice:      300,
			ColorMultiplier:    1.0,
			DuplexMultiplier:   1.0,
			FinishingSurcharge: map[string]float64{normalize.FinishingNone: 0},
		}
	}

	if v == nil || v.Profile == nil {
		return rules
	}
	profile := v.Profile

	if ov, ok := profile.Pricing[string(cat)]; ok {
		if ov.Mode != "" {
			rules.Pricing.Mode = PricingMode(ov.Mode)
		}
		if ov.RatePerCM2 != nil {
			rules.Pricing.RatePerCM2 = *ov.RatePerCM2
		}
		if ov.BaseUnitPrice != nil {
			rules.Pricing.BaseUnitPrice = *ov.BaseUnitPrice
		}
		if ov.ColorMultiplier != nil {
			rules.Pricing.ColorMultiplier = *ov.ColorMultiplier
		}
		if ov.DuplexMultiplier != nil {
			rules.Pricing.DuplexMultiplier = *ov.DuplexMultiplier
		}
		if len(ov.FinishingSurcharge) > 0 {
			merged := make(map[string]float64, len(rules.Pricing.FinishingSurcharge))
			for k, val := range rules.Pricing.FinishingSurcharge {
				merged[k] = val
			}
			for k, val := range ov.FinishingSurcharge {
				merged[k] = val
			}
			rules.Pricing.FinishingSurcharge = merged
		}
	}

	if lt := profile.Leadtime; lt != nil {
		if lt.BaseHours != nil {
			rules.Lead.BaseHours = *lt.BaseHours
		}
		if lt.Per100Units != nil {
			rules.Lead.Per100Units = *lt.Per100Units
		}
		if lt.RushMultiplier != nil {
			rules.Lead.RushMultiplier = *lt.RushMultiplier
		}
		if len(lt.FinishingAddHours) > 0 {
			merged := make(map[string]float64, len(rules.Lead.FinishingAddHours))
			for k, val := range rules.Lead.FinishingAddHours {
				merged[k] = val
			}
			for k, val := range lt.FinishingAddHours {
				merged[k] = val
			}
			rules.Lead.FinishingAddHours = merged
		}
	}

	if profile.DailyCapacity > 0 {
		rules.DailyCapacity = profile.DailyCapacity
	}

	return rules
}
