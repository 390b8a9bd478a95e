package score

import (
	"strings"

	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
)

// Fit term weights. Material, finishing and size matches plus capacity
// headroom sum to at most 100.
const (
	materialMatchPoints  = 35
	finishingMatchPoints = 25
	sizeMatchPoints      = 20
	capacityPoints       = 20
)

// Categories exempt from the size-match term: most vendors handle arbitrary
// standard sizes for these without enumerating them in free text, and
// penalizing a sparse catalog entry would be unfair.
var sizeMatchExempt = map[schema.Category]bool{
	schema.CategoryBusinessCard: true,
	schema.CategoryPoster:       true,
}

// Natural-language display forms per finishing code, used to match the
// normalized request back against vendor free text.
var finishingDisplayForms = map[string][]string{
	normalize.FinishingMatte: {"무광", "매트", "matte"},
	normalize.FinishingGloss: {"유광", "글로시", "gloss"},
}

func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// requestedMaterial picks the material-like token for the category: paper for
// paper goods, the sticker type for stickers.
func requestedMaterial(slots schema.Slots) string {
	for _, key := range []string{"paper", "material", "type"} {
		if slots.Has(key) {
			return slots.Get(key)
		}
	}
	return ""
}

// FitScore measures how well a vendor's declared capabilities cover the
// requested material, finishing and size, plus its daily-capacity headroom
// against the requested quantity. Capped at 100.
func FitScore(v *models.Vendor, cat schema.Category, slots schema.Slots) float64 {
	capability := v.Capabilities[string(cat)]
	s := 0.0

	if material := requestedMaterial(slots); containsFold(capability.Materials, material) {
		s += materialMatchPoints
	}

	fin := requestedFinishing(slots)
	if fin != normalize.FinishingNone && matchesFinishing(capability.Finishing, fin) {
		s += finishingMatchPoints
	}

	if !sizeMatchExempt[cat] {
		if size := slots.Get("size"); containsFold(capability.Sizes, size) {
			s += sizeMatchPoints
		}
	}

	rules := resolveRules(v, cat)
	daily := rules.DailyCapacity
	if daily < 1 {
		daily = 1
	}
	margin := float64(daily-slots.Quantity()) / float64(daily)
	if margin < 0 {
		margin = 0
	}
	s += capacityPoints * margin

	if s > 100 {
		s = 100
	}
	return s
}

func matchesFinishing(capabilityText, code string) bool {
	if capabilityText == "" {
		return false
	}
	forms, ok := finishingDisplayForms[code]
	if !ok {
		// Unknown codes keep their raw token; try it directly.
		forms = []string{code}
	}
	for _, form := range forms {
		if containsFold(capabilityText, form) {
			return true
		}
	}
	return false
}
