// Package normalize canonicalizes raw slot values collected from the chat
// flow: quantities, money amounts with Korean magnitude suffixes, due dates,
// regions, delivery methods and finishing vocabulary. Every function is total
// and idempotent; unparseable input degrades to a documented default so a bad
// utterance can never break the conversation.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

type DeliveryMethod string

const (
	DeliveryUnset   DeliveryMethod = ""
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryTruck   DeliveryMethod = "truck"
	DeliveryParcel  DeliveryMethod = "parcel"
)

var (
	digitsRe   = regexp.MustCompile(`\d+`)
	nonDigitRe = regexp.MustCompile(`[^\d]`)
	manRe      = regexp.MustCompile(`^(\d+)(만원|만)$`)
	cheonRe    = regexp.MustCompile(`^(\d+)(천원|천)$`)
	wonRe      = regexp.MustCompile(`^(\d+)원$`)
	countSufRe = regexp.MustCompile(`(부|개|장|매)$`)
)

// Quantity extracts the first integer from a quantity expression such as
// "500부" or "1,000개". The second return is false when no digits are present.
func Quantity(v string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.ReplaceAll(s, ",", "")
	s = countSufRe.ReplaceAllString(s, "")
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Money normalizes amounts like "15만원", "120,000원", "7천원" or "200000" to
// won. Comparative qualifiers (이하/이상/미만/초과) are stripped before parsing;
// the direction is deliberately not retained, matching the historical slot
// contract where budget is a single point value. Returns 0 when nothing
// parseable remains.
func Money(v string) int {
	s := strings.TrimSpace(v)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	for _, q := range []string{"이하", "미만", "이상", "초과"} {
		s = strings.ReplaceAll(s, q, "")
	}
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if m := manRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 10000
	}
	if m := cheonRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 1000
	}
	if m := wonRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}

	digits := nonDigitRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// DueDays extracts the first integer from an "N일" expression.
func DueDays(v string) (int, bool) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "일", "")
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Region canonicalizes a location token: "서울 중구" becomes "서울-중구",
// slash and underscore separators become hyphens, remaining whitespace is
// stripped. Already-normalized input passes through unchanged.
func Region(v string) string {
	fields := strings.Fields(v)
	var s string
	switch len(fields) {
	case 0:
		s = ""
	case 1:
		s = fields[0]
	default:
		s = fields[0] + "-" + strings.Join(fields[1:], "")
	}
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}

var deliveryKeywords = []struct {
	method   DeliveryMethod
	keywords []string
}{
	{DeliveryPickup, []string{"직접", "수령", "방문", "픽업", "pickup"}},
	{DeliveryCourier, []string{"퀵", "courier", "quick"}},
	{DeliveryTruck, []string{"화물", "트럭", "truck"}},
	{DeliveryParcel, []string{"택배", "parcel"}},
}

// Delivery keyword-classifies free text into a delivery method. Unmatched
// input maps to DeliveryUnset.
func Delivery(v string) DeliveryMethod {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return DeliveryUnset
	}
	for _, entry := range deliveryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(s, kw) {
				return entry.method
			}
		}
	}
	return DeliveryUnset
}

const (
	FinishingNone  = "NONE"
	FinishingGloss = "GLOSS"
	FinishingMatte = "MATTE"
)

// Finishing maps free-text finishing vocabulary to a canonical code. Unknown
// but non-empty values are upper-cased rather than discarded so the fit
// matcher can still try them against vendor text.
func Finishing(v string) string {
	f := strings.ToLower(strings.TrimSpace(v))
	switch {
	case f == "":
		return FinishingNone
	case strings.Contains(f, "무광") || strings.Contains(f, "matte"):
		return FinishingMatte
	case strings.Contains(f, "유광") || strings.Contains(f, "gloss"):
		return FinishingGloss
	case strings.Contains(f, "없"):
		return FinishingNone
	default:
		return strings.ToUpper(f)
	}
}
