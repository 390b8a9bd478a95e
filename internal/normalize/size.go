package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	circleRe = regexp.MustCompile(`^(원형|원|지름|ø|diameter)(\d{2,4})(mm)?$`)
	whRe     = regexp.MustCompile(`^(\d{2,4})x(\d{2,4})(mm)?$`)
)

// Standard paper sizes in millimeters.
var paperSizesMM = map[string][2]int{
	"a0": {841, 1189}, "a1": {594, 841}, "a2": {420, 594},
	"a3": {297, 420}, "a4": {210, 297}, "a5": {148, 210},
	"b3": {353, 500}, "b4": {250, 353}, "b5": {176, 250},
}

// Size parses "90x50mm", "600×1800mm", "A4", "원형 50mm", "Ø50mm" and the
// like into millimeter dimensions. Circular sizes come back as width=height=
// diameter. Unrecognized input returns (0, 0, false).
func Size(v string) (widthMM, heightMM int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return 0, 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "×", "x")

	if m := circleRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[2])
		return d, d, true
	}
	if m := whRe.FindStringSubmatch(s); m != nil {
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		return w, h, true
	}
	if dims, found := paperSizesMM[s]; found {
		return dims[0], dims[1], true
	}
	return 0, 0, false
}

// AreaCM2 converts millimeter dimensions to printed area in cm². Unknown
// dimensions yield 0.
func AreaCM2(widthMM, heightMM int) float64 {
	if widthMM <= 0 || heightMM <= 0 {
		return 0
	}
	return float64(widthMM*heightMM) / 100.0
}
