// Package score implements the OneQ ranking engine: it estimates a price and
// a completion ETA per candidate vendor, scores fit across price, deadline
// and work-capability dimensions, and produces a deterministic, tie-broken
// ranking with a top-3 headline slice.
//
// The engine is a pure function over its inputs. It performs no I/O and keeps
// no state between calls, so concurrent rankings need no coordination.
package score

// SubScores carries the three 0-100 dimension scores, their weighted
// contributions and the composite. The composite always equals the sum of the
// three contributions.
type SubScores struct {
	Price                int `json:"price"`
	Deadline             int `json:"deadline"`
	Fit                  int `json:"fit"`
	PriceContribution    int `json:"price_weighted"`
	DeadlineContribution int `json:"deadline_weighted"`
	FitContribution      int `json:"fit_weighted"`
	Total                int `json:"oneq_total"`
}

// ScoredCandidate is the engine's output unit for one eligible vendor.
type ScoredCandidate struct {
	VendorID        int64     `json:"vendor_id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	EstimatedPrice  int       `json:"estimated_total_price"`
	ETAHours        float64   `json:"eta_hours"`
	ProductionTime  string    `json:"production_time"`
	DeliveryOptions string    `json:"delivery_options"`
	Verified        bool      `json:"verified"`
	Reason          string    `json:"reason"`
	Scores          SubScores `json:"scores"`

	// sortKey is the composite plus the deterministic tie-break offset. It
	// orders the result but never shows up in the reported score.
	sortKey float64
}

// Result is one ranking call's output. Count is the number of eligible
// candidates; zero is a valid "no recommendation possible" outcome, not an
// error.
type Result struct {
	Count int               `json:"count"`
	Items []ScoredCandidate `json:"items"`
	All   []ScoredCandidate `json:"all"`
}

// Composite weights. Each contribution is rounded and clamped to its own
// ceiling before summing, so rounding can never push the composite past 100.
const (
	priceWeight    = 0.40
	deadlineWeight = 0.30
	fitWeight      = 0.30

	priceCeiling    = 40
	deadlineCeiling = 30
	fitCeiling      = 30
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
