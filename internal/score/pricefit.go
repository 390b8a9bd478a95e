package score

import "math"

// priceFitScores converts each vendor's estimated total into a relative
// 0-100 score against the pool's spread: the cheapest candidate scores 100,
// the most expensive 0. A pool with one uniform price scores a neutral 50
// across the board. A user budget shapes the base score: going over costs up
// to 50 points proportionally, staying under earns up to a 20-point bonus.
func priceFitScores(prices map[int64]int, budget int) map[int64]float64 {
	if len(prices) == 0 {
		return map[int64]float64{}
	}

	mn, mx := math.MaxInt, 0
	for _, p := range prices {
		if p < mn {
			mn = p
		}
		if p > mx {
			mx = p
		}
	}
	spread := mx - mn

	scores := make(map[int64]float64, len(prices))
	for id, price := range prices {
		var base float64
		if spread == 0 {
			base = 50.0
		} else {
			base = 100.0 * float64(mx-price) / float64(spread)
		}

		if budget > 0 {
			if price > budget {
				over := float64(price-budget) / float64(budget)
				base -= math.Min(50.0, over*100.0)
			} else {
				base += math.Min(20.0, float64(budget-price)/float64(budget)*50.0)
			}
		}

		scores[id] = clampFloat(base, 0, 100)
	}
	return scores
}
