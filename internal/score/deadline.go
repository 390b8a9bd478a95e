package score

// DeadlineScore converts an ETA and a requested due date into a 0-100
// feasibility score. The fall-off past the deadline is graduated rather than
// a hard cutoff: a marginally late vendor stays in the ranking, since the
// orderer may still negotiate expedited handling. The floor is a small
// positive value, never zero.
func DeadlineScore(etaHours float64, dueDays int) float64 {
	if dueDays < 1 {
		dueDays = 1
	}
	slack := float64(dueDays*24) - etaHours

	switch {
	case slack >= 0:
		return 100
	case slack >= -24:
		return 80
	case slack >= -48:
		return 60
	case slack >= -72:
		return 40
	case slack >= -120:
		return 20
	default:
		return 5
	}
}
