package units

// ScaleValue returns q scaled from base to desired servings without rounding.
// Non-positive servings leave q unchanged.
func ScaleValue(q float64, base, desired int) float64 {
	if q == 0 || base <= 0 || desired <= 0 || base == desired {
		return q
	}
	return q * float64(desired) / float64(base)
}

// ScaleQuantity scales q and rounds the result for display. A zero
// quantity or zero servings returns q as is.
func ScaleQuantity(q float64, base, desired int) Amount {
	if q == 0 || base <= 0 || desired <= 0 {
		return Number(q)
	}
	return SmartRound(ScaleValue(q, base, desired))
}
