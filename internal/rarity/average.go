package rarity

// Average computes the fish tier from the three fed tiers.
//
// The mean of the tier indices is rounded to the nearest integer with ties
// rounding up, then clamped to the defined range. Unlike Inherit this is a
// pure function: same inputs, same output, in any order.
func Average(tiers [3]Tier) Tier {
	sum := 0
	for _, t := range tiers {
		sum += int(clamp(t))
	}
	// Round half up: (2*sum + 3) / 6 == floor(sum/3 + 1/2).
	rounded := (2*sum + 3) / 6
	return clamp(Tier(rounded))
}
