package game

import "slices"

// Pot is a main or side pot and the seats that can win it
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// CalculatePots layers the chips committed this hand into a main pot and
// side pots. Each all-in total opens a new level; folded seats contribute to
// every level they reached but are never eligible. The pot amounts always sum
// to the total committed.
func CalculatePots(seats []*Seat) []Pot {
	var levels []int
	maxTotal := 0
	for _, s := range seats {
		if s == nil || s.TotalBetInHand <= 0 {
			continue
		}
		maxTotal = max(maxTotal, s.TotalBetInHand)
		if s.AllIn && !s.Folded {
			levels = append(levels, s.TotalBetInHand)
		}
	}
	if maxTotal == 0 {
		return nil
	}
	levels = append(levels, maxTotal)
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, s := range seats {
			if s == nil || s.TotalBetInHand <= prev {
				continue
			}
			pot.Amount += min(s.TotalBetInHand, level) - prev
			if !s.Folded && s.Active && s.TotalBetInHand >= level {
				pot.Eligible = append(pot.Eligible, s.Number)
			}
		}
		prev = level

		switch {
		case pot.Amount == 0:
		case len(pot.Eligible) == 0 && len(pots) > 0:
			// Chips nobody live can claim (a folded seat's overbet) go to
			// the pot below.
			pots[len(pots)-1].Amount += pot.Amount
		default:
			pots = append(pots, pot)
		}
	}
	return pots
}

// totalPot sums the amounts of pots
func totalPot(pots []Pot) int {
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	return total
}
