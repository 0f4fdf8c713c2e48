package game

// GetNextSeat returns the next seat clockwise from `from` that can still act
// (occupied, active, not folded, not all-in), or NoSeat. The scan wraps and
// considers `from` itself last.
func GetNextSeat(seats []*Seat, from int) int {
	n := len(seats)
	for i := 1; i <= n; i++ {
		idx := wrap(from+i, n)
		if seats[idx].canAct() {
			return idx
		}
	}
	return NoSeat
}

// prevSeat returns the nearest seat counter-clockwise from `from` that can act
func prevSeat(seats []*Seat, from int) int {
	n := len(seats)
	for i := 1; i <= n; i++ {
		idx := wrap(from-i, n)
		if seats[idx].canAct() {
			return idx
		}
	}
	return NoSeat
}

func wrap(i, n int) int {
	if n == 0 {
		return NoSeat
	}
	return ((i % n) + n) % n
}

// IsBettingRoundComplete reports whether no further betting decisions are
// needed on the current street.
func IsBettingRoundComplete(state *GameState) bool {
	if state.Complete || state.CurrentSeat == NoSeat || state.InHandCount() <= 1 {
		return true
	}
	if state.CanActCount() < 2 {
		// A lone seat facing an all-in raise still has to call or fold.
		return !state.owes(state.CurrentSeat)
	}
	return false
}

// ShouldSkipToShowdown reports whether two or more seats are contesting the
// pot but at most one of them can still act, so the remaining streets should
// be dealt without betting. A lone seat that still owes chips against an
// all-in keeps the hand in betting until it calls or folds.
func ShouldSkipToShowdown(state *GameState) bool {
	if state.Complete || state.InHandCount() < 2 || state.CanActCount() > 1 {
		return false
	}
	return IsBettingRoundComplete(state)
}

// owes reports whether the seat must put in more chips to continue. When it
// is the only seat left that can act it owes nothing once it has matched the
// largest bet of the seats that are all-in.
func (g *GameState) owes(seat int) bool {
	s := g.Seat(seat)
	if !s.canAct() || s.BetInRound >= g.CurrentBet {
		return false
	}
	if g.CanActCount() == 1 {
		return s.BetInRound < g.maxOtherBet(seat)
	}
	return true
}

func (g *GameState) maxOtherBet(seat int) int {
	best := 0
	for _, s := range g.Seats {
		if s != nil && s.Number != seat && s.inHand() {
			best = max(best, s.BetInRound)
		}
	}
	return best
}

// nextActor finds who acts after `actor`. While the closer has not acted,
// every seat between the actor and the closer still gets a turn; after that
// only seats that owe chips do.
func nextActor(g *GameState, actor int) int {
	n := len(g.Seats)
	lone := g.CanActCount() == 1

	if g.ClosingSeat != NoSeat && !g.CloserHasActed {
		for i := 1; i <= n; i++ {
			idx := wrap(actor+i, n)
			if g.Seats[idx].canAct() && (!lone || g.owes(idx)) {
				return idx
			}
			if idx == g.ClosingSeat {
				break
			}
		}
	}

	for i := 1; i <= n; i++ {
		idx := wrap(actor+i, n)
		if g.owes(idx) {
			return idx
		}
	}
	return NoSeat
}

// passCloser moves the closer role forward after the closer folded or went
// all-in without raising. The new closer counts as having acted.
func passCloser(g *GameState, from int) {
	next := GetNextSeat(g.Seats, from)
	if next == from {
		next = NoSeat
	}
	g.ClosingSeat = next
	g.CloserHasActed = true
}
