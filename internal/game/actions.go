package game

// ActionResult is the outcome of ApplyAction. When the action folded the
// hand down to a single player, HandComplete is set and Awards/Results carry
// the settlement.
type ActionResult struct {
	State        *GameState
	Events       []Event
	HandComplete bool
	Awards       []Award
	Results      []SeatResult
}

// ApplyAction validates and applies a single action, returning a new state.
// The input state is never modified; a rejected action returns a
// *RejectionError.
func ApplyAction(state *GameState, seat int, req ActionRequest) (*ActionResult, error) {
	if err := ValidateAction(state, seat, req).Err(); err != nil {
		return nil, err
	}

	g := state.Clone()
	p := g.Seats[seat]
	added := 0
	raised := false

	switch req.Kind {
	case Fold:
		p.Folded = true

	case Check:

	case Call:
		added = min(g.CurrentBet-p.BetInRound, p.Stack)
		p.commit(added, g)

	case Bet, Raise:
		added = req.Amount - p.BetInRound
		raiseSize := req.Amount - g.CurrentBet
		p.commit(added, g)
		if raiseSize >= g.MinRaise {
			g.MinRaise = raiseSize
		}
		g.CurrentBet = req.Amount
		raised = true

	case AllIn:
		prevBet := g.CurrentBet
		added = p.Stack
		p.commit(added, g)
		increase := p.BetInRound - prevBet
		switch {
		case increase >= g.MinRaise:
			g.MinRaise = increase
			g.CurrentBet = p.BetInRound
			raised = true
		case increase > 0:
			// Short all-in: the bet to call rises but action is not reopened
			// for seats that had already matched the previous bet.
			g.CurrentBet = p.BetInRound
			if prevBet > 0 {
				markCallOnly(g, seat, prevBet)
			}
		}
	}

	if raised {
		g.ClosingSeat = seat
		g.CloserHasActed = true
		g.CallOnlySeats = nil
	} else if seat == g.ClosingSeat {
		if p.Folded || p.AllIn {
			passCloser(g, seat)
		} else {
			g.CloserHasActed = true
		}
	}

	g.LastAction = &LastAction{Seat: seat, Kind: req.Kind, Amount: added, Total: p.BetInRound}
	events := []Event{actionEvent(g, seat, req.Kind, added, p.BetInRound, p.AllIn)}

	if g.InHandCount() == 1 {
		res := foldOut(g)
		res.Events = append(events, res.Events...)
		return res, nil
	}

	g.CurrentSeat = nextActor(g, seat)
	return &ActionResult{State: g, Events: events}, nil
}

func markCallOnly(g *GameState, actor, prevBet int) {
	for _, s := range g.Seats {
		if s == nil || s.Number == actor || !s.canAct() || s.BetInRound != prevBet {
			continue
		}
		if g.CallOnlySeats == nil {
			g.CallOnlySeats = make(map[int]bool)
		}
		g.CallOnlySeats[s.Number] = true
	}
}

// foldOut awards the whole pot to the last seat standing and ends the hand.
func foldOut(g *GameState) *ActionResult {
	winner := NoSeat
	for _, s := range g.Seats {
		if s.inHand() {
			winner = s.Number
			break
		}
	}

	award := Award{Seat: winner, Amount: g.Pot}
	g.Seats[winner].Stack += g.Pot

	e := newEvent(EventPotAwarded, g, winner)
	e.Amount = award.Amount
	events := []Event{e}

	g.Pot = 0
	finish(g)
	events = append(events, newEvent(EventHandComplete, g, winner))

	awards := []Award{award}
	return &ActionResult{
		State:        g,
		Events:       events,
		HandComplete: true,
		Awards:       awards,
		Results:      seatResults(g, awards, nil),
	}
}

// finish moves the state to its terminal marker
func finish(g *GameState) {
	g.Complete = true
	g.Street = Showdown
	g.CurrentSeat = NoSeat
	g.ClosingSeat = NoSeat
	g.CallOnlySeats = nil
}
