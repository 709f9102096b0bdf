package game

import (
	"github.com/aaronzipp/thavalon/internal/models"
)

// Outcome is the result of resolving one proposal.
type Outcome int

const (
	// OutcomePending means not every current player has voted.
	OutcomePending Outcome = iota
	// OutcomePassed means a strict majority voted yes; the mission advances.
	OutcomePassed
	// OutcomeFailed means the proposal did not reach a majority.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Tally summarizes the votes of the current players on one proposal.
type Tally struct {
	Yes      int
	No       int
	Missing  []string // players without a recorded vote, in seat order
	Players  int
	Complete bool
}

// CountVotes tallies votes against the given player list. Votes from
// non-members are ignored; turnout is measured against players as passed,
// so callers must pass the membership of the snapshot being resolved.
func CountVotes(votes models.VoteMap, players []string) Tally {
	t := Tally{Players: len(players)}
	for _, p := range players {
		vote, ok := votes[p]
		switch {
		case !ok:
			t.Missing = append(t.Missing, p)
		case vote:
			t.Yes++
		default:
			t.No++
		}
	}
	t.Complete = len(players) > 0 && len(t.Missing) == 0
	return t
}

// Outcome decides a tally. A proposal passes on a strict majority of yes
// votes: 3 of 5 and 3 of 4 pass, 2 of 4 does not.
func (t Tally) Outcome() Outcome {
	if !t.Complete {
		return OutcomePending
	}
	if t.Yes*2 > t.Players {
		return OutcomePassed
	}
	return OutcomeFailed
}

// NextProposal returns the proposal that follows current under outcome.
func NextProposal(current models.ProposalKey, outcome Outcome) models.ProposalKey {
	switch outcome {
	case OutcomePassed:
		return models.ProposalKey{Mission: current.Mission + 1, Proposal: FirstIndex}
	case OutcomeFailed:
		return models.ProposalKey{Mission: current.Mission, Proposal: current.Proposal + 1}
	default:
		return current
	}
}

// PreviousProposal returns the most recently resolved proposal before the
// current one, or false at the very first proposal.
func PreviousProposal(s models.GameSession) (models.ProposalKey, bool) {
	cur := s.Current()
	if cur.Mission <= FirstIndex && cur.Proposal <= FirstIndex {
		return models.ProposalKey{}, false
	}
	if cur.Proposal > FirstIndex {
		return models.ProposalKey{Mission: cur.Mission, Proposal: cur.Proposal - 1}, true
	}
	prev := models.ProposalKey{Mission: cur.Mission - 1}
	for p := range s.Votes[prev.Mission] {
		if p > prev.Proposal {
			prev.Proposal = p
		}
	}
	if prev.Proposal == 0 {
		return models.ProposalKey{}, false
	}
	return prev, true
}
