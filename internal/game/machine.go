package game

import (
	"fmt"
	"strings"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/models"
)

// ErrInvalidTransition is matched (via errors.Is) by every rejection a
// transition returns.
var ErrInvalidTransition = apperrors.New(apperrors.CodeInvalidTransition, "invalid transition")

// Transition computes the next session from a snapshot. Transitions are
// pure: they never mutate their input and return it unchanged when there is
// nothing to do, so applying one twice gives the same result as applying it
// once. A rejected action returns the input together with an error matching
// ErrInvalidTransition.
type Transition func(models.GameSession) (models.GameSession, error)

func reject(format string, args ...any) error {
	return apperrors.New(apperrors.CodeInvalidTransition, fmt.Sprintf(format, args...))
}

// Terminal reports whether every mission has been resolved.
func Terminal(s models.GameSession) bool {
	return s.Started() && s.MissionIndex > MissionCount
}

// Changed reports whether a transition produced a different document.
func Changed(before, after models.GameSession) bool {
	return !models.Equal(before, after)
}

// Compose chains transitions left to right. The first rejection aborts the
// chain and the original snapshot is returned with it.
func Compose(ts ...Transition) Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		cur := s
		for _, t := range ts {
			next, err := t(cur)
			if err != nil {
				return s, err
			}
			cur = next
		}
		return cur, nil
	}
}

// AddPlayer appends player to the lobby. Joining twice is a no-op, and
// joins are closed once the session has started.
func AddPlayer(player string) Transition {
	player = strings.TrimSpace(player)
	return func(s models.GameSession) (models.GameSession, error) {
		if player == "" {
			return s, reject("add player: empty player name")
		}
		if s.HasPlayer(player) {
			return s, nil
		}
		if s.Started() {
			return s, reject("add player %s: session %s already started", player, s.ID)
		}
		out := s.Clone()
		out.Players = append(out.Players, player)
		return out, nil
	}
}

// Begin starts the session: players listed by the host that are not yet
// members are appended after the stored ones, and the first proposal of the
// first mission opens in PROPOSING. Names are trimmed the same way joins
// trim them; blank names are skipped.
func Begin(players []string) Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		if s.Started() {
			return s, nil
		}
		out := s.Clone()
		for _, p := range players {
			p = strings.TrimSpace(p)
			if p != "" && !out.HasPlayer(p) {
				out.Players = append(out.Players, p)
			}
		}
		if len(out.Players) == 0 {
			return s, reject("begin session %s: no players", s.ID)
		}
		if out.Host != "" && !out.HasPlayer(out.Host) {
			return s, reject("begin session %s: host %s is not a player", s.ID, out.Host)
		}
		out.Phase = models.PhaseProposing
		out.MissionIndex = FirstIndex
		out.ProposalIndex = FirstIndex
		seedVotes(&out, out.Current())
		return out, nil
	}
}

// StartVote opens voting on the current proposal.
func StartVote() Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		if !s.Started() {
			return s, reject("start vote: session %s not started", s.ID)
		}
		if Terminal(s) {
			return s, reject("start vote: session %s is over", s.ID)
		}
		if s.Phase == models.PhaseVoting {
			return s, nil
		}
		out := s.Clone()
		out.Phase = models.PhaseVoting
		seedVotes(&out, out.Current())
		return out, nil
	}
}

// CastVote records player's vote on proposal (mission, proposal). A repeat
// vote overwrites the earlier one. Votes on resolved or not yet opened
// proposals are rejected, as are votes from non-members.
func CastVote(mission, proposal int, player string, vote bool) Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		if !s.Started() {
			return s, reject("cast vote: session %s not started", s.ID)
		}
		if Terminal(s) {
			return s, reject("cast vote: session %s is over", s.ID)
		}
		if !s.HasPlayer(player) {
			return s, reject("cast vote: %q is not a player in session %s", player, s.ID)
		}
		key := models.ProposalKey{Mission: mission, Proposal: proposal}
		cur := s.Current()
		if key.Less(cur) {
			return s, reject("cast vote: proposal %d/%d already resolved", mission, proposal)
		}
		if cur.Less(key) {
			return s, reject("cast vote: proposal %d/%d not open", mission, proposal)
		}
		if prev, ok := s.VotesFor(key)[player]; ok && prev == vote {
			return s, nil
		}
		out := s.Clone()
		seedVotes(&out, key)
		out.Votes[mission][proposal][player] = vote
		return out, nil
	}
}

// CheckAndResolve resolves the current proposal once every current player
// has voted on it. Membership is read from the snapshot being resolved.
// Outside VOTING, or with votes still missing, it is a no-op.
func CheckAndResolve() Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		if s.Phase != models.PhaseVoting {
			return s, nil
		}
		cur := s.Current()
		outcome := CountVotes(s.VotesFor(cur), s.Players).Outcome()
		if outcome == OutcomePending {
			return s, nil
		}
		next := NextProposal(cur, outcome)
		out := s.Clone()
		out.Phase = models.PhaseProposing
		out.MissionIndex = next.Mission
		out.ProposalIndex = next.Proposal
		seedVotes(&out, next)
		return out, nil
	}
}

// AdvanceAfterVote resolves proposal (mission, proposal) if it is still the
// current one. Clients that saw a complete vote set call it redundantly; all
// but the first find the session already moved on and do nothing.
func AdvanceAfterVote(mission, proposal int) Transition {
	return func(s models.GameSession) (models.GameSession, error) {
		if s.Current() != (models.ProposalKey{Mission: mission, Proposal: proposal}) {
			return s, nil
		}
		return CheckAndResolve()(s)
	}
}

// seedVotes makes sure an (empty) vote map exists for key. Older clients
// index straight into it.
func seedVotes(s *models.GameSession, key models.ProposalKey) {
	if s.Votes == nil {
		s.Votes = make(models.Votes)
	}
	if s.Votes[key.Mission] == nil {
		s.Votes[key.Mission] = make(map[int]models.VoteMap)
	}
	if s.Votes[key.Mission][key.Proposal] == nil {
		s.Votes[key.Mission][key.Proposal] = make(models.VoteMap)
	}
}
