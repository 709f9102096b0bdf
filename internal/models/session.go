package models

import (
	"encoding/json"
	"maps"
	"slices"
)

// VoteMap maps a player to their yes/no vote on one proposal.
type VoteMap map[string]bool

// Votes maps mission index -> proposal index -> votes.
type Votes map[int]map[int]VoteMap

// ProposalKey identifies one proposal attempt.
type ProposalKey struct {
	Mission  int
	Proposal int
}

// Less orders keys by mission, then proposal.
func (k ProposalKey) Less(other ProposalKey) bool {
	if k.Mission != other.Mission {
		return k.Mission < other.Mission
	}
	return k.Proposal < other.Proposal
}

// GameSession is the single shared document for one game
type GameSession struct {
	ID            string
	Host          string
	Players       []string
	Phase         Phase
	MissionIndex  int
	ProposalIndex int
	Votes         Votes

	// Written by the role-assignment collaborator and carried through untouched.
	Start     json.RawMessage
	DoNotOpen json.RawMessage
	Roles     map[string]json.RawMessage
}

// Started reports whether the host has begun the session.
func (s *GameSession) Started() bool {
	return s.Phase != PhaseUnset
}

// Current returns the active proposal key.
func (s *GameSession) Current() ProposalKey {
	return ProposalKey{Mission: s.MissionIndex, Proposal: s.ProposalIndex}
}

// HasPlayer reports whether player is a member of the session.
func (s *GameSession) HasPlayer(player string) bool {
	return slices.Contains(s.Players, player)
}

// VotesFor returns the recorded votes for a proposal. The result may be nil
// and must not be mutated.
func (s *GameSession) VotesFor(key ProposalKey) VoteMap {
	proposals, ok := s.Votes[key.Mission]
	if !ok {
		return nil
	}
	return proposals[key.Proposal]
}

// Clone returns a deep copy of the session.
func (s GameSession) Clone() GameSession {
	out := s
	out.Players = slices.Clone(s.Players)
	out.Start = slices.Clone(s.Start)
	out.DoNotOpen = slices.Clone(s.DoNotOpen)
	if s.Roles != nil {
		out.Roles = make(map[string]json.RawMessage, len(s.Roles))
		for k, v := range s.Roles {
			out.Roles[k] = slices.Clone(v)
		}
	}
	if s.Votes != nil {
		out.Votes = make(Votes, len(s.Votes))
		for m, proposals := range s.Votes {
			cp := make(map[int]VoteMap, len(proposals))
			for p, votes := range proposals {
				cp[p] = maps.Clone(votes)
			}
			out.Votes[m] = cp
		}
	}
	return out
}
