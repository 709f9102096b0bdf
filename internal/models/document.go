package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// document is the stored JSON shape. Field names match the documents older
// clients read and write, so they must not change.
type document struct {
	GameID             string                            `json:"gameId"`
	Host               string                            `json:"host,omitempty"`
	Players            []string                          `json:"players"`
	Start              json.RawMessage                   `json:"start,omitempty"`
	DoNotOpen          json.RawMessage                   `json:"doNotOpen,omitempty"`
	MissionIndex       int                               `json:"missionIndex,omitempty"`
	ProposalIndex      int                               `json:"proposalIndex,omitempty"`
	MissionToProposals map[int]map[int]map[string]*bool `json:"missionToProposals,omitempty"`
	GameState          Phase                             `json:"gameState,omitempty"`
}

var reservedKeys = map[string]struct{}{
	"gameId":             {},
	"host":               {},
	"players":            {},
	"start":              {},
	"doNotOpen":          {},
	"missionIndex":       {},
	"proposalIndex":      {},
	"missionToProposals": {},
	"gameState":          {},
}

// IsReservedKey reports whether key is one of the document's own fields and
// therefore cannot hold a per-player role entry.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// MarshalJSON encodes the session in its document shape, with role entries
// inlined as top-level keys.
func (s GameSession) MarshalJSON() ([]byte, error) {
	doc := document{
		GameID:        s.ID,
		Host:          s.Host,
		Players:       s.Players,
		Start:         s.Start,
		DoNotOpen:     s.DoNotOpen,
		MissionIndex:  s.MissionIndex,
		ProposalIndex: s.ProposalIndex,
		GameState:     s.Phase,
	}
	if doc.Players == nil {
		doc.Players = []string{}
	}
	if s.Votes != nil {
		doc.MissionToProposals = make(map[int]map[int]map[string]*bool, len(s.Votes))
		for m, proposals := range s.Votes {
			out := make(map[int]map[string]*bool, len(proposals))
			for p, votes := range proposals {
				vm := make(map[string]*bool, len(votes))
				for player, vote := range votes {
					v := vote
					vm[player] = &v
				}
				out[p] = vm
			}
			doc.MissionToProposals[m] = out
		}
	}

	base, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if len(s.Roles) == 0 {
		return base, nil
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for key, raw := range s.Roles {
		if IsReservedKey(key) {
			return nil, fmt.Errorf("role key %q collides with a document field", key)
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a document. Unknown top-level keys become role
// entries; null votes are treated as not yet cast.
func (s *GameSession) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	out := GameSession{
		ID:            doc.GameID,
		Host:          doc.Host,
		Players:       doc.Players,
		Phase:         doc.GameState,
		MissionIndex:  doc.MissionIndex,
		ProposalIndex: doc.ProposalIndex,
		Start:         nullToEmpty(doc.Start),
		DoNotOpen:     nullToEmpty(doc.DoNotOpen),
	}
	if !out.Phase.Valid() {
		return fmt.Errorf("unknown game state %q", out.Phase)
	}
	if doc.MissionToProposals != nil {
		out.Votes = make(Votes, len(doc.MissionToProposals))
		for m, proposals := range doc.MissionToProposals {
			cp := make(map[int]VoteMap, len(proposals))
			for p, votes := range proposals {
				vm := make(VoteMap, len(votes))
				for player, vote := range votes {
					if vote != nil {
						vm[player] = *vote
					}
				}
				cp[p] = vm
			}
			out.Votes[m] = cp
		}
	}
	for key, raw := range fields {
		if IsReservedKey(key) {
			continue
		}
		if out.Roles == nil {
			out.Roles = make(map[string]json.RawMessage)
		}
		out.Roles[key] = raw
	}

	*s = out
	return nil
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

// Encode returns the stored form of a session.
func Encode(s GameSession) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return data, nil
}

// Decode parses a stored session document.
func Decode(data []byte) (GameSession, error) {
	var s GameSession
	if err := json.Unmarshal(data, &s); err != nil {
		return GameSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// Equal reports whether two sessions encode to the same document.
func Equal(a, b GameSession) bool {
	ea, errA := json.Marshal(a)
	eb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
