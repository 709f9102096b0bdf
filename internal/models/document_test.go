package models

import (
	"encoding/json"
	"strings"
	"testing"
)

const legacyDocument = `{
  "gameId": "3f1c",
  "host": "alice",
  "players": ["alice", "bob", "carol"],
  "start": "bob",
  "doNotOpen": "sealed",
  "alice": {"role": "Merlin"},
  "bob": {"role": "Mordred"},
  "missionIndex": 2,
  "proposalIndex": 1,
  "gameState": "VOTING",
  "missionToProposals": {
    "1": {"1": {"alice": true, "bob": false, "carol": true}},
    "2": {"1": {"alice": false, "carol": null}}
  }
}`

func TestDecodeLegacyDocument(t *testing.T) {
	s, err := Decode([]byte(legacyDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ID != "3f1c" || s.Host != "alice" {
		t.Fatalf("unexpected identity fields: id=%q host=%q", s.ID, s.Host)
	}
	if s.Phase != PhaseVoting {
		t.Fatalf("expected phase VOTING, got %q", s.Phase)
	}
	if s.Current() != (ProposalKey{Mission: 2, Proposal: 1}) {
		t.Fatalf("unexpected current proposal %+v", s.Current())
	}
	if got := s.VotesFor(ProposalKey{Mission: 1, Proposal: 1}); len(got) != 3 || !got["alice"] || got["bob"] {
		t.Fatalf("unexpected mission 1 votes %v", got)
	}
	current := s.VotesFor(s.Current())
	if _, ok := current["carol"]; ok {
		t.Fatal("expected null vote to be treated as not cast")
	}
	if len(s.Roles) != 2 {
		t.Fatalf("expected 2 role entries, got %d: %v", len(s.Roles), s.Roles)
	}
	if string(s.Start) != `"bob"` {
		t.Fatalf("expected start to be preserved, got %s", s.Start)
	}
}

func TestEncodeKeepsDocumentShape(t *testing.T) {
	s, err := Decode([]byte(legacyDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal encoded: %v", err)
	}
	for _, key := range []string{"gameId", "host", "players", "start", "doNotOpen", "missionIndex", "proposalIndex", "gameState", "missionToProposals", "alice", "bob"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected key %q in encoded document %s", key, data)
		}
	}
	if !strings.Contains(string(fields["alice"]), "Merlin") {
		t.Fatalf("expected role entry to round trip, got %s", fields["alice"])
	}

	again, err := Decode(data)
	if err != nil {
		t.Fatalf("decode again: %v", err)
	}
	if !Equal(s, again) {
		t.Fatal("expected re-decoded session to equal the original")
	}
}

func TestUnstartedSessionOmitsGameState(t *testing.T) {
	data, err := Encode(GameSession{ID: "x", Host: "alice", Players: []string{"alice"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(data), "gameState") {
		t.Fatalf("expected no gameState before start, got %s", data)
	}
}

func TestRoleKeyCollisionIsRejected(t *testing.T) {
	s := GameSession{ID: "x", Roles: map[string]json.RawMessage{"players": json.RawMessage(`1`)}}
	if _, err := Encode(s); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestDecodeRejectsUnknownState(t *testing.T) {
	if _, err := Decode([]byte(`{"gameId":"x","players":[],"gameState":"DONE"}`)); err == nil {
		t.Fatal("expected unknown game state to fail decoding")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := GameSession{
		ID:      "x",
		Players: []string{"alice"},
		Votes:   Votes{1: {1: VoteMap{"alice": true}}},
	}
	c := s.Clone()
	c.Players[0] = "mallory"
	c.Votes[1][1]["alice"] = false

	if s.Players[0] != "alice" {
		t.Fatal("clone shares players slice")
	}
	if !s.Votes[1][1]["alice"] {
		t.Fatal("clone shares vote maps")
	}
}

func TestProposalKeyLess(t *testing.T) {
	if !(ProposalKey{1, 3}).Less(ProposalKey{2, 1}) {
		t.Fatal("expected mission to dominate ordering")
	}
	if !(ProposalKey{2, 1}).Less(ProposalKey{2, 2}) {
		t.Fatal("expected proposal to order within a mission")
	}
	if (ProposalKey{2, 2}).Less(ProposalKey{2, 2}) {
		t.Fatal("expected equal keys to be unordered")
	}
}
