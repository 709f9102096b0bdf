package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/aaronzipp/thavalon/internal/models"
)

func started(players ...string) models.GameSession {
	s, err := Begin(nil)(models.GameSession{ID: "g1", Host: players[0], Players: players})
	if err != nil {
		panic(err)
	}
	return s
}

func voting(players ...string) models.GameSession {
	s, err := StartVote()(started(players...))
	if err != nil {
		panic(err)
	}
	return s
}

func mustApply(t *testing.T, s models.GameSession, ts ...Transition) models.GameSession {
	t.Helper()
	out, err := Compose(ts...)(s)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	return out
}

func castAll(s models.GameSession, votes map[string]bool) []Transition {
	ts := make([]Transition, 0, len(votes))
	for _, p := range s.Players {
		if v, ok := votes[p]; ok {
			ts = append(ts, CastVote(s.MissionIndex, s.ProposalIndex, p, v))
		}
	}
	return ts
}

func TestAddPlayerIsIdempotent(t *testing.T) {
	s := models.GameSession{ID: "g1", Host: "host", Players: []string{"host"}}

	once := mustApply(t, s, AddPlayer("alice"))
	twice := mustApply(t, once, AddPlayer("alice"))

	if !models.Equal(once, twice) {
		t.Fatalf("expected second join to be a no-op, got %v then %v", once.Players, twice.Players)
	}
	if len(twice.Players) != 2 || twice.Players[1] != "alice" {
		t.Fatalf("expected [host alice], got %v", twice.Players)
	}
	if len(s.Players) != 1 {
		t.Fatalf("expected input snapshot untouched, got %v", s.Players)
	}
}

func TestAddPlayerRejectedAfterStart(t *testing.T) {
	s := started("host", "alice")
	out, err := AddPlayer("late")(s)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if out.HasPlayer("late") {
		t.Fatal("late joiner must not be added")
	}

	if _, err := AddPlayer("alice")(s); err != nil {
		t.Fatalf("expected re-join of an existing member to be a no-op, got %v", err)
	}
	if _, err := AddPlayer("")(models.GameSession{}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected empty name to be rejected, got %v", err)
	}
}

func TestBegin(t *testing.T) {
	lobby := models.GameSession{ID: "g1", Host: "host", Players: []string{"host", "alice"}}

	s := mustApply(t, lobby, Begin([]string{"alice", "bob", "host"}))
	if s.Phase != models.PhaseProposing {
		t.Fatalf("expected PROPOSING, got %q", s.Phase)
	}
	if s.Current() != (models.ProposalKey{Mission: 1, Proposal: 1}) {
		t.Fatalf("expected 1/1, got %+v", s.Current())
	}
	want := []string{"host", "alice", "bob"}
	if len(s.Players) != len(want) {
		t.Fatalf("expected players %v, got %v", want, s.Players)
	}
	for i := range want {
		if s.Players[i] != want[i] {
			t.Fatalf("expected players %v, got %v", want, s.Players)
		}
	}
	if s.VotesFor(s.Current()) == nil {
		t.Fatal("expected an empty vote map for the first proposal")
	}

	again := mustApply(t, s, Begin([]string{"carol"}))
	if !models.Equal(s, again) {
		t.Fatal("expected begin on a started session to be a no-op")
	}

	_, err := Begin(nil)(models.GameSession{ID: "g2", Host: "host", Players: []string{"alice"}})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected begin without host to be rejected, got %v", err)
	}
}

func TestBeginTrimsPlayerNames(t *testing.T) {
	lobby := models.GameSession{ID: "g1", Host: "A", Players: []string{"A", "alice"}}

	s := mustApply(t, lobby, Begin([]string{"A", "alice ", "  ", " bob"}))
	want := []string{"A", "alice", "bob"}
	if len(s.Players) != len(want) {
		t.Fatalf("expected players %v, got %v", want, s.Players)
	}
	for i := range want {
		if s.Players[i] != want[i] {
			t.Fatalf("expected players %v, got %v", want, s.Players)
		}
	}

	// Every trimmed member can vote, so the proposal resolves.
	s = mustApply(t, s, StartVote())
	s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "alice": true, "bob": false})...)
	s = mustApply(t, s, CheckAndResolve())
	if s.Phase != models.PhaseProposing || s.MissionIndex != 2 {
		t.Fatalf("expected PROPOSING 2/1, got %s %d/%d", s.Phase, s.MissionIndex, s.ProposalIndex)
	}
}

func TestAddPlayerTrimsName(t *testing.T) {
	s := mustApply(t, models.GameSession{ID: "g1", Host: "A", Players: []string{"A"}}, AddPlayer(" alice "))
	if len(s.Players) != 2 || s.Players[1] != "alice" {
		t.Fatalf("expected trimmed alice, got %v", s.Players)
	}
	if _, err := AddPlayer("   ")(s); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected blank name to be rejected, got %v", err)
	}
}

func TestStartVote(t *testing.T) {
	s := started("a", "b", "c")

	v := mustApply(t, s, StartVote())
	if v.Phase != models.PhaseVoting {
		t.Fatalf("expected VOTING, got %q", v.Phase)
	}
	if !models.Equal(v, mustApply(t, v, StartVote())) {
		t.Fatal("expected StartVote to be idempotent")
	}

	if _, err := StartVote()(models.GameSession{ID: "lobby"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected start vote before begin to be rejected, got %v", err)
	}
}

func TestCastVoteIntegrity(t *testing.T) {
	s := voting("a", "b", "c")
	s = mustApply(t, s, CastVote(1, 1, "a", true), CastVote(1, 1, "b", false))

	out := mustApply(t, s, CastVote(1, 1, "c", true))
	votes := out.VotesFor(models.ProposalKey{Mission: 1, Proposal: 1})
	if v, ok := votes["c"]; !ok || !v {
		t.Fatalf("expected c=true, got %v", votes)
	}
	if !votes["a"] || votes["b"] {
		t.Fatalf("expected other votes unchanged, got %v", votes)
	}

	overwritten := mustApply(t, out, CastVote(1, 1, "c", false))
	votes = overwritten.VotesFor(out.Current())
	if votes["c"] || len(votes) != 3 {
		t.Fatalf("expected c overwritten to false with no duplicates, got %v", votes)
	}
}

func TestCastVoteAllowedWhileProposing(t *testing.T) {
	s := started("a", "b")
	out := mustApply(t, s, CastVote(1, 1, "a", true))
	if out.Phase != models.PhaseProposing {
		t.Fatalf("casting a vote must not change phase, got %q", out.Phase)
	}
	if !out.VotesFor(out.Current())["a"] {
		t.Fatal("expected vote to be recorded")
	}
}

func TestCastVoteRejections(t *testing.T) {
	s := voting("a", "b")
	s = mustApply(t, s, CastVote(1, 1, "a", true), CastVote(1, 1, "b", false), CheckAndResolve())
	if s.Current() != (models.ProposalKey{Mission: 1, Proposal: 2}) {
		t.Fatalf("expected 1/2 after failed proposal, got %+v", s.Current())
	}

	cases := []struct {
		name string
		t    Transition
	}{
		{"resolved proposal", CastVote(1, 1, "a", false)},
		{"future proposal", CastVote(2, 1, "a", true)},
		{"non-member", CastVote(1, 2, "mallory", true)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.t(s)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected invalid transition, got %v", err)
			}
			if !models.Equal(out, s) {
				t.Fatal("rejected vote changed the session")
			}
		})
	}
}

func TestMajorityPasses(t *testing.T) {
	s := voting("A", "B", "C", "D", "E")
	s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "B": true, "C": true, "D": false, "E": false})...)

	out := mustApply(t, s, CheckAndResolve())
	if out.MissionIndex != 2 || out.ProposalIndex != 1 {
		t.Fatalf("expected mission to pass to 2/1, got %d/%d", out.MissionIndex, out.ProposalIndex)
	}
	if out.Phase != models.PhaseProposing {
		t.Fatalf("expected PROPOSING after resolution, got %q", out.Phase)
	}
}

func TestTieAtEvenCountFails(t *testing.T) {
	s := voting("A", "B", "C", "D")
	s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "B": true, "C": false, "D": false})...)

	out := mustApply(t, s, CheckAndResolve())
	if out.MissionIndex != 1 || out.ProposalIndex != 2 {
		t.Fatalf("expected proposal to fail to 1/2, got %d/%d", out.MissionIndex, out.ProposalIndex)
	}
}

func TestThreeOfFourPasses(t *testing.T) {
	s := voting("A", "B", "C", "D")
	s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "B": true, "C": true, "D": false})...)

	out := mustApply(t, s, CheckAndResolve())
	if out.MissionIndex != 2 {
		t.Fatalf("expected 3 of 4 to pass, got mission %d", out.MissionIndex)
	}
}

func TestResolutionRequiresFullTurnout(t *testing.T) {
	for _, votes := range []map[string]bool{
		{"A": true, "B": true, "C": true},
		{"A": false, "B": false, "C": false},
	} {
		s := voting("A", "B", "C", "D")
		s = mustApply(t, s, castAll(s, votes)...)
		out := mustApply(t, s, CheckAndResolve())
		if !models.Equal(s, out) {
			t.Fatalf("expected no-op with 3 of 4 votes %v", votes)
		}
	}

	empty := voting("A", "B")
	if out := mustApply(t, empty, CheckAndResolve()); !models.Equal(empty, out) {
		t.Fatal("expected no-op when nobody voted")
	}
}

func TestCheckAndResolveIgnoresProposing(t *testing.T) {
	s := started("A", "B")
	s = mustApply(t, s, CastVote(1, 1, "A", true), CastVote(1, 1, "B", true))
	if out := mustApply(t, s, CheckAndResolve()); !models.Equal(s, out) {
		t.Fatal("expected resolution to wait for VOTING")
	}
}

func TestCheckAndResolveIsIdempotent(t *testing.T) {
	s := voting("A", "B", "C")
	s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "B": false, "C": true})...)

	once := mustApply(t, s, CheckAndResolve())
	twice := mustApply(t, once, CheckAndResolve())
	if !models.Equal(once, twice) {
		t.Fatalf("expected idempotence, got %+v then %+v", once.Current(), twice.Current())
	}
}

func TestAdvanceAfterVote(t *testing.T) {
	s := voting("A", "B")
	s = mustApply(t, s, CastVote(1, 1, "A", true), CastVote(1, 1, "B", true))

	stale := mustApply(t, s, AdvanceAfterVote(1, 2))
	if !models.Equal(s, stale) {
		t.Fatal("expected advance for a different proposal to be a no-op")
	}

	out := mustApply(t, s, AdvanceAfterVote(1, 1))
	if out.Current() != (models.ProposalKey{Mission: 2, Proposal: 1}) {
		t.Fatalf("expected 2/1, got %+v", out.Current())
	}
	if !models.Equal(out, mustApply(t, out, AdvanceAfterVote(1, 1))) {
		t.Fatal("expected repeated advance to be a no-op")
	}
	if votes := out.VotesFor(out.Current()); votes == nil || len(votes) != 0 {
		t.Fatalf("expected an empty vote map for the new proposal, got %v", votes)
	}
}

func TestSessionStopsAfterLastMission(t *testing.T) {
	s := started("A", "B", "C")
	for mission := 1; mission <= MissionCount; mission++ {
		s = mustApply(t, s, StartVote())
		s = mustApply(t, s, castAll(s, map[string]bool{"A": true, "B": true, "C": true})...)
		s = mustApply(t, s, CheckAndResolve())
	}
	if !Terminal(s) {
		t.Fatalf("expected terminal session, got mission %d", s.MissionIndex)
	}
	if _, err := StartVote()(s); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected start vote on a finished session to be rejected, got %v", err)
	}
	if _, err := CastVote(s.MissionIndex, s.ProposalIndex, "A", true)(s); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected vote on a finished session to be rejected, got %v", err)
	}
}

// Applies random actions from random players and checks that the proposal
// key never goes backwards and that resolution stays idempotent.
func TestRandomPlayIsMonotoneAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	players := []string{"A", "B", "C", "D", "E"}

	for run := 0; run < 50; run++ {
		s := started(players...)
		for step := 0; step < 200 && !Terminal(s); step++ {
			before := s.Current()

			var tr Transition
			switch rng.Intn(4) {
			case 0:
				tr = StartVote()
			case 1, 2:
				m, p := s.MissionIndex, s.ProposalIndex
				if rng.Intn(5) == 0 {
					p-- // stale client
				}
				tr = CastVote(m, p, players[rng.Intn(len(players))], rng.Intn(2) == 0)
			default:
				tr = CheckAndResolve()
			}
			next, err := tr(s)
			if err != nil && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("unexpected error: %v", err)
			}
			if next.Current().Less(before) {
				t.Fatalf("proposal went backwards: %+v -> %+v", before, next.Current())
			}

			resolved := mustApply(t, next, CheckAndResolve())
			if !models.Equal(resolved, mustApply(t, resolved, CheckAndResolve())) {
				t.Fatal("CheckAndResolve not idempotent")
			}
			if resolved.Phase == models.PhaseVoting && CountVotes(resolved.VotesFor(resolved.Current()), resolved.Players).Complete {
				t.Fatal("VOTING with a complete vote set after resolution")
			}
			s = next
		}
	}
}

func TestComposeStopsOnRejection(t *testing.T) {
	s := started("A", "B")
	out, err := Compose(CastVote(1, 1, "A", true), CastVote(1, 1, "nobody", true))(s)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if !models.Equal(out, s) {
		t.Fatal("expected original snapshot back on rejection")
	}
}
