package handlers

import (
	"net/http"
	"sort"

	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/models"
)

type proposalResult struct {
	MissionIndex  int             `json:"missionIndex"`
	ProposalIndex int             `json:"proposalIndex"`
	Yes           int             `json:"yes"`
	No            int             `json:"no"`
	Outcome       string          `json:"outcome"`
	Votes         map[string]bool `json:"votes"`
}

// HandleResults lists every resolved proposal with its tally
func (ctx *Context) HandleResults(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.Repo.FetchSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolvedProposals(s))
}

// resolvedProposals returns the proposals before the current one, oldest
// first.
func resolvedProposals(s models.GameSession) []proposalResult {
	results := []proposalResult{}
	if !s.Started() {
		return results
	}

	cur := s.Current()
	var keys []models.ProposalKey
	for m, proposals := range s.Votes {
		for p := range proposals {
			key := models.ProposalKey{Mission: m, Proposal: p}
			if key.Less(cur) {
				keys = append(keys, key)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for _, key := range keys {
		votes := s.VotesFor(key)
		tally := game.CountVotes(votes, s.Players)
		results = append(results, proposalResult{
			MissionIndex:  key.Mission,
			ProposalIndex: key.Proposal,
			Yes:           tally.Yes,
			No:            tally.No,
			Outcome:       tally.Outcome().String(),
			Votes:         votes,
		})
	}
	return results
}
