package render

import (
	htmlpkg "html"
	"sort"
	"strconv"
	"strings"

	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/models"
)

// PlayerList generates HTML for the player list, in seat order
func PlayerList(players []string) string {
	var b strings.Builder
	b.WriteString(`<h2>Players (`)
	b.WriteString(strconv.Itoa(len(players)))
	b.WriteString(`)</h2><ol class="player-list">`)
	for _, p := range players {
		b.WriteString(`<li class="player-item"><span class="player-name">`)
		b.WriteString(htmlpkg.EscapeString(p))
		b.WriteString(`</span></li>`)
	}
	b.WriteString(`</ol>`)
	return b.String()
}

// VoteCount generates HTML for vote count display
func VoteCount(count, total int) string {
	var b strings.Builder
	b.WriteString(`<p class="vote-count">Waiting for other players to vote (`)
	b.WriteString(strconv.Itoa(count))
	b.WriteString(`/`)
	b.WriteString(strconv.Itoa(total))
	b.WriteString(`)</p>`)
	return b.String()
}

// ProposalVotes generates HTML listing each player's vote on one proposal
func ProposalVotes(votes models.VoteMap) string {
	names := make([]string, 0, len(votes))
	for name := range votes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })

	var b strings.Builder
	b.WriteString(`<ul class="vote-list">`)
	for _, name := range names {
		b.WriteString(`<li>`)
		b.WriteString(htmlpkg.EscapeString(name))
		b.WriteString(`: `)
		b.WriteString(yesNo(votes[name]))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

// Status generates the HTML status panel for player's view of a session
func Status(s models.GameSession, player string) string {
	var b strings.Builder
	if !s.Started() {
		b.WriteString(`<p>Waiting for host to start the game...</p>`)
		b.WriteString(PlayerList(s.Players))
		return b.String()
	}
	if game.Terminal(s) {
		b.WriteString(`<p class="phase">All missions resolved</p>`)
		return b.String()
	}

	b.WriteString(`<p class="mission">Mission: `)
	b.WriteString(strconv.Itoa(s.MissionIndex))
	b.WriteString(` Proposal: `)
	b.WriteString(strconv.Itoa(s.ProposalIndex))
	b.WriteString(`</p><p class="phase">`)
	b.WriteString(string(s.Phase))
	b.WriteString(`</p>`)

	switch s.Phase {
	case models.PhaseProposing:
		if prev, ok := game.PreviousProposal(s); ok {
			b.WriteString(`<div class="previous-votes">Previous Votes: `)
			b.WriteString(ProposalVotes(s.VotesFor(prev)))
			b.WriteString(`</div>`)
		}
	case models.PhaseVoting:
		votes := s.VotesFor(s.Current())
		if v, ok := votes[player]; ok {
			b.WriteString(`<p class="vote-status">Vote Recorded: `)
			b.WriteString(yesNo(v))
			b.WriteString(`</p>`)
		}
		tally := game.CountVotes(votes, s.Players)
		b.WriteString(VoteCount(tally.Players-len(tally.Missing), tally.Players))
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
