package models

// Phase represents where the current proposal is in its cycle.
type Phase string

const (
	// PhaseUnset means the host has not started the session yet.
	PhaseUnset Phase = ""
	// PhaseProposing waits for someone to open a vote on a new proposal.
	PhaseProposing Phase = "PROPOSING"
	// PhaseVoting collects votes for the current proposal.
	PhaseVoting Phase = "VOTING"
)

// Valid reports whether p is a phase this package knows about.
func (p Phase) Valid() bool {
	switch p {
	case PhaseUnset, PhaseProposing, PhaseVoting:
		return true
	default:
		return false
	}
}
