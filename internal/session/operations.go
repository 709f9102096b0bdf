package session

import (
	"context"
	"log"
	"strings"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/models"
)

// CreateSession writes a new session hosted by host and returns its id.
func (r *Repository) CreateSession(ctx context.Context, host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "host name is required")
	}

	s := models.GameSession{
		ID:      r.newID(),
		Host:    host,
		Players: []string{host},
	}
	if err := r.Save(ctx, s); err != nil {
		return "", err
	}

	log.Printf("Created session: id=%s host=%s", s.ID, host)
	return s.ID, nil
}

// JoinSession adds player to the session lobby.
func (r *Repository) JoinSession(ctx context.Context, id, player string) (models.GameSession, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return models.GameSession{}, apperrors.New(apperrors.CodeInvalidArgument, "player name is required")
	}
	s, changed, err := r.Apply(ctx, id, game.AddPlayer(player))
	if err != nil {
		return models.GameSession{}, err
	}
	if changed {
		log.Printf("Player joined session: id=%s player=%s", id, player)
	}
	return s, nil
}

// BeginSession starts the session with the players the host sees.
func (r *Repository) BeginSession(ctx context.Context, id string, players []string) (models.GameSession, error) {
	s, changed, err := r.Apply(ctx, id, game.Begin(players))
	if err != nil {
		return models.GameSession{}, err
	}
	if changed {
		log.Printf("Began session: id=%s players=%d", id, len(s.Players))
	}
	return s, nil
}

// FetchSession returns the current session.
func (r *Repository) FetchSession(ctx context.Context, id string) (models.GameSession, error) {
	return r.Load(ctx, id)
}

// StartVote opens voting on the current proposal.
func (r *Repository) StartVote(ctx context.Context, id string) (models.GameSession, error) {
	s, _, err := r.Apply(ctx, id, game.StartVote())
	return s, err
}

// SubmitVote records a player's vote on proposal (mission, proposal).
func (r *Repository) SubmitVote(ctx context.Context, id string, mission, proposal int, player string, vote bool) (models.GameSession, error) {
	s, _, err := r.Apply(ctx, id, game.CastVote(mission, proposal, player, vote))
	return s, err
}

// AdvanceAfterVote resolves proposal (mission, proposal) if it is still
// current and complete. Any client that observes a complete vote set may
// call it; only the first call changes anything.
func (r *Repository) AdvanceAfterVote(ctx context.Context, id string, mission, proposal int) (models.GameSession, error) {
	s, changed, err := r.Apply(ctx, id, game.AdvanceAfterVote(mission, proposal))
	if err != nil {
		return models.GameSession{}, err
	}
	if changed {
		log.Printf("Resolved proposal: id=%s proposal=%d/%d next=%d/%d", id, mission, proposal, s.MissionIndex, s.ProposalIndex)
	}
	return s, nil
}
