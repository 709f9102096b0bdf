package handlers

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
)

type submitVoteRequest struct {
	MissionIndex  int    `json:"missionIndex"`
	ProposalIndex int    `json:"proposalIndex"`
	Player        string `json:"player"`
	Vote          *bool  `json:"vote"`
}

type advanceRequest struct {
	MissionIndex  int `json:"missionIndex"`
	ProposalIndex int `json:"proposalIndex"`
}

// HandleSubmitVote records a player's vote on a proposal
func (ctx *Context) HandleSubmitVote(w http.ResponseWriter, r *http.Request) {
	var req submitVoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Player = strings.TrimSpace(req.Player)
	if req.Player == "" || req.Vote == nil {
		writeError(w, r, apperrors.New(apperrors.CodeInvalidArgument, "player and vote are required"))
		return
	}

	id := r.PathValue("id")
	if debug {
		log.Printf("HandleSubmitVote: id=%s proposal=%d/%d player=%s", id, req.MissionIndex, req.ProposalIndex, req.Player)
	}

	s, err := ctx.Repo.SubmitVote(r.Context(), id, req.MissionIndex, req.ProposalIndex, req.Player, *req.Vote)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx.publish(s)
	writeJSON(w, http.StatusOK, s)
}

// HandleAdvance resolves a proposal whose votes are all in
func (ctx *Context) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := ctx.Repo.AdvanceAfterVote(r.Context(), r.PathValue("id"), req.MissionIndex, req.ProposalIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx.publish(s)
	writeJSON(w, http.StatusOK, s)
}
