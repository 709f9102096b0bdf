package handlers

import (
	"log"
	"net/http"
)

type beginSessionRequest struct {
	Players []string `json:"players"`
}

// HandleBeginSession starts the game with the players the host sees
func (ctx *Context) HandleBeginSession(w http.ResponseWriter, r *http.Request) {
	var req beginSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if debug {
		log.Printf("HandleBeginSession: id=%s players=%v", id, req.Players)
	}

	s, err := ctx.Repo.BeginSession(r.Context(), id, req.Players)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx.publish(s)
	writeJSON(w, http.StatusOK, s)
}

// HandleStartVote opens voting on the current proposal
func (ctx *Context) HandleStartVote(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.Repo.StartVote(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx.publish(s)
	writeJSON(w, http.StatusOK, s)
}
