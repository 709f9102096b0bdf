package handlers

import (
	"net/http"

	"github.com/aaronzipp/thavalon/internal/render"
)

type createSessionRequest struct {
	Host string `json:"host"`
}

type createSessionResponse struct {
	GameID  string `json:"gameId"`
	Code    string `json:"code"`
	JoinURL string `json:"joinUrl"`
}

type joinSessionRequest struct {
	Player string `json:"player"`
}

// HandleCreateSession creates a new session and a join code for it
func (ctx *Context) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := ctx.Repo.CreateSession(r.Context(), req.Host)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code, err := ctx.Repo.CreateJoinCode(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		GameID:  id,
		Code:    code,
		JoinURL: render.JoinURL(ctx.PublicURL, id, code),
	})
}

// HandleFetchSession returns the session document
func (ctx *Context) HandleFetchSession(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.Repo.FetchSession(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// HandleJoinSession adds a player to the session lobby
func (ctx *Context) HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	var req joinSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := ctx.Repo.JoinSession(r.Context(), r.PathValue("id"), req.Player)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx.publish(s)
	writeJSON(w, http.StatusOK, s)
}

// HandleResolveCode looks up the session a join code points to
func (ctx *Context) HandleResolveCode(w http.ResponseWriter, r *http.Request) {
	id, err := ctx.Repo.ResolveJoinCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"gameId": id})
}

// HandleJoinQR serves a PNG QR code of the session's join link
func (ctx *Context) HandleJoinQR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := ctx.Repo.FetchSession(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	png, err := render.JoinQR(render.JoinURL(ctx.PublicURL, id, r.URL.Query().Get("code")), render.DefaultQRSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
