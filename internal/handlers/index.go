// Package handlers exposes session operations over HTTP with JSON bodies
// and streams session updates over Server-Sent Events.
package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/aaronzipp/thavalon/internal/session"
	"github.com/aaronzipp/thavalon/internal/sse"
	"github.com/aaronzipp/thavalon/internal/store"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug turns verbose logging on or off. Call it before serving.
func SetDebug(enabled bool) {
	debug = enabled
}

// DebugEnabled reports whether verbose logging is on.
func DebugEnabled() bool {
	return debug
}

// Context holds shared application dependencies
type Context struct {
	Repo      *session.Repository
	Docs      store.DocumentStore // raw store behind /blob/
	Hub       *sse.Hub
	PublicURL string
	LobbyPoll time.Duration
	GamePoll  time.Duration
}

// Routes registers every endpoint on a new mux.
func (ctx *Context) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", ctx.HandleIndex)

	mux.HandleFunc("POST /sessions", ctx.HandleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", ctx.HandleFetchSession)
	mux.HandleFunc("POST /sessions/{id}/join", ctx.HandleJoinSession)
	mux.HandleFunc("POST /sessions/{id}/begin", ctx.HandleBeginSession)
	mux.HandleFunc("POST /sessions/{id}/start-vote", ctx.HandleStartVote)
	mux.HandleFunc("POST /sessions/{id}/votes", ctx.HandleSubmitVote)
	mux.HandleFunc("POST /sessions/{id}/advance", ctx.HandleAdvance)
	mux.HandleFunc("GET /sessions/{id}/results", ctx.HandleResults)
	mux.HandleFunc("GET /sessions/{id}/qr.png", ctx.HandleJoinQR)
	mux.HandleFunc("GET /sessions/{id}/events", ctx.HandleEvents)
	mux.HandleFunc("GET /codes/{code}", ctx.HandleResolveCode)

	if ctx.Docs != nil {
		mux.HandleFunc("GET /blob/{key}", ctx.HandleBlobGet)
		mux.HandleFunc("PUT /blob/{key}", ctx.HandleBlobPut)
	}
	return mux
}

// HandleIndex reports that the server is up
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"service": "thavalon", "status": "ok"})
}
