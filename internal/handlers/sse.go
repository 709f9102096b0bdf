package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/aaronzipp/thavalon/internal/models"
	"github.com/aaronzipp/thavalon/internal/render"
	"github.com/aaronzipp/thavalon/internal/sse"
	"github.com/aaronzipp/thavalon/internal/syncer"
)

type loadingEvent struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// HandleEvents streams session updates via Server-Sent Events. Every
// connection runs its own synchronizer, so a connected client also resolves
// complete votes.
func (ctx *Context) HandleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	player := r.URL.Query().Get("player")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	if debug {
		log.Printf("HandleEvents: session=%s player=%s", id, player)
	}

	// Set headers for SSE and flush them to establish the connection
	sse.SetHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientChan := ctx.Hub.AddClient(id, player)
	defer ctx.Hub.RemoveClient(id, clientChan)
	if debug {
		log.Printf("HandleEvents: client %s connected, now have %d clients on session %s", player, ctx.Hub.ClientCount(id), id)
	}

	streamCtx, cancel := context.WithCancel(r.Context())
	defer cancel()

	observe := func(snap syncer.Snapshot) {
		for _, msg := range snapshotMessages(snap, player) {
			select {
			case clientChan <- msg:
			case <-streamCtx.Done():
				return
			}
		}
	}
	poller := syncer.New(ctx.Repo, id,
		syncer.WithIntervals(ctx.LobbyPoll, ctx.GamePoll),
		syncer.WithObserver(observe),
	)
	go poller.Run(streamCtx)

	// Listen for updates
	for {
		select {
		case <-streamCtx.Done():
			log.Printf("HandleEvents: client %s disconnected from session %s", player, id)
			return
		case msg := <-clientChan:
			if err := sse.Write(w, msg); err != nil {
				if debug {
					log.Printf("HandleEvents: %v", err)
				}
				return
			}
			flusher.Flush()
		}
	}
}

// snapshotMessages turns one synchronizer tick into stream events.
func snapshotMessages(snap syncer.Snapshot, player string) []sse.Message {
	if snap.Loading {
		ev := loadingEvent{Loading: true}
		if snap.Err != nil {
			ev.Error = snap.Err.Error()
		}
		data, _ := json.Marshal(ev)
		return []sse.Message{{Event: sse.EventLoading, Data: string(data)}}
	}

	data, err := models.Encode(snap.Session)
	if err != nil {
		log.Printf("HandleEvents: encode session %s: %v", snap.Session.ID, err)
		return []sse.Message{{Event: sse.EventError, Data: err.Error()}}
	}
	return []sse.Message{
		{Event: sse.EventSession, Data: string(data)},
		{Event: sse.EventStatus, Data: render.Status(snap.Session, player)},
	}
}
