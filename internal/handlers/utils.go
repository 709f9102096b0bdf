package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/models"
	"github.com/aaronzipp/thavalon/internal/render"
	"github.com/aaronzipp/thavalon/internal/sse"
)

// maxBodyBytes bounds request bodies, documents included.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: %v", err)
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
	}
	return nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeTransientIO:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	} else if debug {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: string(apperrors.CodeOf(err))})
}

// publish pushes s to every stream connected to it on this server, so they
// need not wait for their next poll.
func (ctx *Context) publish(s models.GameSession) {
	if ctx.Hub == nil {
		return
	}
	data, err := models.Encode(s)
	if err != nil {
		log.Printf("publish: session=%s: %v", s.ID, err)
		return
	}
	ctx.Hub.Broadcast(s.ID, sse.EventSession, string(data))
	ctx.Hub.BroadcastPersonalized(s.ID, func(player string) string {
		return render.Status(s, player)
	}, sse.EventStatus)
}
