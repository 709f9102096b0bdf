package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
)

// blobKey strips the .json suffix the blob client appends to every key.
func blobKey(r *http.Request) string {
	return strings.TrimSuffix(r.PathValue("key"), ".json")
}

// HandleBlobGet serves a raw stored document
func (ctx *Context) HandleBlobGet(w http.ResponseWriter, r *http.Request) {
	key := blobKey(r)
	doc, err := ctx.Docs.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(doc)
}

// HandleBlobPut overwrites a raw stored document
func (ctx *Context) HandleBlobPut(w http.ResponseWriter, r *http.Request) {
	key := blobKey(r)
	doc, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "read document "+key, err))
		return
	}
	if !json.Valid(doc) {
		writeError(w, r, apperrors.New(apperrors.CodeInvalidArgument, "document "+key+" is not valid JSON"))
		return
	}
	if err := ctx.Docs.Put(r.Context(), key, doc); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
