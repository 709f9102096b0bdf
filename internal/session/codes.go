package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/store"
)

// maxCodeAttempts bounds the search for an unused join code.
const maxCodeAttempts = 16

type codeDocument struct {
	GameID string `json:"gameId"`
}

func codeKey(code string) string {
	return "code-" + code
}

// CreateJoinCode registers a short code players can type to find the
// session.
func (r *Repository) CreateJoinCode(ctx context.Context, id string) (string, error) {
	if _, err := r.Load(ctx, id); err != nil {
		return "", err
	}
	doc, err := json.Marshal(codeDocument{GameID: id})
	if err != nil {
		return "", err
	}

	for range maxCodeAttempts {
		code := r.newCode()
		_, err := r.docs.Get(ctx, codeKey(code))
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", storeError("check join code", err)
		}
		if err := r.docs.Put(ctx, codeKey(code), doc); err != nil {
			return "", storeError("save join code", err)
		}
		log.Printf("Created join code: id=%s code=%s", id, code)
		return code, nil
	}
	return "", apperrors.New(apperrors.CodeTransientIO, "no free join code found")
}

// ResolveJoinCode returns the session id registered for code. Codes are
// case-insensitive.
func (r *Repository) ResolveJoinCode(ctx context.Context, code string) (string, error) {
	code = game.NormalizeJoinCode(code)
	if !game.ValidJoinCode(code) {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "malformed join code "+code)
	}
	data, err := r.docs.Get(ctx, codeKey(code))
	if err != nil {
		return "", storeError("resolve join code "+code, err)
	}
	var doc codeDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.GameID == "" {
		return "", apperrors.Wrap(apperrors.CodeCorruptDocument, "resolve join code "+code, err)
	}
	return doc.GameID, nil
}
