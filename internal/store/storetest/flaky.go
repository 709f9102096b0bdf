// Package storetest provides document store doubles for tests.
package storetest

import (
	"context"
	"sync"

	apperrors "github.com/aaronzipp/thavalon/internal/errors"
	"github.com/aaronzipp/thavalon/internal/store"
)

// FlakyStore wraps a DocumentStore and fails selected calls with a
// transient error.
type FlakyStore struct {
	Inner store.DocumentStore

	mu       sync.Mutex
	failGets int
	failPuts int
	gets     int
	puts     int
	putKeys  []string
}

// NewFlakyStore wraps inner.
func NewFlakyStore(inner store.DocumentStore) *FlakyStore {
	return &FlakyStore{Inner: inner}
}

// FailGets makes the next n Get calls fail.
func (f *FlakyStore) FailGets(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGets = n
}

// FailPuts makes the next n Put calls fail.
func (f *FlakyStore) FailPuts(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = n
}

// Calls returns how many Get and Put calls reached the wrapper.
func (f *FlakyStore) Calls() (gets, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.puts
}

// PutKeys returns the keys of every successful Put, in order.
func (f *FlakyStore) PutKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.putKeys...)
}

// Get implements store.DocumentStore.
func (f *FlakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	f.gets++
	fail := f.failGets > 0
	if fail {
		f.failGets--
	}
	f.mu.Unlock()

	if fail {
		return nil, apperrors.New(apperrors.CodeTransientIO, "injected get failure")
	}
	return f.Inner.Get(ctx, key)
}

// Put implements store.DocumentStore.
func (f *FlakyStore) Put(ctx context.Context, key string, doc []byte) error {
	f.mu.Lock()
	f.puts++
	fail := f.failPuts > 0
	if fail {
		f.failPuts--
	}
	f.mu.Unlock()

	if fail {
		return apperrors.New(apperrors.CodeTransientIO, "injected put failure")
	}
	if err := f.Inner.Put(ctx, key, doc); err != nil {
		return err
	}
	f.mu.Lock()
	f.putKeys = append(f.putKeys, key)
	f.mu.Unlock()
	return nil
}
