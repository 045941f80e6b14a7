package tokenstorefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/tokenstore"
)

var _ tokenstore.Store = (*FakeTokenStore)(nil)

// FakeTokenStore is an in-memory tokenstore.Store with injectable failures.
type FakeTokenStore struct {
	creds  tokenstore.StoredCredentials
	stored bool

	readErr  error
	saveErr  error
	clearErr error
	onSave   func(tokenstore.StoredCredentials)

	saves  int
	clears int
	lock   sync.RWMutex
}

func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{}
}

// NewFakeTokenStoreWith returns a store pre-populated as if a previous run had logged in.
func NewFakeTokenStoreWith(creds tokenstore.StoredCredentials) *FakeTokenStore {
	return &FakeTokenStore{creds: creds, stored: true}
}

func (ts *FakeTokenStore) Save(_ context.Context, creds tokenstore.StoredCredentials) error {
	ts.lock.Lock()
	if ts.saveErr != nil {
		err := ts.saveErr
		ts.lock.Unlock()
		return err
	}
	ts.creds = creds
	ts.stored = true
	ts.saves++
	hook := ts.onSave
	ts.lock.Unlock()

	if hook != nil {
		hook(creds)
	}
	return nil
}

func (ts *FakeTokenStore) Read(_ context.Context) (tokenstore.StoredCredentials, bool, error) {
	ts.lock.RLock()
	defer ts.lock.RUnlock()

	if ts.readErr != nil {
		return tokenstore.StoredCredentials{}, false, ts.readErr
	}
	if !ts.stored {
		return tokenstore.StoredCredentials{}, false, nil
	}
	return ts.creds, ts.creds.HasAccessToken(), nil
}

func (ts *FakeTokenStore) Clear(_ context.Context) error {
	ts.lock.Lock()
	defer ts.lock.Unlock()

	if ts.clearErr != nil {
		return ts.clearErr
	}
	ts.creds = tokenstore.StoredCredentials{}
	ts.stored = false
	ts.clears++
	return nil
}

// Current returns the stored pair without going through Read's error injection.
func (ts *FakeTokenStore) Current() (tokenstore.StoredCredentials, bool) {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	return ts.creds, ts.stored
}

func (ts *FakeTokenStore) SetReadErr(err error) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	ts.readErr = err
}

func (ts *FakeTokenStore) SetSaveErr(err error) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	ts.saveErr = err
}

func (ts *FakeTokenStore) SetClearErr(err error) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	ts.clearErr = err
}

// OnSave registers a hook run after every successful Save, outside the store lock.
func (ts *FakeTokenStore) OnSave(hook func(tokenstore.StoredCredentials)) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	ts.onSave = hook
}

func (ts *FakeTokenStore) Saves() int {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	return ts.saves
}

func (ts *FakeTokenStore) Clears() int {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	return ts.clears
}
