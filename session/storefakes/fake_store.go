package storefakes

import (
	"sync"

	"github.com/hapsoo-labs/brewgate/session"
)

var _ session.Store = (*FakeStore)(nil)

type FakeStore struct {
	sessionID    string
	refreshToken string
	loggedIn     bool
	profile      *session.Profile
	lock         sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Credential() (session.Credential, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.sessionID == "" || fs.refreshToken == "" {
		return session.Credential{}, false
	}
	return session.Credential{SessionID: fs.sessionID, RefreshToken: fs.refreshToken}, true
}

func (fs *FakeStore) SetCredential(sessionID, refreshToken string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.sessionID = sessionID
	fs.refreshToken = refreshToken
	fs.loggedIn = true
	return nil
}

func (fs *FakeStore) Profile() (session.Profile, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.profile == nil {
		return session.Profile{}, false
	}
	return *fs.profile, true
}

func (fs *FakeStore) SetProfile(profile session.Profile) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.profile = &profile
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.sessionID = ""
	fs.refreshToken = ""
	fs.loggedIn = false
	fs.profile = nil
	return nil
}

func (fs *FakeStore) IsAuthenticated() bool {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.loggedIn && fs.sessionID != "" && fs.refreshToken != "" && fs.profile != nil
}
