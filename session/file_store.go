package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

const (
	keyFileName   = "credentials.key"
	stateFileName = "credentials.dat"
	aesKeyLength  = 32
)

// persistedState is the on-disk session snapshot: the credential pair,
// the explicit logged-in flag, and the cached user profile.
type persistedState struct {
	SessionID    string   `json:"session_id"`
	RefreshToken string   `json:"refresh_token"`
	IsLoggedIn   bool     `json:"is_logged_in"`
	Profile      *Profile `json:"user_data,omitempty"`
}

// FileStore persists the session credential across process restarts.
// The state file is sealed with AES-GCM under a key derived from a
// machine-local random secret, so the refresh token is never written
// to disk in the clear.
//
// Reads fail soft: a missing, corrupt, or undecryptable state file
// reads as an empty store, never an error.
type FileStore struct {
	path string
	key  []byte
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates (or reopens) a store rooted at dir. The first
// call generates the local secret; later calls reuse it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] state dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create state dir")
	}

	secret, err := loadOrCreateSecret(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] local secret")
	}

	key := make([]byte, aesKeyLength)
	kdf := hkdf.New(sha256.New, secret, nil, []byte("session-store"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] derive key")
	}

	return &FileStore{
		path: filepath.Join(dir, stateFileName),
		key:  key,
	}, nil
}

func (fs *FileStore) Credential() (Credential, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.read()
	if state.SessionID == "" || state.RefreshToken == "" {
		return Credential{}, false
	}
	return Credential{SessionID: state.SessionID, RefreshToken: state.RefreshToken}, true
}

func (fs *FileStore) SetCredential(sessionID, refreshToken string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.read()
	state.SessionID = sessionID
	state.RefreshToken = refreshToken
	state.IsLoggedIn = true
	return fs.write(state)
}

func (fs *FileStore) Profile() (Profile, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.read()
	if state.Profile == nil {
		return Profile{}, false
	}
	return *state.Profile, true
}

func (fs *FileStore) SetProfile(profile Profile) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.read()
	state.Profile = &profile
	return fs.write(state)
}

// Clear removes the persisted state entirely. Clearing an already
// empty store is a no-op.
func (fs *FileStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove state file")
	}
	return nil
}

// IsAuthenticated requires both a full credential and a cached profile.
// A credential alone (e.g. mid-refresh) does not count.
func (fs *FileStore) IsAuthenticated() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.read()
	return state.IsLoggedIn &&
		state.SessionID != "" &&
		state.RefreshToken != "" &&
		state.Profile != nil
}

func (fs *FileStore) read() persistedState {
	var state persistedState

	sealed, err := os.ReadFile(fs.path)
	if err != nil {
		return state
	}
	plain, err := fs.open(sealed)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(plain, &state); err != nil {
		return persistedState{}
	}
	return state
}

func (fs *FileStore) write(state persistedState) error {
	plain, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "[FileStore.write] marshal state")
	}
	sealed, err := fs.seal(plain)
	if err != nil {
		return errors.Wrap(err, "[FileStore.write] seal state")
	}
	if err := os.WriteFile(fs.path, sealed, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.write] write state file")
	}
	return nil
}

func (fs *FileStore) seal(plain []byte) ([]byte, error) {
	gcm, err := fs.cipher()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (fs *FileStore) open(sealed []byte) ([]byte, error) {
	gcm, err := fs.cipher()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("state file truncated")
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (fs *FileStore) cipher() (cipher.AEAD, error) {
	block, err := aes.NewCipher(fs.key)
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	return cipher.NewGCM(block)
}

func loadOrCreateSecret(path string) ([]byte, error) {
	if secret, err := os.ReadFile(path); err == nil && len(secret) == aesKeyLength {
		return secret, nil
	}
	secret := make([]byte, aesKeyLength)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, errors.Wrap(err, "generate secret")
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, errors.Wrap(err, "write secret")
	}
	return secret, nil
}
