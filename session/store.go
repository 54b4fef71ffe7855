package session

// Credential is the pair of opaque tokens identifying an authenticated
// session. The session ID rides on every request; the refresh token is
// only ever presented to the refresh endpoint.
type Credential struct {
	SessionID    string
	RefreshToken string
}

// Profile is the cached identity snapshot captured at login. Display
// only: it may be stale and must never gate an authorization decision.
type Profile struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Store is the single source of truth for the current session. Login and
// refresh are its only writers; the gateway client reads it immediately
// before every send.
//
// Credential returns false unless both tokens are present: a partial
// credential reads as "not authenticated".
type Store interface {
	Credential() (Credential, bool)
	SetCredential(sessionID, refreshToken string) error
	Profile() (Profile, bool)
	SetProfile(profile Profile) error
	Clear() error
	IsAuthenticated() bool
}
