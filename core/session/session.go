package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ID identifies backend entities. The backend sends integers, but any JSON
// string or number is accepted and kept as text.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected number or string: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// User is the authenticated user as returned by the backend.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session is either authenticated (token and user both present) or anonymous.
// The zero value is anonymous.
type Session struct {
	token string
	user  User
}

// Anonymous returns the anonymous session.
func Anonymous() Session { return Session{} }

// Authenticated builds an authenticated session after validating both halves.
func Authenticated(token string, user User) (Session, error) {
	if err := validateToken(token); err != nil {
		return Session{}, err
	}
	if user.ID.IsZero() {
		return Session{}, fmt.Errorf("%w: missing id", ErrInvalidUser)
	}
	return Session{token: token, user: user}, nil
}

// IsAuthenticated reports whether the session carries a token and a user.
func (s Session) IsAuthenticated() bool { return s.token != "" }

// Token returns the bearer token, empty for anonymous sessions.
func (s Session) Token() string { return s.token }

// User returns the user and whether the session is authenticated.
func (s Session) User() (User, bool) { return s.user, s.IsAuthenticated() }

// Record is the persisted pair exactly as stored: an opaque token and the
// serialized user.
type Record struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
}

// IsEmpty reports whether neither half is present.
func (r Record) IsEmpty() bool { return r.Token == "" && r.User == "" }

// Parse converts a persisted record into a session. An empty record is
// anonymous; a record with one half missing or malformed is ErrMalformed.
func (r Record) Parse() (Session, error) {
	if r.IsEmpty() {
		return Anonymous(), nil
	}
	if r.Token == "" || r.User == "" {
		return Session{}, fmt.Errorf("%w: incomplete record", ErrMalformed)
	}

	raw := strings.TrimSpace(r.User)
	if !strings.HasPrefix(raw, "{") {
		return Session{}, fmt.Errorf("%w: user is not an object", ErrMalformed)
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	sess, err := Authenticated(r.Token, user)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return sess, nil
}

// NewRecord serializes an authenticated session for storage.
func NewRecord(s Session) (Record, error) {
	if !s.IsAuthenticated() {
		return Record{}, ErrNotAuthenticated
	}
	user, err := json.Marshal(s.user)
	if err != nil {
		return Record{}, fmt.Errorf("session: marshal user: %w", err)
	}
	return Record{Token: s.token, User: string(user)}, nil
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: blank", ErrInvalidToken)
	}
	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidToken)
	}
	return nil
}
