package session

import (
	"errors"
	"time"
)

// Metadata keys under which a durable store persists the session.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// ErrIncompleteSession is returned by Set when the pair or user is missing
// the fields that make a session usable.
var ErrIncompleteSession = errors.New("incomplete session")

// CredentialPair is issued by the login and refresh endpoints. Both tokens
// are opaque to the client.
type CredentialPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// User is the authenticated user's profile as returned by the profile endpoint.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName joins first and last name, falling back to the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

// State is the aggregate held by a Store.
type State struct {
	Pair CredentialPair
	User User
}

func validate(pair CredentialPair, user User) error {
	if pair.AccessToken == "" {
		return errors.Join(ErrIncompleteSession, errors.New("empty access token"))
	}
	if user.ID == "" {
		return errors.Join(ErrIncompleteSession, errors.New("empty user id"))
	}
	return nil
}
