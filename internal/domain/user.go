package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents the core user model in the application domain.
// The password is never held on the struct; hashing and comparison happen
// inside the database layer.
type User struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Seq       int64                   `json:"seq"`
	Name      string                  `json:"name"`
	LoginID   string                  `json:"login_id"`
	SessionID string                  `json:"session_id,omitempty"`
}

// Profile is the public projection of a user, attached to outbound chat
// events and history entries.
type Profile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{ID: u.Seq, Name: u.Name}
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// Register creates a new user with a hashed password and an initial
	// session, returning the user with SessionID populated.
	// Fails with ErrUserAlreadyExists on a duplicate login id.
	Register(ctx context.Context, name, loginID, password string) (*User, error)

	// Login verifies credentials and rotates the user's session id.
	// Fails with ErrInvalidCredentials when the pair does not match.
	Login(ctx context.Context, loginID, password string) (*User, error)

	// FindBySessionID resolves a session cookie value to its user.
	// This is the auth resolver consumed by the HTTP middleware.
	FindBySessionID(ctx context.Context, sessionID string) (*User, error)

	// ClearSession invalidates the user's current session id.
	ClearSession(ctx context.Context, userID int64) error

	// FindByID fails with ErrNotFound when no user has the given id.
	FindByID(ctx context.Context, id int64) (*User, error)

	// SearchByName returns users whose name contains the query string.
	SearchByName(ctx context.Context, query string) ([]User, error)

	// AddFriend records a friend relation from userID to friendID.
	AddFriend(ctx context.Context, userID, friendID int64) error

	// Friends returns the users that userID has added as friends.
	Friends(ctx context.Context, userID int64) ([]User, error)
}
