package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/moatalk/moatalk/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// UserStore implements domain.UserRepository on SurrealDB. Password hashing
// and comparison are pushed into the database (crypto::argon2) so the hash
// never crosses the wire, and every read uses OMIT password.
type UserStore struct {
	db *surrealdb.DB
}

// NewUserStore creates a new user repository.
func NewUserStore(db *surrealdb.DB) domain.UserRepository {
	return &UserStore{db: db}
}

const registerQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:user SET value += 1 RETURN AFTER)[0].value;
LET $user = CREATE type::thing('user', $n) CONTENT {
	seq: $n,
	name: $name,
	login_id: $login_id,
	password: crypto::argon2::generate($password),
	session_id: $session
};
RETURN $user;
COMMIT TRANSACTION;
`

// Register creates a user with an initial session id. Fails with
// domain.ErrUserAlreadyExists when the login id is taken.
func (s *UserStore) Register(ctx context.Context, name, loginID, password string) (*domain.User, error) {
	existing, err := QueryOne[domain.User](ctx, s.db, `SELECT * OMIT password FROM user WHERE login_id = $login_id`,
		map[string]any{"login_id": loginID})
	if err != nil {
		return nil, NewDBError(err, "failed to check for existing user")
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	params := map[string]any{
		"name":     name,
		"login_id": loginID,
		"password": password,
		"session":  uuid.NewString(),
	}
	user, err := QueryOne[domain.User](ctx, s.db, registerQuery, params)
	if err != nil {
		return nil, NewDBError(err, "failed to register user")
	}
	if user == nil {
		return nil, NewDBError(ErrQueryFailed, "register returned no record")
	}
	return user, nil
}

// Login verifies the credential pair and rotates the session id. Fails with
// domain.ErrInvalidCredentials when the pair does not match any user.
func (s *UserStore) Login(ctx context.Context, loginID, password string) (*domain.User, error) {
	query := `SELECT * OMIT password FROM user
		WHERE login_id = $login_id AND crypto::argon2::compare(password, $password)`
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{
		"login_id": loginID,
		"password": password,
	})
	if err != nil {
		return nil, NewDBError(err, "failed to verify credentials")
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	rotate := `UPDATE type::thing('user', $id) SET session_id = $session RETURN AFTER`
	user, err = QueryOne[domain.User](ctx, s.db, rotate, map[string]any{
		"id":      user.Seq,
		"session": uuid.NewString(),
	})
	if err != nil {
		return nil, NewDBError(err, "failed to rotate session")
	}
	return user, nil
}

// FindBySessionID resolves a session cookie value to its user.
func (s *UserStore) FindBySessionID(ctx context.Context, sessionID string) (*domain.User, error) {
	if sessionID == "" {
		return nil, domain.ErrNotFound
	}
	query := `SELECT * OMIT password FROM user WHERE session_id = $session`
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"session": sessionID})
	if err != nil {
		return nil, NewDBError(err, "failed to resolve session").WithQuery(query)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ClearSession invalidates the user's current session id.
func (s *UserStore) ClearSession(ctx context.Context, userID int64) error {
	return Execute(ctx, s.db, `UPDATE type::thing('user', $id) SET session_id = ''`,
		map[string]any{"id": userID})
}

// FindByID returns the user with the given numeric id, or domain.ErrNotFound.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT * OMIT password FROM user WHERE id = type::thing('user', $id)`
	user, err := QueryOne[domain.User](ctx, s.db, query, map[string]any{"id": id})
	if err != nil {
		return nil, NewDBError(err, "failed to find user").WithQuery(query)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// SearchByName returns users whose name contains the query string.
func (s *UserStore) SearchByName(ctx context.Context, query string) ([]domain.User, error) {
	q := `SELECT * OMIT password FROM user WHERE string::contains(name, $query) ORDER BY seq ASC`
	users, err := Query[domain.User](ctx, s.db, q, map[string]any{"query": query})
	if err != nil {
		return nil, NewDBError(err, "failed to search users").WithQuery(q)
	}
	return users, nil
}

const addFriendQuery = `
BEGIN TRANSACTION;
LET $n = (UPSERT seq:friend_relation SET value += 1 RETURN AFTER)[0].value;
CREATE type::thing('friend_relation', $n) CONTENT {
	seq: $n,
	user_id: type::thing('user', $user),
	friend_id: type::thing('user', $friend)
};
COMMIT TRANSACTION;
`

// AddFriend records a friend relation from userID to friendID.
func (s *UserStore) AddFriend(ctx context.Context, userID, friendID int64) error {
	err := Execute(ctx, s.db, addFriendQuery, map[string]any{"user": userID, "friend": friendID})
	if err != nil {
		return NewDBError(err, "failed to add friend relation")
	}
	return nil
}

// Friends returns the users that userID has added as friends, in the order
// the relations were created.
func (s *UserStore) Friends(ctx context.Context, userID int64) ([]domain.User, error) {
	query := `SELECT * OMIT password FROM user WHERE id IN
		(SELECT VALUE friend_id FROM friend_relation WHERE user_id = type::thing('user', $user) ORDER BY seq ASC)`
	friends, err := Query[domain.User](ctx, s.db, query, map[string]any{"user": userID})
	if err != nil {
		return nil, NewDBError(err, "failed to list friends").WithQuery(query)
	}
	return friends, nil
}
