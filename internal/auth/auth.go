// Package auth registers accounts, logs users in and out, and keeps the
// local session. Passwords are stored as bcrypt hashes; sessions are HS256
// JWTs persisted to a file in the config directory.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
)

// Identity is an authenticated user.
type Identity struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Options configures a Service.
type Options struct {
	Secret      string
	TTL         time.Duration
	SessionPath string
	Log         *activity.Log
}

// Service implements the account operations.
type Service struct {
	users   store.Users
	secret  []byte
	ttl     time.Duration
	session sessionFile
	log     *activity.Log
	now     func() time.Time
}

// NewService returns a Service backed by users.
func NewService(users store.Users, opts Options) *Service {
	return &Service{
		users:   users,
		secret:  []byte(opts.Secret),
		ttl:     opts.TTL,
		session: sessionFile{path: opts.SessionPath},
		log:     opts.Log,
		now:     time.Now,
	}
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, confirm string) (Identity, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return Identity{}, err
	}
	if err := ValidatePassword(password, confirm); err != nil {
		return Identity{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, err
	}
	u := &store.User{ID: uuid.New().String(), Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return Identity{}, clierr.Newf(clierr.EmailTaken, "email %s is already registered", email)
		}
		return Identity{}, err
	}
	s.log.Record(activity.ActionRegister, "", email)
	return s.start(u)
}

// Login verifies credentials and persists a new session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return Identity{}, err
	}
	u, err := s.Verify(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}
	s.log.Record(activity.ActionLogin, "", email)
	return s.start(u)
}

// Logout removes the local session. Logging out twice is not an error.
func (s *Service) Logout() error {
	cur, _ := s.session.load()
	if err := s.session.clear(); err != nil {
		return err
	}
	if cur != nil {
		s.log.Record(activity.ActionLogout, "", cur.Email)
	}
	return nil
}

// Current resolves the local session once. It returns nil when nobody is
// logged in, the token has expired, or the account no longer exists.
func (s *Service) Current(ctx context.Context) (*Identity, error) {
	sess, err := s.session.load()
	if err != nil || sess == nil {
		return nil, err
	}
	id, err := s.Authenticate(ctx, sess.Token)
	if err != nil {
		return nil, nil //nolint:nilerr // an unusable session means logged out
	}
	return id, nil
}

// Require is Current that fails with NOT_LOGGED_IN instead of returning nil.
func (s *Service) Require(ctx context.Context) (*Identity, error) {
	id, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, clierr.New(clierr.NotLoggedIn, "not logged in (run 'taskflow login')")
	}
	return id, nil
}

// Authenticate verifies a bearer token and checks that its account exists.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := ParseToken(s.secret, token, s.now())
	if err != nil {
		return nil, clierr.New(clierr.NotLoggedIn, "session is invalid or expired")
	}
	u, err := s.users.UserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, clierr.New(clierr.NotLoggedIn, "account no longer exists")
		}
		return nil, err
	}
	return &Identity{UserID: u.ID, Email: u.Email, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Issue signs a token for u without touching the local session; the HTTP
// API hands it to remote clients.
func (s *Service) Issue(u *store.User) (Identity, error) {
	token, expires, err := IssueToken(s.secret, u.ID, u.Email, s.ttl, s.now())
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: u.ID, Email: u.Email, Token: token, ExpiresAt: expires}, nil
}

// Verify checks credentials and returns the account without persisting a
// session.
func (s *Service) Verify(ctx context.Context, email, password string) (*store.User, error) {
	email = NormalizeEmail(email)
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, invalidCredentials()
	}
	return u, nil
}

func (s *Service) start(u *store.User) (Identity, error) {
	id, err := s.Issue(u)
	if err != nil {
		return Identity{}, err
	}
	if err := s.session.save(Session{Token: id.Token, UserID: id.UserID, Email: id.Email, ExpiresAt: id.ExpiresAt}); err != nil {
		return Identity{}, err
	}
	return id, nil
}

func invalidCredentials() error {
	return clierr.New(clierr.InvalidCredentials, "invalid email or password")
}
