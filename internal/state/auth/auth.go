// Package auth owns the session slice: the authenticated user, the access
// token, and the load/login/logout operations around the storage adapter.
package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
	"github.com/coffeekz/appstate/pkg/helpers"
	"github.com/coffeekz/appstate/pkg/kvstore"
)

const (
	tokenKey = "auth.access_token"
	userKey  = "auth.user"

	defaultLoginErr  = "sign in failed"
	defaultSignupErr = "sign up failed"
)

// State is the session sub-state. Authenticated is true exactly when User is
// non-nil.
type State struct {
	User          *entity.User
	Token         string
	ExpiresAt     time.Time
	Authenticated bool
	Loading       bool
	Err           string
}

// Slice owns the session state.
type Slice struct {
	mu     sync.Mutex
	st     State
	rev    uint64
	api    api.Client
	kv     kvstore.Store
	logger *logrus.Logger
	notify func()
}

// New constructs the session slice. logger may be nil.
func New(client api.Client, kv kvstore.Store, logger *logrus.Logger) *Slice {
	return &Slice{api: client, kv: kv, logger: logger}
}

// OnChange registers the change callback, invoked after every mutation.
func (s *Slice) OnChange(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// State returns the current session state.
func (s *Slice) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Rev returns the slice revision, bumped on every mutation.
func (s *Slice) Rev() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Token returns the current access token, "" when unauthenticated. Intended
// as the api.TokenSource for the HTTP client.
func (s *Slice) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Token
}

func (s *Slice) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.st)
	s.rev++
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (s *Slice) begin() {
	s.mutate(func(st *State) {
		st.Loading = true
		st.Err = ""
	})
}

func (s *Slice) reject(op string, err error, fallback string) error {
	msg := api.ErrorMessage(err, fallback)
	s.mutate(func(st *State) {
		st.Loading = false
		st.Err = msg
	})
	if s.logger != nil {
		s.logger.WithError(err).WithField("op", op).Warn("auth operation failed")
	}
	return err
}

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// LoadUserData restores the session from the storage adapter. Both the token
// and the cached user must be present for the session to count as
// authenticated; missing either is an ordinary unauthenticated start, not an
// error. A corrupt cached user record fails the load.
func (s *Slice) LoadUserData(ctx context.Context) error {
	s.begin()

	token, tokOK, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		return s.reject("load session", err, "failed to restore session")
	}
	raw, userOK, err := s.kv.Get(ctx, userKey)
	if err != nil {
		return s.reject("load session", err, "failed to restore session")
	}

	if !tokOK || !userOK {
		s.mutate(func(st *State) {
			*st = State{}
		})
		return nil
	}

	var user entity.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return s.reject("decode cached user", err, "failed to restore session")
	}

	exp, expErr := helpers.TokenExpiry(token)
	if s.logger != nil {
		l := s.logger.WithField("user_id", user.ID)
		if expErr == nil {
			l = l.WithField("token_expires", exp.Format(time.RFC3339))
		}
		l.Debug("session restored")
	}

	s.mutate(func(st *State) {
		st.Loading = false
		st.User = &user
		st.Token = token
		st.ExpiresAt = exp
		st.Authenticated = true
	})
	return nil
}

// Login authenticates against the backend and establishes the session. The
// response must carry both the access token and the client record. Token and
// user are written to storage as a concurrent pair awaited jointly; if either
// write fails, no in-memory session is committed. A partial disk write is
// possible; the next LoadUserData treats the incomplete pair as
// unauthenticated.
func (s *Slice) Login(ctx context.Context, creds api.Credentials) error {
	s.begin()

	resp, err := s.api.Signin(ctx, creds)
	if err != nil {
		return s.reject("signin", err, defaultLoginErr)
	}
	return s.establish(ctx, resp, defaultLoginErr)
}

// Register creates an account and establishes the session the same way Login
// does.
func (s *Slice) Register(ctx context.Context, reg api.Registration) error {
	s.begin()

	resp, err := s.api.Signup(ctx, reg)
	if err != nil {
		return s.reject("signup", err, defaultSignupErr)
	}
	return s.establish(ctx, resp, defaultSignupErr)
}

func (s *Slice) establish(ctx context.Context, resp *api.AuthResponse, fallback string) error {
	if resp == nil || resp.AccessToken == "" || resp.Client == nil {
		msg := fallback
		if resp != nil && resp.Message != "" {
			msg = resp.Message
		}
		return s.reject("establish session", api.NewError(0, msg), fallback)
	}

	userJSON, err := json.Marshal(resp.Client)
	if err != nil {
		return s.reject("encode user", err, fallback)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.kv.Set(gctx, tokenKey, resp.AccessToken) })
	g.Go(func() error { return s.kv.Set(gctx, userKey, string(userJSON)) })
	if err := g.Wait(); err != nil {
		return s.reject("persist session", err, fallback)
	}

	exp, _ := helpers.TokenExpiry(resp.AccessToken)
	s.mutate(func(st *State) {
		st.Loading = false
		st.User = resp.Client
		st.Token = resp.AccessToken
		st.ExpiresAt = exp
		st.Authenticated = true
	})
	return nil
}

// Logout tears down the session. Storage removal failures are logged and
// swallowed so logout always succeeds from the caller's perspective.
func (s *Slice) Logout(ctx context.Context) {
	if err := s.kv.Delete(ctx, tokenKey); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to remove stored token")
	}
	if err := s.kv.Delete(ctx, userKey); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to remove stored user")
	}
	s.mutate(func(st *State) {
		*st = State{}
	})
}

// PersistSession writes (or removes) the session keys to match the current
// in-memory state. The persistor calls this on its snapshot path; Login and
// Logout already keep the keys current on their own.
func (s *Slice) PersistSession(ctx context.Context) error {
	st := s.State()
	if !st.Authenticated || st.Token == "" || st.User == nil {
		if err := s.kv.Delete(ctx, tokenKey); err != nil {
			return err
		}
		return s.kv.Delete(ctx, userKey)
	}
	userJSON, err := json.Marshal(st.User)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.kv.Set(gctx, tokenKey, st.Token) })
	g.Go(func() error { return s.kv.Set(gctx, userKey, string(userJSON)) })
	return g.Wait()
}
