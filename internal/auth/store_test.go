package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/user"
)

// memStore is an in-memory user store for auth tests.
type memStore struct {
	mu     sync.Mutex
	users  map[int64]*user.User
	nextID int64
	err    error

	findByIDCalls int
}

func newMemStore() *memStore {
	return &memStore{users: map[int64]*user.User{}, nextID: 1}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memStore) FindByIDAndStaff(_ context.Context, id int64, isStaff bool) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findByIDCalls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok || u.IsStaff != isStaff {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CountAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	return len(s.users), nil
}

func (s *memStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if u.ID == 0 {
		u.ID = s.nextID
	}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// put stores u as-is, keeping its ID.
func (s *memStore) put(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = &u
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
}

func (s *memStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByIDCalls
}

// fixedClock returns a whole-second instant so token timestamps survive the
// round trip through NumericDate unchanged.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{t: time.Date(2021, 7, 21, 16, 55, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var testSecret = []byte("test-signing-secret")

func newHasher() *auth.BcryptHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func mustHash(password string) string {
	h, err := newHasher().Hash(password)
	if err != nil {
		panic(err)
	}
	return h
}

// requestCtx is a fake auth.RequestContext.
type requestCtx struct {
	cookies map[string]string
	headers map[string]string
}

func (r requestCtx) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}

func (r requestCtx) Header(name string) string {
	return r.headers[name]
}

func withCookie(token string) requestCtx {
	return requestCtx{cookies: map[string]string{auth.CookieName: token}}
}

func withHeader(token string) requestCtx {
	return requestCtx{headers: map[string]string{auth.HeaderName: token}}
}
