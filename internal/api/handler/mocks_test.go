package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/gamevault/gamevault/internal/api/middleware"
	"github.com/gamevault/gamevault/internal/auth"
	"github.com/gamevault/gamevault/internal/game"
	"github.com/gamevault/gamevault/internal/playsession"
	"github.com/gamevault/gamevault/internal/user"
)

// --- Mock User Repository ---

type mockUserRepo struct {
	createFn           func(ctx context.Context, u *user.User) error
	getByIDFn          func(ctx context.Context, id int64) (*user.User, error)
	findByEmailFn      func(ctx context.Context, email string) (*user.User, error)
	findByIDAndStaffFn func(ctx context.Context, id int64, isStaff bool) (*user.User, error)
	listFn             func(ctx context.Context) ([]user.User, error)
	listLastPlayedFn   func(ctx context.Context) ([]user.LastPlayed, error)
	getLastPlayedFn    func(ctx context.Context, id int64) (*user.LastPlayed, error)
	updateFn           func(ctx context.Context, id int64, fields user.UpdateFields) (*user.User, error)
	deleteFn           func(ctx context.Context, id int64) error
	countAllFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	u.ID = 1
	u.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) FindByIDAndStaff(ctx context.Context, id int64, isStaff bool) (*user.User, error) {
	if m.findByIDAndStaffFn != nil {
		return m.findByIDAndStaffFn(ctx, id, isStaff)
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]user.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []user.User{}, nil
}

func (m *mockUserRepo) ListLastPlayed(ctx context.Context) ([]user.LastPlayed, error) {
	if m.listLastPlayedFn != nil {
		return m.listLastPlayedFn(ctx)
	}
	return []user.LastPlayed{}, nil
}

func (m *mockUserRepo) GetLastPlayed(ctx context.Context, id int64) (*user.LastPlayed, error) {
	if m.getLastPlayedFn != nil {
		return m.getLastPlayedFn(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, fields user.UpdateFields) (*user.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, fields)
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

// --- Mock Game Repository ---

type mockGameRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*game.Game, error)
	listFn    func(ctx context.Context) ([]game.Game, error)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id int64) (*game.Game, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, game.ErrNotFound
}

func (m *mockGameRepo) List(ctx context.Context) ([]game.Game, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []game.Game{}, nil
}

// --- Mock Play Session Repository ---

type mockSessionRepo struct {
	createFn     func(ctx context.Context, ps *playsession.PlaySession) error
	getByIDFn    func(ctx context.Context, id int64) (*playsession.PlaySession, error)
	listFn       func(ctx context.Context, filter playsession.ListFilter) (*playsession.ListResult, error)
	updateGameFn func(ctx context.Context, id, gameID int64) (*playsession.PlaySession, error)
	deleteFn     func(ctx context.Context, id int64) error
}

func (m *mockSessionRepo) Create(ctx context.Context, ps *playsession.PlaySession) error {
	if m.createFn != nil {
		return m.createFn(ctx, ps)
	}
	ps.ID = 1
	ps.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id int64) (*playsession.PlaySession, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, playsession.ErrNotFound
}

func (m *mockSessionRepo) List(ctx context.Context, filter playsession.ListFilter) (*playsession.ListResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return &playsession.ListResult{Sessions: []playsession.PlaySession{}, Page: filter.Page, Limit: filter.Limit}, nil
}

func (m *mockSessionRepo) UpdateGame(ctx context.Context, id, gameID int64) (*playsession.PlaySession, error) {
	if m.updateGameFn != nil {
		return m.updateGameFn(ctx, id, gameID)
	}
	return nil, playsession.ErrNotFound
}

func (m *mockSessionRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Helpers ---

var (
	superuser = &auth.Identity{UserID: 1, Email: "root@example.com", IsStaff: true, IsSuperuser: true}
	staff     = &auth.Identity{UserID: 2, Email: "staff@example.com", IsStaff: true}
	player    = &auth.Identity{UserID: 3, Email: "player@example.com"}
)

// asIdentity injects an already resolved identity, standing in for the
// Authenticate middleware.
func asIdentity(identity *auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity != nil {
				r = r.WithContext(middleware.WithIdentity(r.Context(), identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func do(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"requestId"`
		Total     int    `json:"total"`
		Page      int    `json:"page"`
		Limit     int    `json:"limit"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error, "body: %s", w.Body.String())
	return env.Error.Code
}

func birthdate(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
