package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/post/entity"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/database"
)

type memRepo struct {
	mu    sync.Mutex
	posts map[string]*entity.Post
}

func newMemRepo() *memRepo { return &memRepo{posts: map[string]*entity.Post{}} }

func (m *memRepo) List(context.Context) ([]*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Post, 0, len(m.posts))
	for _, p := range m.posts {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Create(_ context.Context, p *entity.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.posts {
		if existing.Title == p.Title {
			return database.ErrConflict
		}
	}
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, id string, patch entity.Patch) (*entity.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_CreateAndGet(t *testing.T) {
	svc := NewPostService(newMemRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "author-1", "  Hello  ", "world")
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "author-1", p.UserID)
	assert.NotEmpty(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewPostService(newMemRepo())

	_, err := svc.Create(context.Background(), "a", " ", "content")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(context.Background(), "a", "title", "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_DuplicateTitle(t *testing.T) {
	svc := NewPostService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "a", "same", "x")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b", "same", "y")
	require.ErrorIs(t, err, ErrTitleTaken)
}

func TestTranslate_ConflictNamesConstraint(t *testing.T) {
	err := translate(database.Classify(&pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation), Constraint: "posts_title_key"}))
	require.ErrorIs(t, err, ErrTitleTaken)
	assert.Contains(t, err.Error(), "posts_title_key")

	require.ErrorIs(t, translate(database.ErrNotFound), ErrPostNotFound)
	require.NoError(t, translate(nil))
}

func TestService_UpdatePartial(t *testing.T) {
	svc := NewPostService(newMemRepo())
	ctx := context.Background()
	p, err := svc.Create(ctx, "a", "title", "content")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "a", p.ID, entity.Patch{Content: strPtr("new content")})
	require.NoError(t, err)
	assert.Equal(t, "title", updated.Title)
	assert.Equal(t, "new content", updated.Content)

	_, err = svc.Update(ctx, "a", p.ID, entity.Patch{Title: strPtr("  ")})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_AuthorOnly(t *testing.T) {
	svc := NewPostService(newMemRepo())
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner", "title", "content")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", p.ID, entity.Patch{Title: strPtr("hijacked")})
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, "intruder", p.ID), ErrForbidden)

	require.NoError(t, svc.Delete(ctx, "owner", p.ID))
	require.ErrorIs(t, svc.Delete(ctx, "owner", p.ID), ErrPostNotFound)
}

func newMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", h.List)
	mux.HandleFunc("POST /api/posts", h.Create)
	mux.HandleFunc("GET /api/posts/{id}", h.Get)
	mux.HandleFunc("PATCH /api/posts/{id}", h.Update)
	mux.HandleFunc("DELETE /api/posts/{id}", h.Delete)
	return mux
}

func do(t *testing.T, mux http.Handler, subject, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if subject != "" {
		req = req.WithContext(auth.WithClaims(req.Context(), token.Claims{Subject: subject}))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_Lifecycle(t *testing.T) {
	mux := newMux(NewHandler(NewPostService(newMemRepo()), zap.NewNop().Sugar()))

	rec := do(t, mux, "u1", http.MethodPost, "/api/posts", `{"title":"first","content":"body"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)["post"].(map[string]any)
	id := created["id"].(string)
	assert.Equal(t, "u1", created["user_id"])

	rec = do(t, mux, "u1", http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 1, body["result"])

	rec = do(t, mux, "u1", http.MethodGet, "/api/posts/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, "u2", http.MethodPatch, "/api/posts/"+id, `{"title":"mine now"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, mux, "u1", http.MethodPatch, "/api/posts/"+id, `{"title":"renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)["post"].(map[string]any)
	assert.Equal(t, "renamed", updated["title"])
	assert.Equal(t, "body", updated["content"])

	rec = do(t, mux, "u1", http.MethodDelete, "/api/posts/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, "u1", http.MethodGet, "/api/posts/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CreateWithoutClaims(t *testing.T) {
	mux := newMux(NewHandler(NewPostService(newMemRepo()), zap.NewNop().Sugar()))

	rec := do(t, mux, "", http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No claims found in the request data", decode(t, rec)["message"])
}

func TestHandler_CreateConflictAndBadPayload(t *testing.T) {
	mux := newMux(NewHandler(NewPostService(newMemRepo()), zap.NewNop().Sugar()))

	require.Equal(t, http.StatusCreated, do(t, mux, "u1", http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`).Code)
	assert.Equal(t, http.StatusConflict, do(t, mux, "u2", http.MethodPost, "/api/posts", `{"title":"t","content":"c"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, "u1", http.MethodPost, "/api/posts", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, "u1", http.MethodPost, "/api/posts", `{"title":"x"}`).Code)
}
