package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gogithub "github.com/google/go-github/v53/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/portfolio/internal/content"
	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/github"
	"github.com/joescharf/portfolio/internal/lab"
	"github.com/joescharf/portfolio/internal/models"
	"github.com/joescharf/portfolio/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource serves a fixed repository list.
type stubSource struct {
	repos   []*gogithub.Repository
	err     error
	langErr error
}

func (s *stubSource) SearchRepositories(_ context.Context, _ string, page, _ int) ([]*gogithub.Repository, error) {
	if s.err != nil {
		return nil, s.err
	}
	if page > 1 {
		return nil, nil
	}
	return s.repos, nil
}

func (s *stubSource) Repository(context.Context, string, string) (*gogithub.Repository, error) {
	return nil, errors.New("not found")
}

func (s *stubSource) Languages(context.Context, string) (map[string]int, error) {
	if s.langErr != nil {
		return nil, s.langErr
	}
	return map[string]int{"Go": 10}, nil
}

func (s *stubSource) User(context.Context, string) (*gogithub.User, error) {
	return &gogithub.User{Followers: gogithub.Int(3), PublicRepos: gogithub.Int(9)}, nil
}

func stubRepo(name string, topics ...string) *gogithub.Repository {
	return &gogithub.Repository{
		Name:            gogithub.String(name),
		HTMLURL:         gogithub.String("https://github.com/octocat/" + name),
		LanguagesURL:    gogithub.String("https://api.github.com/repos/octocat/" + name + "/languages"),
		StargazersCount: gogithub.Int(2),
		Topics:          topics,
		UpdatedAt:       &gogithub.Timestamp{Time: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	store   *store.SQLiteStore
	content *content.Content
}

func setupTestServer(t *testing.T, src *stubSource) testEnv {
	t.Helper()
	dir := t.TempDir()

	s, err := store.NewSQLiteStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	doc, err := content.Default()
	require.NoError(t, err)
	doc.Resume.Path = filepath.Join(dir, "resume.pdf")

	svc := gallery.NewService(src, nil, doc.GalleryConfig(0, 2), nil)
	srv := NewServer(svc, doc, s, nil, nil)
	return testEnv{srv: srv, handler: srv.Router(), store: s, content: doc}
}

func do(t *testing.T, h http.Handler, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "GET", "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"database":true`)
}

func TestProjects_GitHubFeed(t *testing.T) {
	env := setupTestServer(t, &stubSource{repos: []*gogithub.Repository{stubRepo("vision-kit", "vision", "portfolio")}})

	w := do(t, env.handler, "GET", "/api/v1/projects?feed=github", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var g gallery.Gallery
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, gallery.FeedGitHub, g.Feed)
	require.Len(t, g.Projects, 1)
	assert.Equal(t, "vision-kit", g.Projects[0].Name)
	assert.Equal(t, "Computer Vision", g.Projects[0].Category)
	assert.Equal(t, []string{"Go"}, g.Projects[0].Languages)
}

func TestProjects_EmptyFallsBackToFeatured(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "GET", "/api/v1/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var g gallery.Gallery
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, gallery.FeedFeatured, g.Feed)
	assert.Len(t, g.Projects, len(env.content.FeaturedProjects))
	assert.Contains(t, g.Notices, "No repositories tagged with 'portfolio' were found. Showing featured showcase instead.")
}

func TestProjects_BadFeed(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "GET", "/api/v1/projects?feed=nope", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPage(t *testing.T) {
	env := setupTestServer(t, &stubSource{repos: []*gogithub.Repository{stubRepo("a"), stubRepo("b")}})

	w := do(t, env.handler, "GET", "/api/v1/page?live=true", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Content content.Content       `json:"content"`
		Summary models.AccountSummary `json:"summary"`
		Notices []string              `json:"notices"`
		Resume  struct {
			Available bool   `json:"available"`
			Message   string `json:"message"`
		} `json:"resume"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, env.content.Profile.Name, page.Content.Profile.Name)
	assert.Equal(t, 3, page.Summary.Followers)
	assert.Equal(t, 4, page.Summary.TotalStars)
	assert.Contains(t, page.Notices, "No live deployments yet for this view. Showing all projects instead.")
	assert.False(t, page.Resume.Available)
	assert.NotEmpty(t, page.Resume.Message)
}

func TestGitHubSummary_Warning(t *testing.T) {
	env := setupTestServer(t, &stubSource{err: errors.New("dial tcp: timeout")})

	w := do(t, env.handler, "GET", "/api/v1/github/summary", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GitHub API request failed")
	assert.Contains(t, w.Body.String(), `"followers":3`)
}

func TestContact_JSON(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "POST", "/api/v1/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hi!"}`, "application/json")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), MsgContactThanks)

	msgs, err := env.store.ListContactMessages(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ada", msgs[0].Name)
}

func TestContact_Form(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hello"}}
	w := do(t, env.handler, "POST", "/api/v1/contact", form.Encode(), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestContact_Incomplete(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	for _, body := range []string{
		`{"name":"Ada","email":"ada@example.com"}`,
		`{"name":"   ","email":"ada@example.com","message":"hi"}`,
	} {
		w := do(t, env.handler, "POST", "/api/v1/contact", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Contains(t, w.Body.String(), MsgContactIncomplete)
	}

	n, err := env.store.CountContactMessages(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContact_BadEmail(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "POST", "/api/v1/contact",
		`{"name":"Ada","email":"not-an-email","message":"hi"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), MsgContactBadEmail)
	assert.NotContains(t, w.Body.String(), MsgContactIncomplete)

	n, err := env.store.CountContactMessages(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContact_DatabaseUnavailable(t *testing.T) {
	env := setupTestServer(t, &stubSource{})
	require.NoError(t, env.store.Close())

	w := do(t, env.handler, "POST", "/api/v1/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hi!"}`, "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), MsgContactFailed)

	noStore := NewServer(env.srv.gallery, env.content, nil, nil, nil).Router()
	w = do(t, noStore, "POST", "/api/v1/contact",
		`{"name":"Ada","email":"ada@example.com","message":"Hi!"}`, "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLabSentiment(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "POST", "/api/v1/lab/sentiment", `{"text":"fast and stable"}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var res lab.SentimentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, lab.Positive, res.Label)
}

func TestLabResume(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "POST", "/api/v1/lab/resume", `{"text":"PyTorch and MLOps"}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var res lab.ResumeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []string{"pytorch", "mlops"}, res.Hits)
	assert.Equal(t, 22, res.Coverage)
}

func TestResume(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "GET", "/resume", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Resume file is missing")

	require.NoError(t, os.WriteFile(env.content.Resume.Path, []byte("%PDF-1.4"), 0o644))

	w = do(t, env.handler, "GET", "/resume", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())

	w = do(t, env.handler, "GET", "/api/v1/resume", "", "")
	assert.Contains(t, w.Body.String(), `"available":true`)
}

func TestResume_FileNameIsEscaped(t *testing.T) {
	env := setupTestServer(t, &stubSource{})
	env.content.Resume.FileName = "Jordan \"JA\" Avery\nCV.pdf"
	require.NoError(t, os.WriteFile(env.content.Resume.Path, []byte("%PDF-1.4"), 0o644))

	w := do(t, env.handler, "GET", "/resume?inline=true", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	header := w.Header().Get("Content-Disposition")
	assert.NotContains(t, header, "\n")
	disposition, params, err := mime.ParseMediaType(header)
	require.NoError(t, err)
	assert.Equal(t, "inline", disposition)
	assert.Equal(t, "Jordan \"JA\" Avery\nCV.pdf", params["filename"])
}

func TestProjects_RefreshClearsLanguageLatch(t *testing.T) {
	src := &stubSource{
		repos:   []*gogithub.Repository{stubRepo("vision-kit", "vision", "portfolio")},
		langErr: fmt.Errorf("%w: 403", github.ErrRateLimited),
	}
	env := setupTestServer(t, src)

	var g gallery.Gallery
	w := do(t, env.handler, "GET", "/api/v1/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Contains(t, g.Notices, gallery.LanguageLimitNotice)
	assert.True(t, env.srv.gallery.Enricher().Disabled())

	// The limit has lifted, but the latch holds until a refresh.
	src.langErr = nil
	w = do(t, env.handler, "GET", "/api/v1/projects", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Empty(t, g.Projects[0].Languages)

	w = do(t, env.handler, "GET", "/api/v1/projects?refresh=true", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	g = gallery.Gallery{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.False(t, env.srv.gallery.Enricher().Disabled())
	assert.Equal(t, []string{"Go"}, g.Projects[0].Languages)
	assert.NotContains(t, g.Notices, gallery.LanguageLimitNotice)
}

func TestAsk_NotConfigured(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "POST", "/api/v1/ask", `{"question":"What do you build?"}`, "application/json")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestServer(t, &stubSource{})

	w := do(t, env.handler, "OPTIONS", "/api/v1/contact", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
