package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"cyberscribe/internal/config"
	"cyberscribe/internal/core"
	"cyberscribe/internal/pipeline"
	"cyberscribe/internal/posts"
	"cyberscribe/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T) (*Server, http.Handler, *posts.Store) {
	t.Helper()

	dataDir := t.TempDir()
	postStore, err := posts.NewStore(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	runLog, err := store.NewRunLog(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = runLog.Close() })

	cfg := &config.Config{
		Server: config.Server{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Minute,
			StaticDir:    filepath.Join(dataDir, "no-such-static"),
		},
		Auth: config.Auth{
			AdminUser:     "admin",
			AdminPass:     "hunter2",
			SessionSecret: "test-secret",
			SessionTTL:    time.Hour,
		},
	}

	log := testLogger()
	pipe := pipeline.New(nil, nil, postStore, nil, nil, log)
	srv := New(cfg, pipe, postStore, runLog, log)

	return srv, srv.router(), postStore
}

func TestHealth(t *testing.T) {
	_, handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListPostsEmpty(t *testing.T) {
	_, handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty listing should be an empty array, got %q", got)
	}
}

func TestGetPost(t *testing.T) {
	_, handler, postStore := newTestServer(t)

	post := core.Post{
		Slug:      "test-post-abc",
		HTML:      "<h1>Hello</h1>",
		Meta:      core.PostMeta{Title: "Hello", Author: "Tester"},
		CreatedAt: time.Now().UTC(),
	}
	if err := postStore.Save(post); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/posts/test-post-abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got core.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.HTML != post.HTML || got.Meta.Title != "Hello" {
		t.Errorf("unexpected post: %+v", got)
	}
}

func TestGetPostNotFound(t *testing.T) {
	_, handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/posts/no-such-post", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestImageFilenameValidation(t *testing.T) {
	_, handler, _ := newTestServer(t)

	for _, name := range []string{"notes.txt", "img-1.jpg", "img.png", "img-1.png.bak"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/images/some-slug/"+name, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("filename %q: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestImageSlugValidation(t *testing.T) {
	_, handler, postStore := newTestServer(t)

	// A file one level above the data dir must stay unreachable through
	// the image route even with a conforming filename.
	outside := filepath.Join(filepath.Dir(postStore.Dir()), "img-1.png")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, slug := range []string{"..", "some.slug", "UPPER", "a/b"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/images/"+slug+"/img-1.png", nil))
		if rec.Code == http.StatusOK {
			t.Errorf("slug %q: status = %d, must not serve", slug, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/images/../img-1.png", nil))
	if rec.Code == http.StatusOK || strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("traversal slug served a file outside the data dir (status %d)", rec.Code)
	}
}

func TestImageNotFound(t *testing.T) {
	_, handler, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/images/some-slug/img-1.png", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestImageServed(t *testing.T) {
	_, handler, postStore := newTestServer(t)

	imgDir := filepath.Join(postStore.Dir(), "pic-post-abc")
	if err := os.MkdirAll(imgDir, 0755); err != nil {
		t.Fatal(err)
	}
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	if err := os.WriteFile(filepath.Join(imgDir, "img-1.png"), payload, 0644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/images/pic-post-abc/img-1.png", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Error("served bytes differ from stored image")
	}
}

func TestGenerateRequiresAuth(t *testing.T) {
	_, handler, _ := newTestServer(t)

	for _, path := range []string{"/generate", "/find-and-generate", "/research-and-generate"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("POST", path, strings.NewReader(`{}`)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/runs", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("/api/runs: status = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, handler, _ := newTestServer(t)

	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/login", body))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on failed login")
	}
}

func TestLoginGrantsAccess(t *testing.T) {
	_, handler, _ := newTestServer(t)

	body := strings.NewReader(`{"username":"admin","password":"hunter2"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/login", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// An empty url now reaches the pipeline and maps to a client error,
	// proving the auth gate was passed.
	req := httptest.NewRequest("POST", "/generate", strings.NewReader(`{"url":""}`))
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("authenticated empty-url generate: status = %d, want 400", rec.Code)
	}
}

func TestRunsEndpointWithAuth(t *testing.T) {
	srv, handler, _ := newTestServer(t)

	if err := srv.runs.Record(store.Run{Strategy: "direct", Status: store.StatusCompleted, StartedAt: time.Now().UTC(), CompletedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/runs", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: srv.sessions.token("admin")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var runs []store.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Strategy != "direct" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestSessionTokenRoundtrip(t *testing.T) {
	s := newSessions(config.Auth{AdminUser: "admin", AdminPass: "x", SessionSecret: "secret", SessionTTL: time.Hour})

	token := s.token("admin")
	if !s.verify(token) {
		t.Error("freshly issued token must verify")
	}
}

func TestSessionTokenTamperedSignature(t *testing.T) {
	s := newSessions(config.Auth{SessionSecret: "secret", SessionTTL: time.Hour})

	token := s.token("admin")
	tampered := token[:len(token)-1] + "0"
	if tampered == token {
		tampered = token[:len(token)-1] + "1"
	}
	if s.verify(tampered) {
		t.Error("tampered signature must not verify")
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	a := newSessions(config.Auth{SessionSecret: "secret-a", SessionTTL: time.Hour})
	b := newSessions(config.Auth{SessionSecret: "secret-b", SessionTTL: time.Hour})

	if b.verify(a.token("admin")) {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	s := newSessions(config.Auth{SessionSecret: "secret", SessionTTL: time.Hour})

	stale := time.Now().Add(-2 * time.Hour).UnixMilli()
	encoded := base64.StdEncoding.EncodeToString([]byte("admin:" + strconv.FormatInt(stale, 10)))
	token := encoded + "." + s.sign(encoded)

	if s.verify(token) {
		t.Error("expired token must not verify")
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	s := newSessions(config.Auth{SessionSecret: "secret", SessionTTL: time.Hour})

	for _, token := range []string{"", "nodot", "a.b", "!!!.000"} {
		if s.verify(token) {
			t.Errorf("garbage token %q must not verify", token)
		}
	}
}
