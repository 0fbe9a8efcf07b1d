package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhishekbhonde/new-portfolio/internal/kv"
	"github.com/abhishekbhonde/new-portfolio/internal/localstore"
	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/gorilla/mux"
)

// TestPostsFlags tests that the listing flags are defined
func TestPostsFlags(t *testing.T) {
	for _, name := range []string{"page", "pages", "limit", "popular", "mine", "defaults", "json"} {
		if postsCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag to be defined", name)
		}
	}
	if postsCmd.Flags().ShorthandLookup("n") == nil {
		t.Error("Expected -n shorthand to be defined for --limit")
	}
}

// TestDraftFlagsShared tests that create and edit accept the same flags
func TestDraftFlagsShared(t *testing.T) {
	for _, c := range []string{"title", "content", "file", "preview", "tag", "cover", "cover-file"} {
		if postCreateCmd.Flags().Lookup(c) == nil {
			t.Errorf("create: missing --%s", c)
		}
		if postEditCmd.Flags().Lookup(c) == nil {
			t.Errorf("edit: missing --%s", c)
		}
	}
}

func TestPostArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"show", []string{"default-1"}, true},
		{"show", []string{}, false},
		{"like", []string{"a", "b"}, false},
		{"delete", []string{"b1"}, true},
	}
	cmds := map[string]func([]string) error{
		"show":   func(a []string) error { return postShowCmd.Args(postShowCmd, a) },
		"like":   func(a []string) error { return postLikeCmd.Args(postLikeCmd, a) },
		"delete": func(a []string) error { return postDeleteCmd.Args(postDeleteCmd, a) },
	}
	for _, tc := range tests {
		err := cmds[tc.name](tc.args)
		if (err == nil) != tc.ok {
			t.Errorf("%s %v: err = %v, want ok=%v", tc.name, tc.args, err, tc.ok)
		}
	}
}

// TestCommentAddJoinsWords tests that unquoted comment words are joined
func TestCommentAddJoinsWords(t *testing.T) {
	got, err := commentText([]string{"nice", "post"})
	if err != nil || got != "nice post" {
		t.Fatalf("commentText = %q, %v", got, err)
	}
	if err := commentAddCmd.Args(commentAddCmd, []string{"default-1"}); err == nil {
		t.Error("Expected add with no text to be rejected")
	}
}

func TestCommandGroups(t *testing.T) {
	groups := map[string]string{
		"posts":   "read",
		"post":    "write",
		"comment": "write",
		"auth":    "session",
		"config":  "system",
	}
	for _, c := range rootCmd.Commands() {
		if want, ok := groups[c.Name()]; ok && c.GroupID != want {
			t.Errorf("%s: GroupID = %q, want %q", c.Name(), c.GroupID, want)
		}
	}
}

// fakeBackend serves just enough of the blog API for the CLI flows.
func fakeBackend(t *testing.T, listStatus int) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	reply := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	user := map[string]string{"_id": "u1", "name": "Ada"}

	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		json.NewDecoder(req.Body).Decode(&body)
		if body["password"] != "secret" {
			reply(w, 401, map[string]string{"message": "Invalid credentials"})
			return
		}
		reply(w, 200, map[string]any{"token": "tok-1", "user": user})
	}).Methods("POST")
	r.HandleFunc("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer tok-1" {
			reply(w, 401, map[string]string{"message": "Token is not valid"})
			return
		}
		reply(w, 200, user)
	}).Methods("GET")
	r.HandleFunc("/api/blogs", func(w http.ResponseWriter, req *http.Request) {
		if listStatus != 200 {
			reply(w, listStatus, map[string]string{"message": "Server error"})
			return
		}
		reply(w, 200, map[string]any{"blogs": []any{}, "total": 0})
	}).Methods("GET")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// runCLI executes the root command the way main does.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	defer closeApp()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func openStore(t *testing.T, path string) *localstore.Store {
	t.Helper()
	store, err := kv.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return localstore.New(store)
}

func TestSeedEngagementFlow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := fakeBackend(t, 200)
	dbPath := filepath.Join(t.TempDir(), "folio.db")
	global := []string{"--api-url", srv.URL + "/api", "--store", dbPath}

	err := runCLI(t, append([]string{"post", "like", "default-1"}, global...)...)
	if !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("anonymous like: got %v, want ErrUnauthenticated", err)
	}

	if err := runCLI(t, append([]string{"auth", "login", "--email", "ada@example.com", "--password", "secret"}, global...)...); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := runCLI(t, append([]string{"post", "like", "default-1"}, global...)...); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := runCLI(t, append([]string{"comment", "add", "default-1", "great", "intro"}, global...)...); err != nil {
		t.Fatalf("comment: %v", err)
	}
	err = runCLI(t, append([]string{"post", "delete", "default-1", "--yes"}, global...)...)
	if !errors.Is(err, models.ErrReadOnly) {
		t.Fatalf("delete seed: got %v, want ErrReadOnly", err)
	}

	local := openStore(t, dbPath)
	ctx := context.Background()
	likes, err := local.PostLikes(ctx, "default-1")
	if err != nil || likes.Count != 1 || !likes.Liked {
		t.Fatalf("likes after CLI like: %+v %v", likes, err)
	}
	comments, err := local.Comments(ctx, "default-1")
	if err != nil || len(comments) != 1 || comments[0].Content != "great intro" {
		t.Fatalf("comments after CLI add: %+v %v", comments, err)
	}
	if comments[0].Author.Name != "Ada" {
		t.Fatalf("comment author = %+v", comments[0].Author)
	}
	if tok, _ := local.Token(ctx); tok != "tok-1" {
		t.Fatalf("token = %q", tok)
	}
}

func TestPostsDegradesWhenBackendFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := fakeBackend(t, 500)
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	if err := runCLI(t, "posts", "--api-url", srv.URL+"/api", "--store", dbPath); err != nil {
		t.Fatalf("degraded listing should succeed: %v", err)
	}
}

func TestExpiredTokenIsCleared(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := fakeBackend(t, 200)
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	local := openStore(t, dbPath)
	if err := local.SaveToken(context.Background(), "stale"); err != nil {
		t.Fatal(err)
	}

	if err := runCLI(t, "auth", "status", "--api-url", srv.URL+"/api", "--store", dbPath); err != nil {
		t.Fatalf("status: %v", err)
	}
	if tok, _ := local.Token(context.Background()); tok != "" {
		t.Fatalf("stale token kept: %q", tok)
	}
}

// captureStdout runs fn with os.Stdout redirected and returns what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldOut := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldOut

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestShowJSONReportsErrorAsJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { postShowCmd.Flags().Set("json", "false") })
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	var err error
	out := captureStdout(t, func() {
		err = runCLI(t, "post", "show", "default-9", "--json", "--store", dbPath, "--api-url", "http://127.0.0.1:1/api")
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("show unknown seed: got %v, want ErrNotFound", err)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if jerr := json.Unmarshal([]byte(strings.TrimSpace(out)), &body); jerr != nil {
		t.Fatalf("output is not JSON: %q (%v)", out, jerr)
	}
	if body.Error.Code != "not_found" || !strings.Contains(body.Error.Message, "default-9") {
		t.Fatalf("json error = %+v", body.Error)
	}
}

func TestLoginWithWrongPasswordShowsBackendMessage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := fakeBackend(t, 200)
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	var err error
	out := captureStdout(t, func() {
		err = runCLI(t, "auth", "login", "--email", "ada@example.com", "--password", "wrong",
			"--api-url", srv.URL+"/api", "--store", dbPath)
	})
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("rejected credentials reported as missing session: %v", err)
	}
	if !strings.Contains(out, "Invalid credentials") {
		t.Errorf("backend message missing from output: %q", out)
	}
	if strings.Contains(out, "folio auth login") {
		t.Errorf("login failure should not suggest logging in: %q", out)
	}
}

func TestPostsDefaultsWorksOffline(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { postsCmd.Flags().Set("defaults", "false") })
	dbPath := filepath.Join(t.TempDir(), "folio.db")

	var err error
	out := captureStdout(t, func() {
		err = runCLI(t, "posts", "--defaults", "--api-url", "http://127.0.0.1:1/api", "--store", dbPath)
	})
	if err != nil {
		t.Fatalf("posts --defaults: %v", err)
	}
	if strings.Contains(out, "unreachable") {
		t.Errorf("offline listing contacted the backend: %q", out)
	}
	if n := strings.Count(out, "[default]"); n != 2 {
		t.Errorf("expected 2 default posts, got %d in %q", n, out)
	}
}
