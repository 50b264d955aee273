package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/tasksafe/backend/internal/api"
	"github.com/tasksafe/backend/internal/config"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
	"github.com/tasksafe/backend/internal/email"
)

// capturedSender records dispatched messages and can be told to fail.
type capturedSender struct {
	mu       sync.Mutex
	messages []email.Message
	fail     bool
}

func (s *capturedSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unreachable")
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *capturedSender) last(t *testing.T) email.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) == 0 {
		t.Fatal("no email was dispatched")
	}
	return s.messages[len(s.messages)-1]
}

type testEnv struct {
	server   *httptest.Server
	database *db.Database
	sender   *capturedSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sender := &capturedSender{}
	cfg := &config.Config{
		BaseURL:     "http://localhost:5000",
		CORSOrigins: []string{"*"},
		Env:         "development",
	}
	server := httptest.NewServer(api.NewRouter(database, sender, cfg))
	t.Cleanup(server.Close)

	return &testEnv{server: server, database: database, sender: sender}
}

// newClient returns an http client with its own cookie jar, i.e. one browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	decoded := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

// decodeJSON decodes a response body into v; the caller owns closing the body.
func decodeJSON(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func login(t *testing.T, env *testEnv, client *http.Client, emailAddr, password string) {
	t.Helper()
	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/admin/login", map[string]string{
		"email":    emailAddr,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s failed with %d: %v", emailAddr, resp.StatusCode, body)
	}
}

func seedVideo(t *testing.T, env *testEnv, title, tag string, active bool) *models.Video {
	t.Helper()
	v := &models.Video{
		Title:        title,
		Description:  "desc",
		ThumbnailURL: "https://example.com/t.jpg",
		VideoURL:     "https://example.com/v",
		Duration:     "8:45",
		Category:     "Safety",
		CompanyTag:   tag,
		IsActive:     active,
	}
	if err := env.database.CreateVideo(v); err != nil {
		t.Fatalf("CreateVideo failed: %v", err)
	}
	return v
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

func tokenFromEmail(t *testing.T, msg email.Message) string {
	t.Helper()
	m := tokenPattern.FindStringSubmatch(msg.Text)
	if m == nil {
		t.Fatalf("no token in dispatched email:\n%s", msg.Text)
	}
	return m[1]
}

func mustStatus(t *testing.T, resp *http.Response, want int, body map[string]interface{}) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d (%v)", want, resp.StatusCode, body)
	}
}

func asString(t *testing.T, body map[string]interface{}, path ...string) string {
	t.Helper()
	var cur interface{} = body
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			t.Fatalf("no object at %v in %v", path, body)
		}
		cur = m[key]
	}
	s, ok := cur.(string)
	if !ok {
		t.Fatalf("no string at %v in %v", path, body)
	}
	return s
}

func listURL(env *testEnv, format string, args ...interface{}) string {
	return env.server.URL + fmt.Sprintf(format, args...)
}
