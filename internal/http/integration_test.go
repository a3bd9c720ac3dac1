package httpapp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/newsbrief/newsbrief/internal/client"
)

// fakeUpstream is a stand-in news-search API that counts calls.
type fakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int64
	status atomic.Int64
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.status.Store(http.StatusOK)
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		status := int(f.status.Load())
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","articles":[{"title":"first"},{"title":"second"}]}`))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newIntegrationServer(t *testing.T) (*httptest.Server, *fakeUpstream) {
	t.Helper()
	upstream := newFakeUpstream(t)
	server := newTestServer(t, upstream.server.URL)
	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)
	return ts, upstream
}

func TestSignupAndDuplicate(t *testing.T) {
	ts, _ := newIntegrationServer(t)
	c := client.New(ts.URL)

	if err := c.Signup("A", "a@x.com", "pw123456", nil); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := c.Signup("A", "a@x.com", "pw123456", nil); err != client.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginShapes(t *testing.T) {
	ts, _ := newIntegrationServer(t)
	c := client.New(ts.URL)
	if err := c.Signup("A", "a@x.com", "pw123456", nil); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := c.Login("a@x.com", "pw123456"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token == "" {
		t.Fatalf("expected non-empty token")
	}

	// Wrong password and unknown email must produce identical bodies so the
	// endpoint does not leak which accounts exist.
	wrongPw := rawLogin(t, ts.URL, "a@x.com", "nope")
	unknown := rawLogin(t, ts.URL, "ghost@x.com", "nope")
	if wrongPw.status != http.StatusUnauthorized || unknown.status != http.StatusUnauthorized {
		t.Fatalf("expected 401s, got %d and %d", wrongPw.status, unknown.status)
	}
	if !bytes.Equal(wrongPw.body, unknown.body) {
		t.Fatalf("login failure bodies differ:\n%s\n%s", wrongPw.body, unknown.body)
	}
}

type rawResponse struct {
	status int
	body   []byte
}

func rawLogin(t *testing.T, baseURL, email, password string) rawResponse {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(baseURL+"/users/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return rawResponse{status: resp.StatusCode, body: body}
}

func TestPreferencesRoundTrip(t *testing.T) {
	ts, _ := newIntegrationServer(t)
	helper := client.NewTestHelper(ts.URL)

	c, err := helper.CreateAuthenticatedClient("A", "a@x.com", "pw123456", []string{"tech"})
	if err != nil {
		t.Fatalf("authenticated client: %v", err)
	}

	prefs, err := c.GetPreferences()
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if !reflect.DeepEqual(prefs, []string{"tech"}) {
		t.Fatalf("unexpected preferences %v", prefs)
	}

	updated, err := c.UpdatePreferences([]string{"sports", "science"})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if !reflect.DeepEqual(updated, []string{"sports", "science"}) {
		t.Fatalf("unexpected updated preferences %v", updated)
	}

	prefs, err = c.GetPreferences()
	if err != nil {
		t.Fatalf("get preferences: %v", err)
	}
	if !reflect.DeepEqual(prefs, []string{"sports", "science"}) {
		t.Fatalf("update did not persist: %v", prefs)
	}
}

func TestUpdatePreferencesRequiresArray(t *testing.T) {
	ts, _ := newIntegrationServer(t)
	helper := client.NewTestHelper(ts.URL)
	token, err := helper.GetToken("A", "a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/users/preferences",
		bytes.NewReader([]byte(`{"preferences":"tech"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNewsCacheHit(t *testing.T) {
	ts, upstream := newIntegrationServer(t)
	helper := client.NewTestHelper(ts.URL)

	c, err := helper.CreateAuthenticatedClient("A", "a@x.com", "pw123456", []string{"tech"})
	if err != nil {
		t.Fatalf("authenticated client: %v", err)
	}

	first, err := c.GetNews()
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(first))
	}
	if got := upstream.calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}

	second, err := c.GetNews()
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached feed differs from the original")
	}
	if got := upstream.calls.Load(); got != 1 {
		t.Fatalf("cache hit still called upstream: %d calls", got)
	}
}

func TestNewsDegradesOnUpstreamFailure(t *testing.T) {
	ts, upstream := newIntegrationServer(t)
	upstream.status.Store(http.StatusUnauthorized)
	helper := client.NewTestHelper(ts.URL)

	c, err := helper.CreateAuthenticatedClient("A", "a@x.com", "pw123456", []string{"tech"})
	if err != nil {
		t.Fatalf("authenticated client: %v", err)
	}

	news, err := c.GetNews()
	if err != nil {
		t.Fatalf("news must stay 200 on upstream failure: %v", err)
	}
	if len(news) != 0 {
		t.Fatalf("expected empty feed, got %d articles", len(news))
	}

	// The failure is not cached: once the upstream recovers the next call
	// goes out again and returns articles.
	upstream.status.Store(http.StatusOK)
	news, err = c.GetNews()
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("expected fresh articles after recovery, got %d", len(news))
	}
}

func TestNewsLegacyPreferenceFormat(t *testing.T) {
	ts, upstream := newIntegrationServer(t)
	helper := client.NewTestHelper(ts.URL)

	c, err := helper.CreateAuthenticatedClient("A", "a@x.com", "pw123456", []string{"tech, sports"})
	if err != nil {
		t.Fatalf("authenticated client: %v", err)
	}

	if _, err := c.GetNews(); err != nil {
		t.Fatalf("get news: %v", err)
	}
	if got := upstream.calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}

	// Reordering the same set must land on the same cache entry.
	if _, err := c.UpdatePreferences([]string{"sports", "tech"}); err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if _, err := c.GetNews(); err != nil {
		t.Fatalf("get news: %v", err)
	}
	if got := upstream.calls.Load(); got != 1 {
		t.Fatalf("reordered set missed the cache: %d upstream calls", got)
	}
}
