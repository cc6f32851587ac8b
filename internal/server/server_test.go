package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	ferrors "github.com/josz009/folio/pkg/errors"
	"github.com/josz009/folio/pkg/integrations/github"
	"github.com/josz009/folio/pkg/observability"
	"github.com/josz009/folio/pkg/portfolio"
	"github.com/josz009/folio/pkg/siem"
)

type fakeLister struct {
	repos []github.Repository
	err   error
	calls atomic.Int32
}

func (f *fakeLister) ListRepositories(_ context.Context, _ string, _ bool) ([]github.Repository, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return github.Rank(f.repos), nil
}

func strp(s string) *string { return &s }

func fixtureRepos() []github.Repository {
	return []github.Repository{
		{ID: 1, Name: "low-stars", HTMLURL: "https://github.com/x/low-stars", Stars: 1, Language: strp("Go")},
		{ID: 2, Name: "fork", HTMLURL: "https://github.com/x/fork", Fork: true, Stars: 90},
		{ID: 3, Name: "site", HTMLURL: "https://github.com/x/site", Homepage: strp("https://site.dev"), Stars: 0},
		{ID: 4, Name: "popular", HTMLURL: "https://github.com/x/popular", Stars: 50},
	}
}

func testViews() []siem.View {
	return []siem.View{{
		Name:          "dashboard",
		Title:         "Test Console",
		Capacity:      3,
		SeedCount:     2,
		SeedSpacing:   5 * time.Millisecond,
		Interval:      10 * time.Millisecond,
		ClockInterval: 5 * time.Millisecond,
		Templates:     siem.ToolsTemplates,
	}}
}

func newTestServer(t *testing.T, lister portfolio.RepositoryLister) (*Server, *httptest.Server) {
	t.Helper()
	t.Cleanup(observability.Reset)
	opts := Options{
		Username: "octocat",
		Logger:   log.New(io.Discard),
		Views:    testViews(),
	}
	if lister != nil {
		opts.Lister = lister
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Stop()
		ts.Close()
	})
	return s, ts
}

func getJSON(t *testing.T, url string, want int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d, want %d: %s", url, resp.StatusCode, want, body)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var body struct {
		Status string            `json:"status"`
		Views  map[string]string `json:"views"`
	}
	getJSON(t, ts.URL+"/healthz", http.StatusOK, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if body.Views["dashboard"] != "idle" {
		t.Errorf("dashboard state = %q, want idle", body.Views["dashboard"])
	}
}

func TestProfile(t *testing.T) {
	s, ts := newTestServer(t, nil)

	var body struct {
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	}
	getJSON(t, ts.URL+"/api/profile", http.StatusOK, &body)
	if body.Profile.Name != s.opts.Catalog.Profile.Name {
		t.Errorf("name = %q, want %q", body.Profile.Name, s.opts.Catalog.Profile.Name)
	}
}

func TestFeaturedProject(t *testing.T) {
	s, ts := newTestServer(t, nil)
	title := s.opts.Catalog.Featured[0].Title

	var p struct {
		Title     string   `json:"title"`
		TechStack []string `json:"techStack"`
	}
	getJSON(t, ts.URL+"/api/profile/projects/"+url.PathEscape(strings.ToUpper(title)), http.StatusOK, &p)
	if p.Title != title {
		t.Errorf("title = %q, want %q", p.Title, title)
	}
	if len(p.TechStack) == 0 {
		t.Error("tech stack missing")
	}

	var body map[string]string
	getJSON(t, ts.URL+"/api/profile/projects/no-such-project", http.StatusNotFound, &body)
	if body["code"] != string(ferrors.ErrCodeNotFound) {
		t.Errorf("code = %q, want NOT_FOUND", body["code"])
	}
}

func TestProjects_CachesHealthySnapshots(t *testing.T) {
	lister := &fakeLister{repos: fixtureRepos()}
	s, ts := newTestServer(t, lister)

	var snap portfolio.Snapshot
	getJSON(t, ts.URL+"/api/projects", http.StatusOK, &snap)
	if snap.Degraded {
		t.Error("snapshot degraded")
	}
	if snap.Username != "octocat" {
		t.Errorf("username = %q", snap.Username)
	}
	if got, want := len(snap.Projects), len(s.opts.Catalog.Curated()); got != want {
		t.Errorf("projects = %d, want %d", got, want)
	}
	if len(snap.Repositories) != 3 {
		t.Fatalf("repositories = %d, want 3 (fork filtered)", len(snap.Repositories))
	}
	if snap.Repositories[0].Name != "site" {
		t.Errorf("first repository = %q, want site", snap.Repositories[0].Name)
	}

	getJSON(t, ts.URL+"/api/projects", http.StatusOK, &snap)
	if n := lister.calls.Load(); n != 1 {
		t.Errorf("lister calls after cached read = %d, want 1", n)
	}

	getJSON(t, ts.URL+"/api/projects?refresh=true", http.StatusOK, &snap)
	if n := lister.calls.Load(); n != 2 {
		t.Errorf("lister calls after refresh = %d, want 2", n)
	}
}

func TestProjects_DegradedNotCached(t *testing.T) {
	lister := &fakeLister{err: ferrors.New(ferrors.ErrCodeNetwork, "upstream down")}
	_, ts := newTestServer(t, lister)

	var snap portfolio.Snapshot
	getJSON(t, ts.URL+"/api/projects", http.StatusOK, &snap)
	if !snap.Degraded {
		t.Error("expected degraded snapshot")
	}
	if len(snap.Projects) == 0 {
		t.Error("degraded snapshot lost curated projects")
	}
	getJSON(t, ts.URL+"/api/projects", http.StatusOK, &snap)
	if n := lister.calls.Load(); n != 2 {
		t.Errorf("lister calls = %d, want 2", n)
	}
}

func TestProjects_InvalidUser(t *testing.T) {
	_, ts := newTestServer(t, &fakeLister{})

	var body map[string]string
	getJSON(t, ts.URL+"/api/projects?user=-bad-", http.StatusBadRequest, &body)
	if body["code"] != string(ferrors.ErrCodeInvalidUsername) {
		t.Errorf("code = %q", body["code"])
	}
}

func TestRepos(t *testing.T) {
	tests := []struct {
		name     string
		lister   portfolio.RepositoryLister
		status   int
		wantCode string
	}{
		{"ok", &fakeLister{repos: fixtureRepos()}, http.StatusOK, ""},
		{"upstream failure", &fakeLister{err: ferrors.New(ferrors.ErrCodeNetwork, "boom")}, http.StatusBadGateway, "NETWORK_ERROR"},
		{"no source", nil, http.StatusNotImplemented, "UNSUPPORTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, tt.lister)
			if tt.status != http.StatusOK {
				var body map[string]string
				getJSON(t, ts.URL+"/api/repos", tt.status, &body)
				if body["code"] != tt.wantCode {
					t.Errorf("code = %q, want %q", body["code"], tt.wantCode)
				}
				return
			}
			var body reposResponse
			getJSON(t, ts.URL+"/api/repos", http.StatusOK, &body)
			if len(body.Repositories) != 3 || len(body.Projects) != 3 {
				t.Fatalf("got %d repos, %d projects", len(body.Repositories), len(body.Projects))
			}
			if body.Projects[0].Title != "Site" {
				t.Errorf("first project title = %q, want Site", body.Projects[0].Title)
			}
		})
	}
}

func TestEvents(t *testing.T) {
	s, ts := newTestServer(t, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var body eventsResponse
	waitFor(t, func() bool {
		getJSON(t, ts.URL+"/api/events", http.StatusOK, &body)
		return len(body.Events) == 3
	})
	if body.View != "dashboard" || body.Title != "Test Console" || body.Capacity != 3 {
		t.Errorf("unexpected header: %+v", body)
	}
	if body.State != "running" {
		t.Errorf("state = %q", body.State)
	}
	total := 0
	for _, n := range body.Summary.BySeverity {
		total += n
	}
	if total != 3 {
		t.Errorf("summary counts %d events, want 3", total)
	}

	var errBody map[string]string
	getJSON(t, ts.URL+"/api/events?view=nope", http.StatusBadRequest, &errBody)
	if errBody["code"] != "INVALID_VIEW" {
		t.Errorf("code = %q", errBody["code"])
	}
}

func TestStream(t *testing.T) {
	s, ts := newTestServer(t, nil)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events/stream?view=dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello streamMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if hello.Type != "snapshot" || hello.View != "dashboard" || hello.ID == "" {
		t.Errorf("unexpected hello: %+v", hello)
	}

	sawEvent, sawTick := false, false
	for !sawEvent || !sawTick {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case "event":
			if msg.Event == nil || msg.Event.ID == "" {
				t.Fatalf("event message without event: %+v", msg)
			}
			sawEvent = true
		case "tick":
			sawTick = true
		}
	}

	vs := s.views["dashboard"]
	waitFor(t, func() bool { return vs.hub.Len() == 1 })
	s.Stop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				t.Errorf("expected normal closure, got %v", err)
			}
			break
		}
	}
}

func TestTerminal(t *testing.T) {
	_, ts := newTestServer(t, nil)

	post := func(body string) *http.Response {
		resp, err := http.Post(ts.URL+"/api/terminal", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		return resp
	}

	resp := post(`{"command":"  RESUME "}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res terminalResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Effect["kind"] != "download" || res.Effect["open"] != true {
		t.Errorf("unexpected result: %+v", res)
	}

	resp = post(`{"command":"sudo"}`)
	defer resp.Body.Close()
	res = terminalResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Found || len(res.Lines) == 0 || !strings.Contains(res.Lines[0], "Command not found: sudo") {
		t.Errorf("unexpected result: %+v", res)
	}

	resp = post(`not json`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad body status = %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	getJSON(t, ts.URL+"/healthz", http.StatusOK, nil)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `folio_http_requests_total{method="GET",route="/healthz",status="200"} 1`) {
		t.Errorf("metrics missing request counter:\n%s", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code ferrors.Code
		want int
	}{
		{ferrors.ErrCodeInvalidInput, http.StatusBadRequest},
		{ferrors.ErrCodeInvalidView, http.StatusBadRequest},
		{ferrors.ErrCodeFileNotFound, http.StatusNotFound},
		{ferrors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{ferrors.ErrCodeNetwork, http.StatusBadGateway},
		{ferrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(ferrors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
