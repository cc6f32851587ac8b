package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	ferrors "github.com/josz009/folio/pkg/errors"
	"github.com/josz009/folio/pkg/integrations/github"
	"github.com/josz009/folio/pkg/portfolio"
	"github.com/josz009/folio/pkg/siem"
	"github.com/josz009/folio/pkg/terminal"
)

const maxTerminalBody = 4 << 10

type streamMessage struct {
	Type    string        `json:"type"`
	View    string        `json:"view,omitempty"`
	ID      string        `json:"id,omitempty"`
	Time    string        `json:"time,omitempty"`
	Event   *siem.Event   `json:"event,omitempty"`
	Events  []siem.Event  `json:"events,omitempty"`
	Summary *siem.Summary `json:"summary,omitempty"`
}

type eventsResponse struct {
	View     string       `json:"view"`
	Title    string       `json:"title"`
	Capacity int          `json:"capacity"`
	State    string       `json:"state"`
	Events   []siem.Event `json:"events"`
	Summary  siem.Summary `json:"summary"`
}

type reposResponse struct {
	Username     string                    `json:"username"`
	Repositories []github.Repository       `json:"repositories"`
	Projects     []portfolio.ProjectRecord `json:"projects"`
}

type terminalRequest struct {
	Command string `json:"command"`
}

type terminalResponse struct {
	Input  string         `json:"input"`
	Echo   string         `json:"echo"`
	Lines  []string       `json:"lines"`
	Found  bool           `json:"found"`
	Effect map[string]any `json:"effect"`
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	views := make(map[string]string, len(s.order))
	for _, name := range s.order {
		views[name] = s.views[name].sim.State().String()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"views":     views,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog)
}

// handleFeatured serves one curated project, matched on title without
// regard to case.
func (s *Server) handleFeatured(w http.ResponseWriter, req *http.Request) {
	title := chi.URLParam(req, "title")
	if t, err := url.PathUnescape(title); err == nil {
		title = t
	}
	p, ok := s.opts.Catalog.Project(strings.TrimSpace(title))
	if !ok {
		writeErr(w, ferrors.New(ferrors.ErrCodeNotFound, "no featured project titled %q", title))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjects(w http.ResponseWriter, req *http.Request) {
	user := s.username(req)
	if err := ferrors.ValidateUsername(user); err != nil {
		writeErr(w, err)
		return
	}
	refresh, _ := strconv.ParseBool(req.URL.Query().Get("refresh"))

	if !refresh {
		if snap, ok := s.cachedSnapshot(user); ok {
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}

	snap, err := s.opts.Loader.Load(req.Context(), user, refresh)
	if err != nil {
		// Client went away; nothing to write.
		return
	}
	if !snap.Degraded {
		s.storeSnapshot(user, snap)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRepos(w http.ResponseWriter, req *http.Request) {
	if s.opts.Lister == nil {
		writeErr(w, ferrors.New(ferrors.ErrCodeUnsupported, "no repository source configured"))
		return
	}
	user := s.username(req)
	refresh, _ := strconv.ParseBool(req.URL.Query().Get("refresh"))

	repos, err := s.opts.Lister.ListRepositories(req.Context(), user, refresh)
	if err != nil {
		s.logger.Warn("repository listing failed", "user", user, "error", err)
		writeErr(w, err)
		return
	}
	now := time.Now()
	projects := make([]portfolio.ProjectRecord, len(repos))
	for i, r := range repos {
		projects[i] = portfolio.MapRepository(r, now)
	}
	if repos == nil {
		repos = []github.Repository{}
	}
	writeJSON(w, http.StatusOK, reposResponse{Username: user, Repositories: repos, Projects: projects})
}

func (s *Server) handleEvents(w http.ResponseWriter, req *http.Request) {
	vs, view, err := s.view(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	events := vs.sim.Events()
	writeJSON(w, http.StatusOK, eventsResponse{
		View:     view.Name,
		Title:    view.Title,
		Capacity: view.Capacity,
		State:    vs.sim.State().String(),
		Events:   events,
		Summary:  siem.Summarize(events),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, req *http.Request) {
	vs, view, err := s.view(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newWSClient(conn)
	events := vs.sim.Events()
	summary := siem.Summarize(events)
	hello := mustJSON(streamMessage{Type: "snapshot", View: view.Name, ID: client.ID(), Events: events, Summary: &summary})
	if err := client.Send(hello); err != nil {
		client.Close()
		return
	}
	if !vs.hub.Register(client) {
		client.Close()
		return
	}
	s.metrics.streamClients.WithLabelValues(view.Name).Inc()

	go func() {
		defer func() {
			vs.hub.Unregister(client)
			s.metrics.streamClients.WithLabelValues(view.Name).Dec()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleTerminal(w http.ResponseWriter, req *http.Request) {
	var body terminalRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxTerminalBody))
	if err := dec.Decode(&body); err != nil {
		writeErr(w, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	res := s.interp.Execute(body.Command)
	lines := res.Lines
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, terminalResponse{
		Input:  res.Input,
		Echo:   res.Echo,
		Lines:  lines,
		Found:  res.Found,
		Effect: effectJSON(res.Effect),
	})
}

func (s *Server) username(req *http.Request) string {
	if u := req.URL.Query().Get("user"); u != "" {
		return u
	}
	return s.opts.Username
}

func (s *Server) view(req *http.Request) (*viewState, siem.View, error) {
	name := strings.ToLower(req.URL.Query().Get("view"))
	if name == "" {
		name = s.order[0]
	}
	vs, ok := s.views[name]
	if !ok {
		return nil, siem.View{}, ferrors.New(ferrors.ErrCodeInvalidView, "unknown view %q", name)
	}
	return vs, vs.sim.View(), nil
}

func (s *Server) cachedSnapshot(user string) (*portfolio.Snapshot, bool) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	c, ok := s.snaps[user]
	if !ok || time.Now().After(c.expires) {
		return nil, false
	}
	return c.snap, true
}

func (s *Server) storeSnapshot(user string, snap *portfolio.Snapshot) {
	s.snapMu.Lock()
	s.snaps[user] = cachedSnapshot{snap: snap, expires: time.Now().Add(s.opts.SnapshotTTL)}
	s.snapMu.Unlock()
}

func effectJSON(e terminal.Effect) map[string]any {
	out := map[string]any{"kind": "none"}
	if e == nil {
		return out
	}
	out["kind"] = e.Kind()
	switch v := e.(type) {
	case terminal.OpenLink:
		out["url"] = v.URL
	case terminal.Download:
		out["url"] = v.URL
		out["filename"] = v.Filename
		out["open"] = v.Open
	case terminal.ScrollTo:
		out["section"] = v.Section
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error": ferrors.UserMessage(err),
		"code":  string(ferrors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch ferrors.GetCode(err) {
	case ferrors.ErrCodeInvalidInput, ferrors.ErrCodeInvalidUsername,
		ferrors.ErrCodeInvalidFormat, ferrors.ErrCodeInvalidView:
		return http.StatusBadRequest
	case ferrors.ErrCodeNotFound, ferrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case ferrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ferrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case ferrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
