package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// RocketDoc returns a rocket document as served by the API
func RocketDoc(id, name string) string {
	return mustJSON(map[string]any{
		"id":          id,
		"name":        name,
		"active":      true,
		"type":        "rocket",
		"description": name + " is a launch vehicle.",
		"stages":      2,
	})
}

// LaunchpadDoc returns a launchpad document as served by the API
func LaunchpadDoc(id, name string) string {
	return mustJSON(map[string]any{
		"id":        id,
		"name":      name,
		"full_name": name + " Space Launch Complex",
		"region":    "Florida",
		"timezone":  "America/New_York",
		"latitude":  28.5618571,
		"longitude": -80.577366,
		"status":    "active",
	})
}

// LaunchDoc returns a launch document as served by the API. A nil success
// is encoded as null.
func LaunchDoc(id, rocketID, launchpadID, dateUTC string, success *bool) string {
	var details any
	if success != nil && !*success {
		details = "Anomaly during ascent"
	}
	return mustJSON(map[string]any{
		"id":         id,
		"name":       "Mission " + id,
		"rocket":     rocketID,
		"launchpad":  launchpadID,
		"success":    success,
		"details":    details,
		"date_utc":   dateUTC,
		"date_local": "ignored",
		"upcoming":   success == nil,
	})
}

// Bool returns a pointer to b
func Bool(b bool) *bool {
	return &b
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

type fixture struct {
	id   string
	body string
}

// FakeAPI is an in-process stand-in for the SpaceX v4 REST API
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	rockets    []fixture
	launchpads []fixture
	launches   []fixture
	queryDocs  []string
	failures   map[string]int
	delays     map[string]time.Duration
	queries    [][]byte
	requests   map[string]int
}

// NewFakeAPI starts a fake API server. Callers must Close it.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		failures: make(map[string]int),
		delays:   make(map[string]time.Duration),
		requests: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	return f
}

// URL returns the base URL of the fake API
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// Close stops the server
func (f *FakeAPI) Close() {
	f.Server.Close()
}

// AddRocket registers a rocket document
func (f *FakeAPI) AddRocket(id, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rockets = append(f.rockets, fixture{id, body})
}

// AddLaunchpad registers a launchpad document
func (f *FakeAPI) AddLaunchpad(id, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launchpads = append(f.launchpads, fixture{id, body})
}

// AddLaunch registers a launch document. Launches are returned by the query
// endpoint in registration order unless SetQueryDocs overrides them.
func (f *FakeAPI) AddLaunch(id, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, fixture{id, body})
}

// SetQueryDocs sets the raw documents returned by the query endpoint.
// Calling it with no documents makes the query endpoint answer with none.
func (f *FakeAPI) SetQueryDocs(docs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryDocs = append([]string{}, docs...)
}

// Fail makes every request to path answer with status
func (f *FakeAPI) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] = status
}

// Delay holds every request to path for d before answering
func (f *FakeAPI) Delay(path string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[path] = d
}

// Queries returns the decoded bodies of every query request received
func (f *FakeAPI) Queries() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.queries))
	for _, raw := range f.queries {
		var q map[string]any
		if err := json.Unmarshal(raw, &q); err == nil {
			out = append(out, q)
		}
	}
	return out
}

// Requests returns how many requests path received
func (f *FakeAPI) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	status, failing := f.failures[r.URL.Path]
	delay := f.delays[r.URL.Path]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		http.Error(w, `{"error":"injected failure"}`, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodPost && r.URL.Path == "/launches/query" {
		f.serveQuery(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	f.mu.Lock()
	defer f.mu.Unlock()

	var set []fixture
	switch parts[0] {
	case "rockets":
		set = f.rockets
	case "launchpads":
		set = f.launchpads
	case "launches":
		set = f.launches
	default:
		http.NotFound(w, r)
		return
	}

	switch len(parts) {
	case 1:
		bodies := make([]string, len(set))
		for i, fx := range set {
			bodies[i] = fx.body
		}
		fmt.Fprintf(w, "[%s]", strings.Join(bodies, ","))
	case 2:
		for _, fx := range set {
			if fx.id == parts[1] {
				_, _ = io.WriteString(w, fx.body)
				return
			}
		}
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeAPI) serveQuery(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, body)

	docs := f.queryDocs
	if docs == nil {
		for _, fx := range f.launches {
			docs = append(docs, fx.body)
		}
	}
	fmt.Fprintf(w, `{"docs":[%s],"totalDocs":%d}`, strings.Join(docs, ","), len(docs))
}

// WaitForCondition waits for a condition to be true with timeout
func WaitForCondition(condition func() bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for condition")
		case <-ticker.C:
			if condition() {
				return nil
			}
		}
	}
}
