package platform

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

type graphCall struct {
	Method string
	Path   string
	Form   url.Values
	JSON   map[string]any
}

// fakeGraph imitates the parts of the Graph API the drivers use and records
// every call in arrival order.
type fakeGraph struct {
	mu              sync.Mutex
	calls           []graphCall
	seq             int
	statuses        []string
	publishFailures int
	publishStatus   int
	failPhotoAt     int
	photoCount      int
	srv             *httptest.Server
}

func newFakeGraph(t *testing.T) *fakeGraph {
	t.Helper()
	f := &fakeGraph{publishStatus: http.StatusInternalServerError}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGraph) client() *GraphClient {
	return NewGraphClient(f.srv.URL, "v19.0", 5*time.Second, f.srv.Client())
}

func (f *fakeGraph) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := graphCall{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/v19.0/")}
	if r.Method == http.MethodPost {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			_ = json.NewDecoder(r.Body).Decode(&call.JSON)
		} else {
			_ = r.ParseForm()
			call.Form = r.PostForm
		}
	}
	f.calls = append(f.calls, call)

	switch {
	case r.Method == http.MethodGet:
		status := "FINISHED"
		if len(f.statuses) > 0 {
			status = f.statuses[0]
			if len(f.statuses) > 1 {
				f.statuses = f.statuses[1:]
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status_code": status, "id": call.Path})
	case strings.HasSuffix(call.Path, "/media_publish"):
		if f.publishFailures > 0 {
			f.publishFailures--
			writeJSON(w, f.publishStatus, map[string]any{"error": map[string]any{
				"message": "Media ID is not available", "type": "OAuthException", "code": 9007,
			}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": "ig-post-1"})
	case strings.HasSuffix(call.Path, "/media"):
		f.seq++
		writeJSON(w, http.StatusOK, map[string]string{"id": fmt.Sprintf("c%d", f.seq)})
	case strings.HasSuffix(call.Path, "/photos"):
		f.photoCount++
		if f.failPhotoAt == f.photoCount {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{
				"message": "Invalid image url", "code": 324,
			}})
			return
		}
		f.seq++
		id := fmt.Sprintf("photo%d", f.seq)
		if call.Form.Get("published") == "true" {
			writeJSON(w, http.StatusOK, map[string]string{"id": id, "post_id": "page_" + id})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	case strings.HasSuffix(call.Path, "/feed"):
		writeJSON(w, http.StatusOK, map[string]string{"id": "page_feed_1"})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGraph) Calls() []graphCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]graphCall(nil), f.calls...)
}

func (f *fakeGraph) callsTo(suffix string) []graphCall {
	var out []graphCall
	for _, c := range f.Calls() {
		if strings.HasSuffix(c.Path, suffix) && c.Method == http.MethodPost {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeGraph) gets() int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == http.MethodGet {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func testOptions() Options {
	return Options{
		MaxPollAttempts:      3,
		PollInterval:         time.Millisecond,
		MaxPublishRetries:    2,
		PublishRetryInterval: time.Millisecond,
		MaxCarouselItems:     10,
	}
}
