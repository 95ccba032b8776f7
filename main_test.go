package main

import (
	"compress/gzip"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/config"
)

var noticeIDPattern = regexp.MustCompile(`/notice/([0-9a-f-]{36})/`)

// fakeEndpoint stands in for the post-notice API and keeps every form it receives.
type fakeEndpoint struct {
	mu     sync.Mutex
	forms  []map[string]string
	status int
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get(config.HCType))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	form := make(map[string]string)
	reader := multipart.NewReader(r.Body, params["boundary"])
	for {
		p, err := reader.NextPart()
		if err != nil {
			break
		}
		data, _ := io.ReadAll(p)
		form[p.FormName()] = string(data)
	}

	f.mu.Lock()
	f.forms = append(f.forms, form)
	status := f.status
	f.mu.Unlock()

	w.WriteHeader(status)
}

func (f *fakeEndpoint) received() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.forms...)
}

func newTestServer(t *testing.T, endpoint string) *httptest.Server {
	t.Helper()
	httpLogger = zerolog.Nop()

	cfg := config.Default()
	cfg.Poster.Endpoint = endpoint
	cfg.Poster.Timeout = 5 * time.Second

	srv, err := newServer(cfg, content, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Expected no error building server, got %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

// waitFor polls url until its body contains want.
func waitFor(t *testing.T, url, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, body := get(t, url)
		if strings.Contains(body, want) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected %s to contain %q, last body %s", url, want, body)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func post(t *testing.T, target string, values url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(target, values)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	resp.Body.Close()
	return resp
}

func TestComposeAndSubmit(t *testing.T) {
	api := &fakeEndpoint{status: http.StatusOK}
	apiServer := httptest.NewServer(api)
	defer apiServer.Close()

	ts := newTestServer(t, apiServer.URL)

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 OK, got %d", resp.StatusCode)
	}
	if resp.Header.Get(config.HRequestID) == "" {
		t.Error("Expected a request id header")
	}
	if resp.Header.Get("X-Frame-Options") != "deny" {
		t.Error("Expected secure headers on the page")
	}

	match := noticeIDPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatalf("Expected the page to carry a notice id, got %s", body)
	}
	base := ts.URL + "/notice/" + match[1]

	if resp := post(t, base+"/caption", url.Values{"caption": {"Hello"}}); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 for caption, got %d", resp.StatusCode)
	}
	for field, value := range map[string]string{"text": "Visit", "url": "https://x.com"} {
		if resp := post(t, base+"/buttons/0", url.Values{"field": {field}, "value": {value}}); resp.StatusCode != http.StatusNoContent {
			t.Fatalf("Expected 204 for button %s, got %d", field, resp.StatusCode)
		}
	}

	if resp := post(t, base+"/submit", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for submit, got %d", resp.StatusCode)
	}

	waitFor(t, base+"/status", "Message sent successfully!")

	forms := api.received()
	if len(forms) != 1 {
		t.Fatalf("Expected exactly one post, got %d", len(forms))
	}
	if forms[0]["caption"] != "Hello" {
		t.Errorf("Expected caption 'Hello', got %q", forms[0]["caption"])
	}
	want := `{"inline_keyboard":[[{"text":"Visit","url":"https://x.com"}]]}`
	if forms[0]["reply_markup"] != want {
		t.Errorf("Expected reply_markup %s, got %s", want, forms[0]["reply_markup"])
	}
	if _, ok := forms[0]["photo"]; ok {
		t.Error("Expected no photo part without an image")
	}

	waitFor(t, ts.URL+"/metrics", `notice_composer_submissions_total{outcome="succeeded"} 1`)
	waitFor(t, ts.URL+"/metrics", "notice_composer_drafts_active 1")
}

func TestSubmitFailureShowsStatusCode(t *testing.T) {
	apiServer := httptest.NewServer(&fakeEndpoint{status: http.StatusInternalServerError})
	defer apiServer.Close()

	ts := newTestServer(t, apiServer.URL)

	_, body := get(t, ts.URL+"/")
	base := ts.URL + "/notice/" + noticeIDPattern.FindStringSubmatch(body)[1]

	post(t, base+"/submit", nil)

	waitFor(t, base+"/status", "Sent message failed with error: Request failed with status code 500")
}

func TestStaticAssetsAreCached(t *testing.T) {
	ts := newTestServer(t, "http://notices.invalid/post")

	resp, _ := get(t, ts.URL+"/static/css/composer.css")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", resp.StatusCode)
	}
	etag := resp.Header.Get(config.HETag)
	if etag == "" {
		t.Fatal("Expected an ETag on static assets")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/static/css/composer.css", nil)
	req.Header.Set("If-None-Match", etag)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("Expected 304 Not Modified, got %d", resp.StatusCode)
	}
}

func TestRobots(t *testing.T) {
	ts := newTestServer(t, "http://notices.invalid/post")

	resp, body := get(t, ts.URL+"/robots.txt")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Disallow: /") {
		t.Errorf("Expected robots to disallow crawling, got %q", body)
	}
}

func TestUnknownNotice(t *testing.T) {
	ts := newTestServer(t, "http://notices.invalid/post")

	resp := post(t, ts.URL+"/notice/does-not-exist/caption", url.Values{"caption": {"x"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 Not Found, got %d", resp.StatusCode)
	}
}

func TestPageIsCompressed(t *testing.T) {
	ts := newTestServer(t, "http://notices.invalid/post")

	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Encoding") != "gzip" {
		t.Errorf("Expected gzip encoded page, got %q", resp.Header.Get("Content-Encoding"))
	}
	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("Expected a gzip body, got %v", err)
	}
	body, _ := io.ReadAll(gz)
	if !strings.Contains(string(body), `id="composer"`) {
		t.Errorf("Expected the composer page, got %s", body)
	}
}
