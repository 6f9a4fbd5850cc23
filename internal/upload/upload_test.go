package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tempoclerk/tempoclerk/internal"
)

var testDay = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

func TestWorklogFromEntry(t *testing.T) {
	e := internal.CreateTestEntry(testDay.Add(9*time.Hour+7*time.Minute), 52*time.Minute, "Citrix Viewer", "MVW Dashboard", "CLIENTA-100")

	w := WorklogFromEntry(e, internal.Rounding15Min)

	if w.IssueKey != "CLIENTA-100" {
		t.Errorf("issue key = %q", w.IssueKey)
	}
	if w.TimeSpentSeconds != 45*60 {
		t.Errorf("time spent = %d, want %d (52m billed as 45m)", w.TimeSpentSeconds, 45*60)
	}
	if w.StartDate != "2024-03-14" || w.StartTime != "09:07:00" {
		t.Errorf("start = %s %s, want raw 2024-03-14 09:07:00", w.StartDate, w.StartTime)
	}
	if w.Description == "" {
		t.Error("description should carry over")
	}
}

func TestClient_Upload(t *testing.T) {
	var mu sync.Mutex
	var received []Worklog
	var auths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/worklogs" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var worklog Worklog
		if err := json.NewDecoder(r.Body).Decode(&worklog); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		mu.Lock()
		received = append(received, worklog)
		auths = append(auths, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	entries := []*internal.Entry{
		internal.CreateTestEntry(testDay.Add(9*time.Hour), 45*time.Minute, "Citrix Viewer", "MVW Dashboard", "CLIENTA-100"),
		internal.CreateTestEntry(testDay.Add(10*time.Hour), 30*time.Minute, "Spotify", "Focus mix", ""),
		internal.CreateTestEntry(testDay.Add(11*time.Hour), 30*time.Minute, "Terminal", "vim notes.md", "CLIENTA-200"),
	}

	client := NewClient(server.URL, "secret-token")
	uploaded, err := client.Upload(context.Background(), entries, internal.Rounding15Min)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if uploaded != 2 {
		t.Errorf("uploaded = %d, want 2 (unassigned entry skipped)", uploaded)
	}

	if len(received) != 2 {
		t.Fatalf("server received %d worklogs, want 2", len(received))
	}
	if received[0].IssueKey != "CLIENTA-100" || received[1].IssueKey != "CLIENTA-200" {
		t.Errorf("received keys = %s, %s", received[0].IssueKey, received[1].IssueKey)
	}
	for _, auth := range auths {
		if auth != "Bearer secret-token" {
			t.Errorf("authorization = %q, want bearer token", auth)
		}
	}
}

func TestClient_UploadSkipsZeroDuration(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Seven minutes bills as zero under 15min rounding.
	entries := []*internal.Entry{
		internal.CreateTestEntry(testDay.Add(9*time.Hour), 7*time.Minute, "Chrome", "Docs", "CLIENTA-100"),
	}

	client := NewClient(server.URL, "token")
	uploaded, err := client.Upload(context.Background(), entries, internal.Rounding15Min)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if uploaded != 0 || calls != 0 {
		t.Errorf("uploaded = %d, calls = %d, want 0 and 0", uploaded, calls)
	}
}

func TestClient_UploadCollectsFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	entries := []*internal.Entry{
		internal.CreateTestEntry(testDay.Add(9*time.Hour), 30*time.Minute, "Chrome", "Docs", "CLIENTA-100"),
		internal.CreateTestEntry(testDay.Add(10*time.Hour), 30*time.Minute, "Terminal", "vim", "CLIENTA-200"),
	}

	client := NewClient(server.URL, "token")
	uploaded, err := client.Upload(context.Background(), entries, internal.RoundingNone)

	if uploaded != 1 {
		t.Errorf("uploaded = %d, want 1 (failure does not stop the batch)", uploaded)
	}
	if err == nil {
		t.Fatal("Upload() should report the failed worklog")
	}

	var ue *Error
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if ue.IssueKey != "CLIENTA-100" || ue.Status != http.StatusForbidden {
		t.Errorf("error = %+v, want CLIENTA-100 status 403", ue)
	}
}

func TestNewClient_DefaultURL(t *testing.T) {
	client := NewClient("", "token")
	if client.baseURL != DefaultAPIURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultAPIURL)
	}

	client = NewClient("https://tempo.example.com/api/", "token")
	if client.baseURL != "https://tempo.example.com/api" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
}
