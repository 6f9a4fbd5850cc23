package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tempoclerk/tempoclerk/internal"
)

// DefaultAPIURL is the ledger's hosted API endpoint.
const DefaultAPIURL = "https://api.tempo.io/4"

// Worklog is the ledger's worklog creation payload. This shape is the
// boundary of our responsibility: transport failures are reported upward,
// never retried here.
type Worklog struct {
	IssueKey         string `json:"issueKey"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
	StartDate        string `json:"startDate"`
	StartTime        string `json:"startTime"`
	Description      string `json:"description"`
}

// WorklogFromEntry maps a finalized entry into the worklog payload, with the
// billed duration rounded per policy.
func WorklogFromEntry(e *internal.Entry, policy internal.RoundingPolicy) Worklog {
	return Worklog{
		IssueKey:         e.TaskKey,
		TimeSpentSeconds: int(e.RoundedDuration(policy).Seconds()),
		StartDate:        e.Start.Format("2006-01-02"),
		StartTime:        e.Start.Format("15:04:05"),
		Description:      e.Description,
	}
}

// Error wraps a single failed worklog submission.
type Error struct {
	IssueKey string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upload failed for %s: status %d", e.IssueKey, e.Status)
	}
	return fmt.Sprintf("upload failed for %s: %v", e.IssueKey, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client submits finalized entries to the timesheet ledger.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an upload client. An empty baseURL uses the hosted API.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload submits one worklog per assigned entry. Unassigned and
// zero-duration entries are skipped. Failures are collected and returned
// alongside the count of successful submissions; nothing is retried.
func (c *Client) Upload(ctx context.Context, entries []*internal.Entry, policy internal.RoundingPolicy) (int, error) {
	var errs []error
	uploaded := 0

	for _, e := range entries {
		if e.Unassigned() {
			continue
		}
		worklog := WorklogFromEntry(e, policy)
		if worklog.TimeSpentSeconds <= 0 {
			continue
		}

		if err := c.post(ctx, worklog); err != nil {
			internal.LogError("Failed to upload %s: %v", worklog.IssueKey, err)
			errs = append(errs, err)
			continue
		}

		internal.LogDebug("Uploaded %s (%ds)", worklog.IssueKey, worklog.TimeSpentSeconds)
		uploaded++
	}

	return uploaded, errors.Join(errs...)
}

func (c *Client) post(ctx context.Context, worklog Worklog) error {
	payload, err := json.Marshal(worklog)
	if err != nil {
		return &Error{IssueKey: worklog.IssueKey, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/worklogs", bytes.NewReader(payload))
	if err != nil {
		return &Error{IssueKey: worklog.IssueKey, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{IssueKey: worklog.IssueKey, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &Error{IssueKey: worklog.IssueKey, Status: resp.StatusCode}
	}

	return nil
}
