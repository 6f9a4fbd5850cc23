package internal

import (
	"strings"
	"time"
)

// Confidence describes how a block's task assignment was obtained.
type Confidence int

const (
	// ConfidenceNone means no rule or pattern matched.
	ConfidenceNone Confidence = iota
	// ConfidenceDefault means the configured default task was applied as a
	// fallback. Distinct from a genuine match so review can surface it.
	ConfidenceDefault
	// ConfidenceLearned means a promoted learned pattern matched.
	ConfidenceLearned
	// ConfidenceExplicit means an explicit config rule matched.
	ConfidenceExplicit
	// ConfidenceUser means the user confirmed or set the task during review.
	ConfidenceUser
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceDefault:
		return "default"
	case ConfidenceLearned:
		return "learned"
	case ConfidenceExplicit:
		return "explicit"
	case ConfidenceUser:
		return "user"
	default:
		return "none"
	}
}

// Observation is a single activity snapshot recorded by the capture daemon.
type Observation struct {
	Timestamp time.Time
	App       string
	Title     string
	URL       string
	OpenApps  []string
}

// Block is a contiguous span of time attributed to one dominant application,
// derived from consecutive observations. Blocks are transient; they are never
// persisted.
type Block struct {
	Start time.Time
	End   time.Time
	App   string // dominant application, from the block's first observation
	Title string // representative title, from the block's first observation
	URL   string
	// Unique titles and URLs seen across the block, capped at 5 each.
	Titles []string
	URLs   []string
	// Other applications open while the block was active, capped at 5.
	OpenApps []string
	Count    int // observations merged into this block
}

// Duration returns the block's span.
func (b *Block) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Extend absorbs one more observation into the block.
func (b *Block) Extend(o Observation) {
	b.End = o.Timestamp
	if o.Title != "" && len(b.Titles) < 5 && !containsString(b.Titles, o.Title) {
		b.Titles = append(b.Titles, o.Title)
	}
	if o.URL != "" && len(b.URLs) < 5 && !containsString(b.URLs, o.URL) {
		b.URLs = append(b.URLs, o.URL)
	}
	for _, app := range o.OpenApps {
		if len(b.OpenApps) >= 5 {
			break
		}
		if !containsString(b.OpenApps, app) {
			b.OpenApps = append(b.OpenApps, app)
		}
	}
	b.Count++
}

// Task is a billable task a block can be assigned to.
type Task struct {
	Key    string
	Name   string
	Client string
}

// Rule is an explicit matching rule from configuration. Rules are
// order-sensitive: the first matching rule wins.
type Rule struct {
	AppContains   string
	AppEquals     string
	TitleContains string
	URLContains   string
	Task          Task
}

// Matches reports whether every predicate on the rule holds against the given
// app, title and URL. Matching is case-insensitive substring containment.
func (r *Rule) Matches(app, title, url string) bool {
	app = strings.ToLower(app)
	title = strings.ToLower(title)
	url = strings.ToLower(url)

	if r.AppContains != "" && !strings.Contains(app, strings.ToLower(r.AppContains)) {
		return false
	}
	if r.AppEquals != "" && strings.ToLower(r.AppEquals) != app {
		return false
	}
	if r.TitleContains != "" && !strings.Contains(title, strings.ToLower(r.TitleContains)) {
		return false
	}
	if r.URLContains != "" && !strings.Contains(url, strings.ToLower(r.URLContains)) {
		return false
	}
	return true
}

// Entry is a reviewable timesheet entry derived from a block. Start and End
// stay raw; rounding only affects the billed duration, so entries never
// overlap after rounding.
type Entry struct {
	Start       time.Time
	End         time.Time
	App         string
	Title       string
	SourceApps  []string
	TaskKey     string
	TaskName    string
	Client      string
	Confidence  Confidence
	Description string
}

// Duration returns the raw (unrounded) duration of the entry.
func (e *Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Unassigned reports whether the entry has no task yet.
func (e *Entry) Unassigned() bool {
	return e.TaskKey == ""
}

// TimeRange returns the entry's span formatted as HH:MM-HH:MM.
func (e *Entry) TimeRange() string {
	return e.Start.Format("15:04") + "-" + e.End.Format("15:04")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
