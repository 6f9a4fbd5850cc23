package internal

import (
	"sort"
	"time"
)

// Match is the matcher's verdict for one block. A zero Match means
// unassigned.
type Match struct {
	Task       Task
	Confidence Confidence
}

// Unassigned reports whether no rule or pattern produced a task.
func (m Match) Unassigned() bool {
	return m.Task.Key == ""
}

// Matcher assigns tasks to blocks by evaluating a single ordered rule list:
// explicit config rules in written order, then promoted learned patterns by
// descending usage. First match wins. Matching is pure; it never mutates
// rule or pattern state.
type Matcher struct {
	rules       []Rule
	promoted    []*LearnedPattern
	defaultTask *Task
}

// NewMatcher builds a matcher from the config snapshot and the loaded
// pattern set. Patterns below the promotion threshold are left out; they are
// candidates, not rules, until enough corrections accumulate.
func NewMatcher(cfg *Config, set *PatternSet) *Matcher {
	m := &Matcher{rules: cfg.Rules()}

	if task, ok := cfg.Default(); ok {
		m.defaultTask = &task
	}

	for _, p := range set.Patterns {
		if p.Promoted(cfg.PromotionThreshold) {
			m.promoted = append(m.promoted, p)
		}
	}
	sort.SliceStable(m.promoted, func(i, j int) bool {
		return m.promoted[i].Uses > m.promoted[j].Uses
	})

	return m
}

// Match evaluates the block against the ordered rule list and returns the
// first hit. Title predicates hold against the block's representative title
// only, the same title corrections are keyed from, so a fragment buried in a
// later title never matches. With no hit and a configured default task, the
// default is applied but flagged as ConfidenceDefault so review still
// surfaces it. Otherwise the block stays unassigned, which is a value, not
// an error.
func (m *Matcher) Match(b *Block) Match {
	url := b.URL
	if url == "" && len(b.URLs) > 0 {
		url = b.URLs[0]
	}

	for _, rule := range m.rules {
		if rule.Matches(b.App, b.Title, url) {
			return Match{Task: rule.Task, Confidence: ConfidenceExplicit}
		}
	}

	for _, p := range m.promoted {
		if p.Matches(b.App, b.Title) {
			return Match{
				Task:       Task{Key: p.TaskKey, Name: p.TaskName, Client: p.Client},
				Confidence: ConfidenceLearned,
			}
		}
	}

	if m.defaultTask != nil {
		return Match{Task: *m.defaultTask, Confidence: ConfidenceDefault}
	}

	return Match{}
}

// BuildEntries turns blocks into reviewable entries using the matcher's
// proposals. Blocks shorter than minDuration are dropped. The returned
// proposals slice is parallel to entries and preserves the matcher's
// original verdicts, so review can tell corrections from agreements.
func BuildEntries(blocks []*Block, m *Matcher, minDuration time.Duration) ([]*Entry, []Match) {
	var entries []*Entry
	var proposals []Match

	for _, b := range blocks {
		if b.Duration() < minDuration {
			LogDebug("Skipping %s block (%s, %.1f min): below minimum duration",
				b.App, b.Start.Format("15:04"), b.Duration().Minutes())
			continue
		}

		match := m.Match(b)
		e := &Entry{
			Start:      b.Start,
			End:        b.End,
			App:        b.App,
			Title:      b.Title,
			SourceApps: sourceApps(b),
			Confidence: match.Confidence,
		}
		if !match.Unassigned() {
			e.TaskKey = match.Task.Key
			e.TaskName = match.Task.Name
			e.Client = match.Task.Client
		}
		e.Description = describe(e)

		entries = append(entries, e)
		proposals = append(proposals, match)
	}

	return entries, proposals
}

func sourceApps(b *Block) []string {
	apps := []string{b.App}
	for _, app := range b.OpenApps {
		if !containsString(apps, app) {
			apps = append(apps, app)
		}
	}
	return apps
}

// describe builds the human-readable worklog description: the app plus the
// representative title, truncated on rune boundaries.
func describe(e *Entry) string {
	if e.Title == "" {
		return e.App
	}
	title := e.Title
	if r := []rune(title); len(r) > 50 {
		title = string(r[:50]) + "..."
	}
	return e.App + " - " + title
}
