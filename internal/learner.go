package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LearnedPattern is a matching pattern created from a user correction. It is
// keyed by (normalized app, normalized title fragment, task key): repeating
// the same correction increments the same pattern instead of duplicating it.
type LearnedPattern struct {
	AppContains   string    `yaml:"app_contains,omitempty"`
	TitleContains string    `yaml:"title_contains,omitempty"`
	TaskKey       string    `yaml:"task_key"`
	TaskName      string    `yaml:"task_name,omitempty"`
	Client        string    `yaml:"client,omitempty"`
	Uses          int       `yaml:"uses"`
	FirstSeen     time.Time `yaml:"first_seen"`
	LastUsed      time.Time `yaml:"last_used"`
}

// Promoted reports whether the pattern has been corrected often enough to
// auto-apply. Checked lazily against the current threshold rather than stored,
// so threshold changes apply retroactively to persisted patterns.
func (p *LearnedPattern) Promoted(threshold int) bool {
	return p.Uses >= threshold
}

// Matches reports whether the pattern's predicates hold against an app and
// title, case-insensitively.
func (p *LearnedPattern) Matches(app, title string) bool {
	if p.AppContains != "" && !strings.Contains(strings.ToLower(app), strings.ToLower(p.AppContains)) {
		return false
	}
	if p.TitleContains != "" && !strings.Contains(strings.ToLower(title), strings.ToLower(p.TitleContains)) {
		return false
	}
	return true
}

// PatternSet is the whole learned pattern document. The Learner is its only
// writer; everything else sees it read-only.
type PatternSet struct {
	Patterns []*LearnedPattern `yaml:"patterns"`
}

// PatternStore loads and saves the pattern set as a whole document. The set
// is read once at session start and written back once at session end, so a
// crash mid-session loses at most that session's corrections and never
// corrupts the existing file.
type PatternStore struct {
	path string
}

// NewPatternStore creates a store for the pattern file at path.
func NewPatternStore(path string) *PatternStore {
	return &PatternStore{path: path}
}

// Path returns the pattern file location.
func (s *PatternStore) Path() string {
	return s.path
}

// Load reads the pattern set. A missing file is an empty set, not an error.
func (s *PatternStore) Load() (*PatternSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PatternSet{}, nil
		}
		return nil, &PatternStoreError{Path: s.path, Op: "load", Err: err}
	}

	var set PatternSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, &PatternStoreError{Path: s.path, Op: "load", Err: fmt.Errorf("failed to parse patterns: %w", err)}
	}

	return &set, nil
}

// Save atomically rewrites the whole pattern document: write to a temp file
// in the same directory, then rename over the old file. A failed write leaves
// the previous file intact.
func (s *PatternStore) Save(set *PatternSet) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return &PatternStoreError{Path: s.path, Op: "save", Err: fmt.Errorf("failed to marshal patterns: %w", err)}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".learned_patterns-*.yaml")
	if err != nil {
		return &PatternStoreError{Path: s.path, Op: "save", Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &PatternStoreError{Path: s.path, Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &PatternStoreError{Path: s.path, Op: "save", Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return &PatternStoreError{Path: s.path, Op: "save", Err: err}
	}

	return nil
}

// Learner records user corrections as candidate patterns. It owns the
// in-memory pattern set for the session; persistence stays behind the
// PatternStore.
type Learner struct {
	set *PatternSet
	now func() time.Time
}

// NewLearner creates a Learner over a loaded pattern set.
func NewLearner(set *PatternSet) *Learner {
	return &Learner{set: set, now: time.Now}
}

// Set returns the learner's pattern set for saving.
func (l *Learner) Set() *PatternSet {
	return l.set
}

// RecordCorrection records a user correction for the given block context.
// An existing pattern with the same (app, title fragment, task) key gets its
// usage incremented; otherwise a new pattern starts at one use. Uses only
// grow; nothing here ever decrements.
func (l *Learner) RecordCorrection(app, title string, task Task) {
	app = strings.TrimSpace(app)
	fragment := TitleFragment(title)
	if app == "" && fragment == "" {
		LogWarn("Cannot learn a pattern without app or title context")
		return
	}

	now := l.now()
	for _, p := range l.set.Patterns {
		if normalize(p.AppContains) == normalize(app) &&
			normalize(p.TitleContains) == normalize(fragment) &&
			p.TaskKey == task.Key {
			p.Uses++
			p.LastUsed = now
			LogDebug("Updated learned pattern (%s, %s) -> %s, uses=%d", app, fragment, task.Key, p.Uses)
			return
		}
	}

	l.set.Patterns = append(l.set.Patterns, &LearnedPattern{
		AppContains:   app,
		TitleContains: fragment,
		TaskKey:       task.Key,
		TaskName:      task.Name,
		Client:        task.Client,
		Uses:          1,
		FirstSeen:     now,
		LastUsed:      now,
	})
	LogDebug("Added learned pattern (%s, %s) -> %s", app, fragment, task.Key)
}

// TitleFragment extracts the most distinctive part of a window title for
// pattern keying: the first word longer than three characters. Filler words
// like "the" or "for" never qualify. Returns empty when no word does.
func TitleFragment(title string) string {
	for _, word := range strings.Fields(title) {
		if len(word) > 3 {
			return word
		}
	}
	return ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
