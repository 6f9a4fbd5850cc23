package internal

import (
	"time"
)

// CreateTestObservations creates n observations for one app, spaced by
// interval, starting at start.
func CreateTestObservations(start time.Time, interval time.Duration, app, title string, n int) []Observation {
	observations := make([]Observation, 0, n)
	for i := 0; i < n; i++ {
		observations = append(observations, Observation{
			Timestamp: start.Add(time.Duration(i) * interval),
			App:       app,
			Title:     title,
		})
	}
	return observations
}

// CreateTestBlock creates a block with the given span and context.
func CreateTestBlock(start time.Time, duration time.Duration, app, title string) *Block {
	b := &Block{
		Start: start,
		End:   start.Add(duration),
		App:   app,
		Title: title,
		Count: 1,
	}
	if title != "" {
		b.Titles = []string{title}
	}
	return b
}

// CreateTestEntry creates an entry with the given span, context and task.
func CreateTestEntry(start time.Time, duration time.Duration, app, title, taskKey string) *Entry {
	e := &Entry{
		Start:      start,
		End:        start.Add(duration),
		App:        app,
		Title:      title,
		SourceApps: []string{app},
		TaskKey:    taskKey,
	}
	if taskKey != "" {
		e.Confidence = ConfidenceExplicit
	}
	e.Description = describe(e)
	return e
}

// CreateTestConfig returns a config snapshot with one client, two tasks, one
// rule and a default task, with all policy knobs at their defaults.
func CreateTestConfig() *Config {
	cfg := &Config{
		Clients: []ClientConfig{
			{
				Name: "ClientA",
				Tasks: []TaskConfig{
					{Key: "CLIENTA-100", Name: "Platform maintenance"},
					{Key: "CLIENTA-200", Name: "Feature development"},
				},
				Patterns: []RuleConfig{
					{AppContains: "Citrix", TitleContains: "MVW", Task: "CLIENTA-100"},
				},
			},
		},
		DefaultTask: &TaskConfig{Key: "ADMIN-001", Name: "Administrative"},
	}
	cfg.applyDefaults()
	return cfg
}

// CreateTestConfigNoDefault is CreateTestConfig without a default task.
func CreateTestConfigNoDefault() *Config {
	cfg := CreateTestConfig()
	cfg.DefaultTask = nil
	return cfg
}
