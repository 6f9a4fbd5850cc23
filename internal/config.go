package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for policy knobs. These are configurable constants, not invariants.
const (
	DefaultGapMinutes         = 15
	DefaultIntervalSeconds    = 300
	DefaultMinDurationMinutes = 5
	DefaultPromotionThreshold = 5
	DefaultDailyHoursTarget   = 8.0
	DefaultRounding           = "15min"
)

// LearnedPatternsFile is the name of the pattern store document, kept next
// to the config file.
const LearnedPatternsFile = "learned_patterns.yaml"

// Config is the immutable configuration snapshot for one invocation.
type Config struct {
	Clients            []ClientConfig `yaml:"clients"`
	DefaultTask        *TaskConfig    `yaml:"default_task"`
	Rounding           string         `yaml:"rounding"`
	GapMinutes         int            `yaml:"gap_minutes"`
	IntervalSeconds    int            `yaml:"interval_seconds"`
	MinDurationMinutes int            `yaml:"min_duration_minutes"`
	PromotionThreshold int            `yaml:"promotion_threshold"`
	DailyHoursTarget   float64        `yaml:"daily_hours_target"`
	Tempo              TempoConfig    `yaml:"tempo"`

	path string
}

// ClientConfig groups a client's tasks and matching rules.
type ClientConfig struct {
	Name     string        `yaml:"name"`
	Tasks    []TaskConfig  `yaml:"tasks"`
	Patterns []RuleConfig  `yaml:"patterns"`
}

// TaskConfig is a configured task.
type TaskConfig struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// RuleConfig is an explicit matching rule as written in the config file.
type RuleConfig struct {
	AppContains   string `yaml:"app_contains,omitempty"`
	AppEquals     string `yaml:"app_equals,omitempty"`
	TitleContains string `yaml:"title_contains,omitempty"`
	URLContains   string `yaml:"url_contains,omitempty"`
	Task          string `yaml:"task"`
}

// TempoConfig configures the worklog upload client.
type TempoConfig struct {
	APIURL   string `yaml:"api_url,omitempty"`
	APIToken string `yaml:"api_token,omitempty"`
}

// LoadConfig reads and validates the YAML config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to parse config: %w", err)}
	}

	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Rounding == "" {
		c.Rounding = DefaultRounding
	}
	if c.GapMinutes <= 0 {
		c.GapMinutes = DefaultGapMinutes
	}
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = DefaultIntervalSeconds
	}
	if c.MinDurationMinutes <= 0 {
		c.MinDurationMinutes = DefaultMinDurationMinutes
	}
	if c.PromotionThreshold <= 0 {
		c.PromotionThreshold = DefaultPromotionThreshold
	}
	if c.DailyHoursTarget <= 0 {
		c.DailyHoursTarget = DefaultDailyHoursTarget
	}
}

// Validate checks the config for contradictions a session cannot recover
// from: unknown rounding policy, rules without predicates, rules pointing at
// tasks that are not declared anywhere.
func (c *Config) Validate() error {
	if _, err := ParseRoundingPolicy(c.Rounding); err != nil {
		return err
	}

	known := make(map[string]bool)
	if c.DefaultTask != nil {
		known[c.DefaultTask.Key] = true
	}
	for _, client := range c.Clients {
		for _, task := range client.Tasks {
			if task.Key == "" {
				return fmt.Errorf("client %q has a task with no key", client.Name)
			}
			known[task.Key] = true
		}
	}

	for _, client := range c.Clients {
		for i, rule := range client.Patterns {
			if rule.AppContains == "" && rule.AppEquals == "" && rule.TitleContains == "" && rule.URLContains == "" {
				return fmt.Errorf("client %q pattern #%d has no predicates", client.Name, i+1)
			}
			if rule.Task == "" {
				return fmt.Errorf("client %q pattern #%d has no task", client.Name, i+1)
			}
			if !known[rule.Task] {
				return fmt.Errorf("client %q pattern #%d references unknown task %q", client.Name, i+1, rule.Task)
			}
		}
	}

	return nil
}

// Rules returns the explicit rules flattened in config order. Order is
// priority: the matcher evaluates these first, top to bottom.
func (c *Config) Rules() []Rule {
	var rules []Rule
	for _, client := range c.Clients {
		for _, rc := range client.Patterns {
			task := Task{Key: rc.Task, Client: client.Name}
			for _, tc := range client.Tasks {
				if tc.Key == rc.Task {
					task.Name = tc.Name
					break
				}
			}
			rules = append(rules, Rule{
				AppContains:   rc.AppContains,
				AppEquals:     rc.AppEquals,
				TitleContains: rc.TitleContains,
				URLContains:   rc.URLContains,
				Task:          task,
			})
		}
	}
	return rules
}

// Tasks returns all configured tasks, default task first.
func (c *Config) Tasks() []Task {
	var tasks []Task
	if c.DefaultTask != nil {
		tasks = append(tasks, Task{Key: c.DefaultTask.Key, Name: c.DefaultTask.Name, Client: "Default"})
	}
	for _, client := range c.Clients {
		for _, tc := range client.Tasks {
			tasks = append(tasks, Task{Key: tc.Key, Name: tc.Name, Client: client.Name})
		}
	}
	return tasks
}

// TaskByKey looks up a configured task by key.
func (c *Config) TaskByKey(key string) (Task, bool) {
	for _, task := range c.Tasks() {
		if task.Key == key {
			return task, true
		}
	}
	return Task{}, false
}

// Default returns the configured default task, or false if none is set.
func (c *Config) Default() (Task, bool) {
	if c.DefaultTask == nil {
		return Task{}, false
	}
	return Task{Key: c.DefaultTask.Key, Name: c.DefaultTask.Name, Client: "Default"}, true
}

// GapThreshold is the maximum silence between observations within one block.
func (c *Config) GapThreshold() time.Duration {
	return time.Duration(c.GapMinutes) * time.Minute
}

// SamplingInterval is the capture daemon's polling interval, used to close
// a block's trailing observation deterministically.
func (c *Config) SamplingInterval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// MinBlockDuration is the shortest block worth turning into an entry.
func (c *Config) MinBlockDuration() time.Duration {
	return time.Duration(c.MinDurationMinutes) * time.Minute
}

// RoundingPolicy returns the parsed rounding policy. Validate has already
// rejected unknown values.
func (c *Config) RoundingPolicy() RoundingPolicy {
	p, _ := ParseRoundingPolicy(c.Rounding)
	return p
}

// PatternStorePath returns the path of the learned pattern document, which
// lives next to the config file.
func (c *Config) PatternStorePath() string {
	dir := "."
	if c.path != "" {
		dir = filepath.Dir(c.path)
	}
	return filepath.Join(dir, LearnedPatternsFile)
}
