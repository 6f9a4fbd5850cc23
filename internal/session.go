package internal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SessionState is a state of the review session machine.
type SessionState int

const (
	// StatePresenting: a block is being shown and the session is about to
	// prompt for a command.
	StatePresenting SessionState = iota
	// StateComplete: every block reached a terminal resolution (task set or
	// explicitly skipped).
	StateComplete
	// StateAborted: the user quit before completion. Partial entries are
	// discarded, nothing is exported and no corrections are saved.
	StateAborted
)

func (s SessionState) String() string {
	switch s {
	case StateComplete:
		return "complete"
	case StateAborted:
		return "aborted"
	default:
		return "presenting"
	}
}

// ReviewSession walks the user through a day's entries, one block at a time.
// It is driven by a single blocking read per iteration, so tests substitute
// a scripted command sequence for the terminal.
//
// The session is the sole writer to its entry set for the run; the learner
// only receives corrections and never touches the already-produced entries.
type ReviewSession struct {
	date      string
	entries   []*Entry
	proposals []Match
	cfg       *Config
	learner   *Learner

	state   SessionState
	cursor  int
	upload  bool
	scanner *bufio.Scanner
	out     io.Writer
}

// NewReviewSession creates a session over entries and their matcher
// proposals. The proposals slice must be parallel to entries.
func NewReviewSession(date string, entries []*Entry, proposals []Match, cfg *Config, learner *Learner, in io.Reader, out io.Writer) *ReviewSession {
	return &ReviewSession{
		date:      date,
		entries:   entries,
		proposals: proposals,
		cfg:       cfg,
		learner:   learner,
		scanner:   bufio.NewScanner(in),
		out:       out,
	}
}

// State returns the session's current state.
func (s *ReviewSession) State() SessionState {
	return s.state
}

// Entries returns the session's entry set.
func (s *ReviewSession) Entries() []*Entry {
	return s.entries
}

// UploadRequested reports whether the user asked for an upload after the
// session completed.
func (s *ReviewSession) UploadRequested() bool {
	return s.upload
}

// Run drives the interactive loop until the session completes or aborts.
func (s *ReviewSession) Run() error {
	if len(s.entries) == 0 {
		fmt.Fprintf(s.out, "No entries to review for %s.\n", s.date)
		s.state = StateComplete
		return nil
	}

	s.printHeader()

	for s.state == StatePresenting && s.cursor < len(s.entries) {
		s.present(s.cursor)
		fmt.Fprint(s.out, "> ")

		if !s.scanner.Scan() {
			// Input exhausted before completion is an abort, same as quit.
			s.state = StateAborted
			break
		}
		s.dispatch(strings.TrimSpace(s.scanner.Text()))
	}

	if s.state == StatePresenting {
		s.state = StateComplete
	}

	if s.state == StateAborted {
		fmt.Fprintln(s.out, "Aborted. Nothing exported.")
		return nil
	}

	s.printSummary()
	s.promptAfterComplete()
	return s.scanner.Err()
}

// ResolveAll is the non-interactive path: every entry keeps its matcher
// proposal, unassigned entries fall back to the default task when one is
// configured, and the session completes unconditionally.
func (s *ReviewSession) ResolveAll() {
	if task, ok := s.cfg.Default(); ok {
		s.assignDefault(task)
	}
	s.state = StateComplete
}

func (s *ReviewSession) dispatch(command string) {
	fields := strings.Fields(strings.ToLower(command))
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "approve", "a":
		// Accepting the matcher's proposal teaches nothing: only
		// disagreements do.
		e := s.entries[s.cursor]
		if !e.Unassigned() {
			e.Confidence = ConfidenceUser
		}
		s.cursor++

	case "edit", "e":
		args := strings.Fields(command)[1:]
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: edit <index> <task-key>")
			return
		}
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 1 || index > len(s.entries) {
			fmt.Fprintf(s.out, "Invalid entry number: %s\n", args[0])
			return
		}
		s.edit(index-1, args[1])
		if index-1 == s.cursor {
			s.cursor++
		}

	case "default", "d":
		task, ok := s.cfg.Default()
		if !ok {
			fmt.Fprintln(s.out, "No default task configured.")
			return
		}
		count := s.assignDefault(task)
		fmt.Fprintf(s.out, "Assigned %s to %d unassigned entr(ies)\n", task.Key, count)
		s.cursor++

	case "skip", "s":
		// Explicitly leave this entry unassigned.
		s.cursor++

	case "upload", "u":
		fmt.Fprintln(s.out, "Upload is only available once review is complete.")

	case "quit", "q":
		s.state = StateAborted

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (approve, edit N TASK, default, skip, quit)\n", fields[0])
	}
}

// edit overrides one entry's task. A correction that differs from the
// matcher's original proposal is recorded with the learner; picking the task
// the matcher already proposed is a no-op for learning.
func (s *ReviewSession) edit(index int, key string) {
	e := s.entries[index]

	task, ok := s.cfg.TaskByKey(key)
	if !ok {
		// Custom key not present in config; accept it verbatim.
		task = Task{Key: strings.ToUpper(key)}
	}

	proposal := s.proposals[index]
	if task.Key != proposal.Task.Key {
		s.learner.RecordCorrection(e.App, e.Title, task)
	}

	e.TaskKey = task.Key
	e.TaskName = task.Name
	e.Client = task.Client
	e.Confidence = ConfidenceUser
	fmt.Fprintf(s.out, "Updated entry %d -> %s\n", index+1, task.Key)
}

func (s *ReviewSession) assignDefault(task Task) int {
	count := 0
	for _, e := range s.entries {
		if e.Unassigned() {
			e.TaskKey = task.Key
			e.TaskName = task.Name
			e.Client = task.Client
			e.Confidence = ConfidenceDefault
			count++
		}
	}
	return count
}

func (s *ReviewSession) present(index int) {
	e := s.entries[index]
	policy := s.cfg.RoundingPolicy()

	task := e.TaskKey
	if task == "" {
		task = "UNASSIGNED"
	}

	fmt.Fprintf(s.out, "\n[%d/%d] %s (%.2fh) -> %s [%s]\n",
		index+1, len(s.entries), e.TimeRange(), e.RoundedHours(policy), task, e.Confidence)
	fmt.Fprintf(s.out, "      %s\n", e.Description)
	if e.Client != "" {
		fmt.Fprintf(s.out, "      Client: %s\n", e.Client)
	}
}

func (s *ReviewSession) printHeader() {
	policy := s.cfg.RoundingPolicy()
	total := 0.0
	unassigned := 0
	for _, e := range s.entries {
		total += e.RoundedHours(policy)
		if e.Unassigned() {
			unassigned++
		}
	}
	fmt.Fprintf(s.out, "Timesheet review - %s\n", s.date)
	fmt.Fprintf(s.out, "Total: %.1fh / %.1fh target | Unassigned: %d\n",
		total, s.cfg.DailyHoursTarget, unassigned)
	fmt.Fprintln(s.out, "Commands: approve, edit <n> <task>, default, skip, upload, quit")
}

func (s *ReviewSession) printSummary() {
	policy := s.cfg.RoundingPolicy()
	total := 0.0
	unassigned := 0
	for _, e := range s.entries {
		if e.Unassigned() {
			unassigned++
			continue
		}
		total += e.RoundedHours(policy)
	}
	fmt.Fprintf(s.out, "\nReview complete: %.1fh assigned, %d entr(ies) left unassigned.\n", total, unassigned)
}

// promptAfterComplete offers the one command that is only reachable from the
// complete state. Anything else, including end of input, just finishes.
func (s *ReviewSession) promptAfterComplete() {
	fmt.Fprint(s.out, "upload now? [upload/done] > ")
	if !s.scanner.Scan() {
		return
	}
	switch strings.TrimSpace(strings.ToLower(s.scanner.Text())) {
	case "upload", "u", "y", "yes":
		s.upload = true
	}
}
