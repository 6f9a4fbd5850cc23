package internal

import (
	"fmt"
	"time"
)

// Segmenter groups a day's time-ordered observations into contiguous blocks.
// A new block starts when the silence since the previous observation exceeds
// the gap threshold, or when the focused application changes.
type Segmenter struct {
	gap      time.Duration
	interval time.Duration
}

// NewSegmenter creates a Segmenter with the given gap threshold and capture
// sampling interval.
func NewSegmenter(gap, interval time.Duration) *Segmenter {
	return &Segmenter{gap: gap, interval: interval}
}

// Segment converts observations into blocks. Input must be sorted by
// timestamp; out-of-order or missing-field records are rejected and no blocks
// are emitted for the day. Empty input yields no blocks and no error.
//
// A block with no successor observation closes at its last observation plus
// one sampling interval, not at "now", so output is replayable from stored
// logs. When a successor exists the extension is capped at the next block's
// start to keep blocks disjoint.
func (s *Segmenter) Segment(date string, observations []Observation) ([]*Block, error) {
	if len(observations) == 0 {
		return nil, nil
	}

	for i, o := range observations {
		if o.Timestamp.IsZero() {
			return nil, &ObservationError{Date: date, Index: i, Field: "ts", Err: fmt.Errorf("missing timestamp")}
		}
		if o.App == "" {
			return nil, &ObservationError{Date: date, Index: i, Field: "app", Err: fmt.Errorf("missing application")}
		}
		if i > 0 {
			prev := observations[i-1]
			if o.Timestamp.Before(prev.Timestamp) {
				return nil, &ObservationError{
					Date: date, Index: i, Field: "ts",
					Err: fmt.Errorf("out of order: %s before %s",
						o.Timestamp.Format("15:04:05"), prev.Timestamp.Format("15:04:05")),
				}
			}
			// Two apps cannot both hold focus at the same instant. Allowing
			// this would force a zero-duration block when the split is capped
			// at the next block's start.
			if o.Timestamp.Equal(prev.Timestamp) && o.App != prev.App {
				return nil, &ObservationError{
					Date: date, Index: i, Field: "ts",
					Err: fmt.Errorf("duplicate timestamp %s across application change",
						o.Timestamp.Format("15:04:05")),
				}
			}
		}
	}

	var blocks []*Block
	current := newBlock(observations[0])
	for _, o := range observations[1:] {
		if s.splits(current, o) {
			blocks = append(blocks, current)
			current = newBlock(o)
		} else {
			current.Extend(o)
		}
	}
	blocks = append(blocks, current)

	// Close each block's trailing observation with one sampling interval.
	for i, b := range blocks {
		end := b.End.Add(s.interval)
		if i+1 < len(blocks) && end.After(blocks[i+1].Start) {
			end = blocks[i+1].Start
		}
		b.End = end
	}

	LogDebug("Segmented %d observation(s) into %d block(s) for %s", len(observations), len(blocks), date)
	return blocks, nil
}

func (s *Segmenter) splits(b *Block, o Observation) bool {
	if o.Timestamp.Sub(b.End) > s.gap {
		return true
	}
	return o.App != b.App
}

func newBlock(o Observation) *Block {
	b := &Block{
		Start: o.Timestamp,
		End:   o.Timestamp,
		App:   o.App,
		Title: o.Title,
		URL:   o.URL,
		Count: 1,
	}
	if o.Title != "" {
		b.Titles = []string{o.Title}
	}
	if o.URL != "" {
		b.URLs = []string{o.URL}
	}
	for _, app := range o.OpenApps {
		if len(b.OpenApps) >= 5 {
			break
		}
		if !containsString(b.OpenApps, app) {
			b.OpenApps = append(b.OpenApps, app)
		}
	}
	return b
}
