package cmd

import (
	"fmt"
	"time"

	"github.com/tempoclerk/tempoclerk/internal"
)

// resolveDate picks the date under review: an explicit YYYY-MM-DD argument,
// yesterday, or today.
func resolveDate(args []string, yesterday bool) (string, error) {
	if yesterday {
		return time.Now().AddDate(0, 0, -1).Format("2006-01-02"), nil
	}
	if len(args) == 0 {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", args[0]); err != nil {
		return "", fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
	}
	return args[0], nil
}

// loadDay runs the derivation pipeline for one day: observations from the
// configured source, segmentation into blocks, and matching into entries
// with the matcher's proposals preserved.
func loadDay(cfg *internal.Config, set *internal.PatternSet, day string) ([]*internal.Entry, []internal.Match, error) {
	source, closeSource, err := internal.OpenSource(dataPath)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = closeSource() }()

	observations, err := source.LoadDay(day)
	if err != nil {
		return nil, nil, err
	}

	segmenter := internal.NewSegmenter(cfg.GapThreshold(), cfg.SamplingInterval())
	blocks, err := segmenter.Segment(day, observations)
	if err != nil {
		return nil, nil, err
	}

	matcher := internal.NewMatcher(cfg, set)
	entries, proposals := internal.BuildEntries(blocks, matcher, cfg.MinBlockDuration())
	return entries, proposals, nil
}
