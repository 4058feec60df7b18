package match

import (
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"podscribe/internal/feed"
	"podscribe/internal/stage"
)

// scoreEpsilon is the float tolerance below which two similarity scores are
// considered tied and the tie-break chain applies.
const scoreEpsilon = 1e-9

// Policy holds the matcher's tunable constants. Zero values are replaced by
// the documented defaults.
type Policy struct {
	// Threshold is the minimum accepted similarity score, inclusive.
	Threshold float64
	// DurationTolerance is how far an entry's duration may sit from the
	// reference duration and still count as a duration match.
	DurationTolerance time.Duration
}

// DefaultPolicy returns the documented default constants.
func DefaultPolicy() Policy {
	return Policy{
		Threshold:         0.6,
		DurationTolerance: 30 * time.Second,
	}
}

// Result is the selected entry with the score that selected it.
type Result struct {
	Entry    feed.Entry
	Score    float64
	FeedURL  string
	FeedRank int
}

// Matcher selects the feed entry best matching a resolved episode title.
type Matcher struct {
	policy Policy
}

// NewMatcher returns a Matcher, filling in default policy constants for zero
// fields.
func NewMatcher(policy Policy) *Matcher {
	defaults := DefaultPolicy()
	if policy.Threshold == 0 {
		policy.Threshold = defaults.Threshold
	}
	if policy.DurationTolerance == 0 {
		policy.DurationTolerance = defaults.DurationTolerance
	}
	return &Matcher{policy: policy}
}

type scoredEntry struct {
	entry    feed.Entry
	score    float64
	feedURL  string
	feedRank int
}

// Match flattens all entries across candidates, scores each normalized title
// against the episode title, and returns the maximum-scoring entry. Ties are
// broken by duration proximity, then feed rank, then recency; full ties keep
// the first entry seen, so repeated invocations select the same entry.
// refDurationSec is 0 when the reference duration is unknown.
func (m *Matcher) Match(episodeTitle string, refDurationSec int, candidates []feed.Candidate) (*Result, error) {
	target := Normalize(episodeTitle)

	scored := lo.FlatMap(candidates, func(c feed.Candidate, rank int) []scoredEntry {
		return lo.Map(c.Entries, func(e feed.Entry, _ int) scoredEntry {
			return scoredEntry{
				entry:    e,
				score:    Ratio(target, Normalize(e.Title)),
				feedURL:  c.FeedURL,
				feedRank: rank,
			}
		})
	})
	if len(scored) == 0 {
		return nil, stage.NewError(stage.KindNoMatch, stage.Match, "no entries to match against").
			WithDetail("episode_title", episodeTitle)
	}

	best := scored[0]
	for _, candidate := range scored[1:] {
		if m.beats(candidate, best, refDurationSec) {
			best = candidate
		}
	}

	if best.score+scoreEpsilon < m.policy.Threshold {
		return nil, stage.NewError(stage.KindNoMatch, stage.Match, "best entry scored below similarity threshold").
			WithDetail("episode_title", episodeTitle).
			WithDetail("best_title", best.entry.Title).
			WithDetail("best_score", fmt.Sprintf("%.3f", best.score)).
			WithDetail("threshold", fmt.Sprintf("%.3f", m.policy.Threshold)).
			WithDetail("entries_considered", fmt.Sprintf("%d", len(scored)))
	}

	return &Result{
		Entry:    best.entry,
		Score:    best.score,
		FeedURL:  best.feedURL,
		FeedRank: best.feedRank,
	}, nil
}

// beats reports whether x strictly outranks y. The comparison chain follows
// the tie-break policy: score, duration proximity, feed rank, recency.
func (m *Matcher) beats(x, y scoredEntry, refDurationSec int) bool {
	if math.Abs(x.score-y.score) > scoreEpsilon {
		return x.score > y.score
	}

	if refDurationSec > 0 {
		xDiff, xKnown := durationDiff(x.entry, refDurationSec)
		yDiff, yKnown := durationDiff(y.entry, refDurationSec)
		tolerance := int(m.policy.DurationTolerance / time.Second)
		xClose := xKnown && xDiff <= tolerance
		yClose := yKnown && yDiff <= tolerance
		if xClose != yClose {
			return xClose
		}
		if xKnown && yKnown && xDiff != yDiff {
			return xDiff < yDiff
		}
	}

	if x.feedRank != y.feedRank {
		return x.feedRank < y.feedRank
	}

	xPub, yPub := x.entry.Published, y.entry.Published
	if xPub != nil && yPub != nil && !xPub.Equal(*yPub) {
		return xPub.After(*yPub)
	}
	if (xPub != nil) != (yPub != nil) {
		return xPub != nil
	}

	return false
}

func durationDiff(e feed.Entry, refSec int) (diff int, known bool) {
	if e.DurationSec <= 0 {
		return 0, false
	}
	d := e.DurationSec - refSec
	if d < 0 {
		d = -d
	}
	return d, true
}
