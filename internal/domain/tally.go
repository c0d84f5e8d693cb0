package domain

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Vote sentinels. They are never stored in a tally.
const (
	VoteNeedsInfo = -1
	VotePassed    = -2
	VoteCancelled = -3
)

type MedianKind int

const (
	MedianNone MedianKind = iota
	MedianExact
	MedianBetween
)

// Median describes the middle of the cast votes. Left is the value for
// MedianExact; Left and Right bound it for MedianBetween.
type Median struct {
	Kind  MedianKind
	Left  int
	Right int
}

type TallyEntry struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// Tally counts cast votes per value for one vote round.
// It is safe for concurrent use.
type Tally struct {
	id string

	mu     sync.Mutex
	counts map[int]int
}

func NewTally(id string) *Tally {
	return &Tally{id: id, counts: make(map[int]int)}
}

func (t *Tally) ID() string { return t.id }

func (t *Tally) Add(value int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[value]++
}

func (t *Tally) Remove(value int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(value)
}

// Change moves one vote from old to new under a single lock.
func (t *Tally) Change(old, new int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.remove(old)
	t.counts[new]++
}

func (t *Tally) remove(value int) {
	c, ok := t.counts[value]
	if !ok {
		return
	}
	if c-1 <= 0 {
		delete(t.counts, value)
		return
	}
	t.counts[value] = c - 1
}

// Total is the number of outstanding votes.
func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return lo.Sum(lo.Values(t.counts))
}

// Breakdown lists every stored value with its count, ascending by value.
func (t *Tally) Breakdown() []TallyEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.breakdown()
}

func (t *Tally) breakdown() []TallyEntry {
	keys := lo.Keys(t.counts)
	slices.Sort(keys)
	return lo.Map(keys, func(k int, _ int) TallyEntry {
		return TallyEntry{Value: k, Count: t.counts[k]}
	})
}

func (t *Tally) valid() []TallyEntry {
	return lo.Filter(t.breakdown(), func(e TallyEntry, _ int) bool { return e.Value >= 0 })
}

// Mode returns the most cast value. ok is false when there are no votes or
// when the scan ended on a draw: a count equal to the running maximum marks a
// draw, a strictly greater count clears it. The scan runs in ascending value
// order, so a tie with a maximum that is later beaten is forgotten.
func (t *Tally) Mode() (value int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	best, bestCount, draw := 0, -1, false
	for _, e := range t.valid() {
		if e.Count == bestCount {
			draw = true
		}
		if e.Count > bestCount {
			best, bestCount, draw = e.Value, e.Count, false
		}
	}
	if bestCount < 0 || draw {
		return 0, false
	}
	return best, true
}

// Mean is the integer-truncated average of all cast values, 0 with no votes.
func (t *Tally) Mean() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.valid()
	n := lo.SumBy(entries, func(e TallyEntry) int { return e.Count })
	if n == 0 {
		return 0
	}
	return lo.SumBy(entries, func(e TallyEntry) int { return e.Value * e.Count }) / n
}

func (t *Tally) Median() Median {
	t.mu.Lock()
	defer t.mu.Unlock()

	var list []int
	for _, e := range t.valid() {
		for range e.Count {
			list = append(list, e.Value)
		}
	}
	switch n := len(list); {
	case n == 0:
		return Median{Kind: MedianNone}
	case n%2 == 1:
		return Median{Kind: MedianExact, Left: list[n/2]}
	default:
		left, right := list[n/2-1], list[n/2]
		if left == right {
			return Median{Kind: MedianExact, Left: left}
		}
		return Median{Kind: MedianBetween, Left: left, Right: right}
	}
}
