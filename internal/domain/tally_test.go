package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func tallyOf(counts map[int]int) *Tally {
	t := NewTally("t")
	for v, c := range counts {
		for range c {
			t.Add(v)
		}
	}
	return t
}

func TestTally_AddRemove(t *testing.T) {
	req := require.New(t)
	tally := NewTally("round")

	tally.Add(3)
	tally.Add(3)
	tally.Add(5)
	req.Equal(3, tally.Total())

	// Removing an absent value is a no-op
	tally.Remove(8)
	req.Equal(3, tally.Total())

	// A value disappears once its count reaches zero
	tally.Remove(5)
	req.Equal([]TallyEntry{{Value: 3, Count: 2}}, tally.Breakdown())
}

func TestTally_ChangeMatchesRemoveThenAdd(t *testing.T) {
	req := require.New(t)
	a := tallyOf(map[int]int{1: 2, 8: 1})
	b := tallyOf(map[int]int{1: 2, 8: 1})

	a.Change(1, 13)
	b.Remove(1)
	b.Add(13)

	req.Equal(b.Breakdown(), a.Breakdown())
	req.Equal([]TallyEntry{{1, 1}, {8, 1}, {13, 1}}, a.Breakdown())

	// Changing from a value nobody voted for only adds
	a.Change(-1, 2)
	req.Equal(4, a.Total())
}

func TestTally_Mean(t *testing.T) {
	req := require.New(t)
	req.Equal(2, tallyOf(map[int]int{1: 2, 3: 2}).Mean())
	req.Equal(1, tallyOf(map[int]int{1: 2, 2: 1}).Mean())
	req.Equal(0, NewTally("empty").Mean())
}

func TestTally_Mode(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
		want   int
		ok     bool
	}{
		{"empty", map[int]int{}, 0, false},
		{"single", map[int]int{5: 1}, 5, true},
		{"draw", map[int]int{1: 1, 2: 1}, 0, false},
		{"clear winner", map[int]int{1: 1, 2: 3}, 2, true},
		{"draw beaten later", map[int]int{1: 2, 2: 2, 3: 3}, 3, true},
		{"max first", map[int]int{1: 3, 2: 1, 3: 1}, 1, true},
		{"draw after new max", map[int]int{1: 1, 2: 2, 3: 2}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tallyOf(tt.counts).Mode()
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTally_Median(t *testing.T) {
	req := require.New(t)
	req.Equal(Median{Kind: MedianExact, Left: 2}, tallyOf(map[int]int{1: 1, 2: 1, 3: 1}).Median())
	req.Equal(Median{Kind: MedianBetween, Left: 1, Right: 2}, tallyOf(map[int]int{1: 1, 2: 1}).Median())
	req.Equal(Median{Kind: MedianExact, Left: 5}, tallyOf(map[int]int{1: 1, 5: 2, 8: 1}).Median())
	req.Equal(Median{Kind: MedianNone}, NewTally("empty").Median())
}

func TestTally_ConcurrentAdds(t *testing.T) {
	tally := NewTally("round")
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tally.Add(3)
		}()
	}
	wg.Wait()
	require.Equal(t, []TallyEntry{{Value: 3, Count: 50}}, tally.Breakdown())
}
