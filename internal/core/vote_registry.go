package core

import (
	"strings"
	"sync"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// VoteRegistry maps vote round ids to their tallies. Ids are case-insensitive.
type VoteRegistry struct {
	mu      sync.Mutex
	tallies map[string]*domain.Tally
}

func NewVoteRegistry() *VoteRegistry {
	return &VoteRegistry{tallies: make(map[string]*domain.Tally)}
}

func (v *VoteRegistry) GetOrCreate(id string) *domain.Tally {
	key := strings.ToLower(id)
	v.mu.Lock()
	defer v.mu.Unlock()
	if t, ok := v.tallies[key]; ok {
		return t
	}
	t := domain.NewTally(id)
	v.tallies[key] = t
	log.Debug().Str("module", "core.votes").Str("vote_id", id).Msg("vote round created")
	return t
}

func (v *VoteRegistry) Lookup(id string) (*domain.Tally, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	t, ok := v.tallies[strings.ToLower(id)]
	return t, ok
}

func (v *VoteRegistry) Delete(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.tallies, strings.ToLower(id))
}

func (v *VoteRegistry) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.tallies)
}
