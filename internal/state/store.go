package state

import (
	"sync"
	"time"

	"bbdash/internal/model"
)

// Store holds the last snapshot delivered for each channel. Every update
// replaces a table's row set wholesale; there is no merging, and tables fed
// by different channels may briefly disagree with each other.
type Store struct {
	mu        sync.RWMutex
	current   []model.Build
	recent    []model.Build
	pending   []model.PendingBuild
	queue     []model.PendingBuild
	slaves    []model.Slave
	builders  []model.Builder
	global    model.GlobalStatus
	updatedAt map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		updatedAt: make(map[string]time.Time),
	}
}

func (s *Store) touch(channel string) {
	s.updatedAt[channel] = time.Now()
}

func (s *Store) ReplaceCurrentBuilds(builds []model.Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = builds
	s.touch("current_builds")
}

func (s *Store) ClearCurrentBuilds() {
	s.ReplaceCurrentBuilds(nil)
}

func (s *Store) ReplaceRecentBuilds(builds []model.Build) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = builds
	s.touch("builds")
}

func (s *Store) ReplacePendingBuilds(pending []model.PendingBuild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = pending
	s.touch("pending_builds")
}

func (s *Store) ReplaceQueue(queue []model.PendingBuild) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = queue
	s.touch("buildqueue")
}

func (s *Store) ReplaceSlaves(slaves []model.Slave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slaves = slaves
	s.touch("slaves")
}

func (s *Store) ReplaceBuilders(builders []model.Builder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builders = builders
	s.touch("project")
}

func (s *Store) SetGlobal(g model.GlobalStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = g
	s.touch("globalstatus")
}

// Snapshot is a point-in-time copy of every table.
type Snapshot struct {
	CurrentBuilds []model.Build        `json:"current_builds"`
	RecentBuilds  []model.Build        `json:"builds"`
	PendingBuilds []model.PendingBuild `json:"pending_builds"`
	Queue         []model.PendingBuild `json:"buildqueue"`
	Slaves        []model.Slave        `json:"slaves"`
	Builders      []model.Builder      `json:"project"`
	Global        model.GlobalStatus   `json:"globalstatus"`
	UpdatedAt     map[string]time.Time `json:"updated_at"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	updated := make(map[string]time.Time, len(s.updatedAt))
	for k, v := range s.updatedAt {
		updated[k] = v
	}

	return Snapshot{
		CurrentBuilds: append([]model.Build(nil), s.current...),
		RecentBuilds:  append([]model.Build(nil), s.recent...),
		PendingBuilds: append([]model.PendingBuild(nil), s.pending...),
		Queue:         append([]model.PendingBuild(nil), s.queue...),
		Slaves:        append([]model.Slave(nil), s.slaves...),
		Builders:      append([]model.Builder(nil), s.builders...),
		Global:        s.global,
		UpdatedAt:     updated,
	}
}
