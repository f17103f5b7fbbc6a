// Package roster keeps the pool of bugs that take turns fighting: who fights
// next, their win/loss records, retirement, and persistence.
package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pthm-cable/bugfights/config"
	"github.com/pthm-cable/bugfights/genome"
)

// ErrNotEnoughBugs is returned when fewer than two bugs are available to fight.
var ErrNotEnoughBugs = errors.New("roster: need at least two bugs")

// Entry is one bug in the roster.
type Entry struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Genome     genome.Genome `json:"genome" yaml:"genome"`
	Wins       int           `json:"wins" yaml:"wins"`
	Losses     int           `json:"losses" yaml:"losses"`
	Generation int           `json:"generation" yaml:"generation"`
	Parents    []string      `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// Fights returns the number of recorded fights.
func (e Entry) Fights() int {
	return e.Wins + e.Losses
}

// WinRatio returns wins over fights, or 0 for an untested bug.
func (e Entry) WinRatio() float64 {
	if e.Fights() == 0 {
		return 0
	}
	return float64(e.Wins) / float64(e.Fights())
}

// Store persists the roster.
type Store interface {
	Load() ([]Entry, error)
	Save([]Entry) error
}

// Roster is a concurrency-safe pool of bugs. Records update in memory
// immediately; saves to the store are debounced and run in the background.
type Roster struct {
	mu      sync.Mutex
	entries []Entry
	rng     *rand.Rand
	cfg     config.RosterConfig

	store    Store
	debounce time.Duration
	saveMu   sync.Mutex // Serializes store writes
	timer    *time.Timer
	closed   bool
}

// New loads the roster from store (may be nil) and tops it up with freshly
// generated bugs until it holds cfg.Size entries.
func New(cfg config.RosterConfig, debounce time.Duration, rng *rand.Rand, store Store) (*Roster, error) {
	r := &Roster{
		rng:      rng,
		cfg:      cfg,
		store:    store,
		debounce: debounce,
	}

	if store != nil {
		entries, err := store.Load()
		if err != nil {
			return nil, fmt.Errorf("loading roster: %w", err)
		}
		for _, e := range entries {
			if err := e.Genome.Validate(); err != nil {
				slog.Warn("dropping invalid roster entry", "id", e.ID, "error", err)
				continue
			}
			r.entries = append(r.entries, e)
		}
	}

	added := 0
	for len(r.entries) < cfg.Size {
		r.entries = append(r.entries, r.spawn(genome.Generate(rng), 0, nil))
		added++
	}
	if len(r.entries) < 2 {
		return nil, ErrNotEnoughBugs
	}
	if added > 0 {
		slog.Info("roster seeded", "generated", added, "size", len(r.entries))
		r.scheduleSave()
	}
	return r, nil
}

// spawn wraps a genome in a new entry with a fresh ID and name.
func (r *Roster) spawn(g genome.Genome, generation int, parents []string) Entry {
	return Entry{
		ID:         uuid.NewV4().String(),
		Name:       g.Name(r.rng),
		Genome:     g,
		Generation: generation,
		Parents:    parents,
	}
}

// SelectFighters picks two distinct bugs, favoring those with fewer fights.
func (r *Roster) SelectFighters() (Entry, Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) < 2 {
		return Entry{}, Entry{}, ErrNotEnoughBugs
	}

	first := r.pickWeighted(-1)
	second := r.pickWeighted(first)
	return r.entries[first], r.entries[second], nil
}

// pickWeighted samples an index with weight 1/(1+fights), skipping exclude.
func (r *Roster) pickWeighted(exclude int) int {
	var total float64
	for i, e := range r.entries {
		if i != exclude {
			total += 1 / float64(1+e.Fights())
		}
	}

	roll := r.rng.Float64() * total
	last := -1
	for i, e := range r.entries {
		if i == exclude {
			continue
		}
		last = i
		roll -= 1 / float64(1+e.Fights())
		if roll < 0 {
			return i
		}
	}
	return last
}

func (r *Roster) find(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// RecordWin credits a win.
func (r *Roster) RecordWin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return fmt.Errorf("roster: unknown bug %q", id)
	}
	r.entries[i].Wins++
	r.scheduleSave()
	return nil
}

// RecordLoss records a loss, retiring the bug once it reaches the loss limit.
// A retired bug is replaced by the offspring of the two best bugs.
func (r *Roster) RecordLoss(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i < 0 {
		return fmt.Errorf("roster: unknown bug %q", id)
	}
	r.entries[i].Losses++

	if r.cfg.RetireLosses > 0 && r.entries[i].Losses >= r.cfg.RetireLosses && len(r.entries)-1 >= r.cfg.MinSize {
		r.retire(i)
	}
	r.scheduleSave()
	return nil
}

// retire removes entry i and breeds a replacement when the roster drops below size.
func (r *Roster) retire(i int) {
	old := r.entries[i]
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	slog.Info("bug retired", "id", old.ID, "name", old.Name, "wins", old.Wins, "losses", old.Losses)

	if len(r.entries) >= r.cfg.Size || len(r.entries) < 2 {
		return
	}

	ranked := make([]Entry, len(r.entries))
	copy(ranked, r.entries)
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].WinRatio() != ranked[b].WinRatio() {
			return ranked[a].WinRatio() > ranked[b].WinRatio()
		}
		return ranked[a].Wins > ranked[b].Wins
	})
	pa, pb := ranked[0], ranked[1]

	child := r.spawn(genome.Breed(r.rng, pa.Genome, pb.Genome),
		max(pa.Generation, pb.Generation)+1,
		[]string{pa.ID, pb.ID})
	r.entries = append(r.entries, child)
	slog.Info("bug bred", "id", child.ID, "name", child.Name, "parents", child.Parents, "generation", child.Generation)
}

// Entries returns a copy of the roster.
func (r *Roster) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Get returns the entry with the given ID.
func (r *Roster) Get(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.find(id); i >= 0 {
		return r.entries[i], true
	}
	return Entry{}, false
}

// Len returns the number of bugs.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// scheduleSave arms the debounce timer. Caller holds r.mu.
func (r *Roster) scheduleSave() {
	if r.store == nil || r.closed || r.timer != nil {
		return
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		if err := r.flush(); err != nil {
			slog.Error("failed to save roster", "error", err)
		}
	})
}

// flush writes the current entries to the store.
func (r *Roster) flush() error {
	r.mu.Lock()
	r.timer = nil
	snapshot := make([]Entry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	return r.store.Save(snapshot)
}

// Close stops background saves and writes any pending changes.
func (r *Roster) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	pending := r.timer != nil
	if pending {
		r.timer.Stop()
	}
	r.mu.Unlock()

	if r.store == nil || !pending {
		return nil
	}
	if err := r.flush(); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}
	return nil
}
