package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTombstoneTTL = 10 * time.Minute
	defaultMaxTracked   = 10000
)

// Reducer сводит поток изменений кандидатов в последнее известное состояние.
// Побеждает запись с большим Version: событие не новее текущего отбрасывается,
// поэтому запоздавшее обновление не затирает свежие данные. DELETE оставляет
// отметку с версией, чтобы старое UPDATE не воскресило кандидата.
// Отметки живут tombstoneTTL, всего хранится не больше maxTracked кандидатов.
type Reducer struct {
	mu           sync.Mutex
	state        map[uuid.UUID]Event
	tombstoneTTL time.Duration
	maxTracked   int
}

func NewReducer() *Reducer {
	return NewReducerWithLimits(defaultMaxTracked, defaultTombstoneTTL)
}

// NewReducerWithLimits - нулевые и отрицательные значения заменяются дефолтами.
func NewReducerWithLimits(maxTracked int, tombstoneTTL time.Duration) *Reducer {
	if maxTracked <= 0 {
		maxTracked = defaultMaxTracked
	}
	if tombstoneTTL <= 0 {
		tombstoneTTL = defaultTombstoneTTL
	}
	return &Reducer{
		state:        make(map[uuid.UUID]Event),
		tombstoneTTL: tombstoneTTL,
		maxTracked:   maxTracked,
	}
}

// Apply применяет событие и сообщает, изменило ли оно состояние.
// События других таблиц состояние не трогают и всегда принимаются.
func (r *Reducer) Apply(e Event) bool {
	if e.Table != TableCandidates {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.state[e.CandidateID]; ok && !e.Version.After(current.Version) {
		return false
	}
	r.state[e.CandidateID] = e
	if len(r.state) > r.maxTracked {
		r.evictOldestLocked(e.CandidateID)
	}
	return true
}

// Snapshot возвращает последнее состояние кандидата. Удалённый кандидат не возвращается.
func (r *Reducer) Snapshot(candidateID uuid.UUID) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.state[candidateID]
	if !ok || e.Type == ChangeDelete {
		return Event{}, false
	}
	return e, true
}

// Prune удаляет отметки об удалении старше tombstoneTTL и возвращает их число.
func (r *Reducer) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.tombstoneTTL)
	pruned := 0
	for id, e := range r.state {
		if e.Type == ChangeDelete && e.Version.Before(cutoff) {
			delete(r.state, id)
			pruned++
		}
	}
	return pruned
}

// Len - число отслеживаемых кандидатов, включая отметки об удалении.
func (r *Reducer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state)
}

// evictOldestLocked вытесняет запись с самой старой версией, кроме только что принятой.
func (r *Reducer) evictOldestLocked(keep uuid.UUID) {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, e := range r.state {
		if id == keep {
			continue
		}
		if !found || e.Version.Before(oldest) {
			oldestID, oldest, found = id, e.Version, true
		}
	}
	if found {
		delete(r.state, oldestID)
	}
}
