package services

import (
	"database/sql"
	"encoding/json"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/models"
	"github.com/framboises/cockpit/app/timeline"
)

// DaySchedule is one date's fully derived render sequence plus its public
// opening banner.
type DaySchedule struct {
	Date        string          `json:"date"`
	PublicOpen  bool            `json:"public_open"`
	PublicHours string          `json:"public_hours,omitempty"`
	Nodes       []timeline.Node `json:"nodes"`
}

// Snapshot is the cached derivation result for one (event, year) scope.
type Snapshot struct {
	Event      string        `json:"event"`
	Year       string        `json:"year"`
	Generation uint64        `json:"generation"`
	ComputedAt string        `json:"computed_at"`
	Now        string        `json:"now"`
	Days       []DaySchedule `json:"days"`
}

// Sweeper recomputes clusters and display statuses for the most recently
// requested scope. Every refresh carries a generation number; a result is
// applied only when no newer refresh has completed, so a slow stale
// recompute can never overwrite a fresher one.
type Sweeper struct {
	db         *sql.DB
	clock      *timeline.SimClock
	dedupeMode string

	gen     uint64 // last issued generation
	mu      sync.Mutex
	applied uint64
	current *Snapshot
}

func NewSweeper(db *sql.DB, clock *timeline.SimClock, dedupeMode string) *Sweeper {
	return &Sweeper{db: db, clock: clock, dedupeMode: dedupeMode}
}

// Refresh loads the scope from the database, rebuilds every day's
// schedule against the clock's current instant and caches the result.
// The returned snapshot is the freshest applied one, which may be newer
// than this call's own computation if a concurrent refresh won.
func (s *Sweeper) Refresh(event, year string) (*Snapshot, error) {
	gen := atomic.AddUint64(&s.gen, 1)

	byDate, err := database.GetTimetable(s.db, event, year)
	if err != nil {
		return nil, err
	}
	horaires := s.loadGlobalHoraires(event, year)

	now := s.clock.Now()
	snap := buildSnapshot(event, year, byDate, horaires, now, s.dedupeMode)
	snap.Generation = gen

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen >= s.applied {
		s.applied = gen
		s.current = snap
	} else {
		log.Printf("[sweep] discarding stale refresh %d (applied %d)", gen, s.applied)
	}
	return s.current, nil
}

// Tick re-derives the cached scope against the current instant. No-op
// until a scope has been requested at least once.
func (s *Sweeper) Tick(now time.Time) {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()
	if snap == nil {
		return
	}
	if _, err := s.Refresh(snap.Event, snap.Year); err != nil {
		log.Printf("[sweep] refresh failed: %v", err)
	}
}

// Current returns the last applied snapshot, nil before the first refresh.
func (s *Sweeper) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func buildSnapshot(event, year string, byDate map[string][]models.TimetableEvent,
	horaires map[string]models.GlobalDate, now time.Time, dedupeMode string) *Snapshot {

	timeline.RemoveRedundantPairs(byDate, dedupeMode)

	nowDate := now.Format("2006-01-02")
	nowMinute := float64(now.Hour()*60 + now.Minute())

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	snap := &Snapshot{
		Event:      event,
		Year:       year,
		ComputedAt: time.Now().Format(time.RFC3339),
		Now:        now.Format("2006-01-02 15:04"),
	}
	for _, date := range dates {
		nodes := timeline.BuildSchedule(byDate[date])
		timeline.AnnotateStatuses(nodes, date, nowDate, nowMinute)

		day := DaySchedule{Date: date, Nodes: nodes}
		if gd, ok := horaires[date]; ok && !gd.Closed {
			day.PublicOpen = true
			if gd.Is24h {
				day.PublicHours = "24h/24"
			} else if gd.OpenTime != "" {
				day.PublicHours = gd.OpenTime + " - " + gd.CloseTime
			}
		}
		snap.Days = append(snap.Days, day)
	}
	return snap
}

// loadGlobalHoraires extracts the public hours banner data from the
// parametrage document. Banner data is cosmetic; any failure just means
// no banner.
func (s *Sweeper) loadGlobalHoraires(event, year string) map[string]models.GlobalDate {
	raw, err := database.GetParametrage(s.db, event, year)
	if err != nil {
		log.Printf("[sweep] parametrage lookup failed: %v", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var p models.Parametrage
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("[sweep] malformed parametrage for %s/%s: %v", event, year, err)
		return nil
	}
	out := make(map[string]models.GlobalDate, len(p.GlobalHoraires.Dates))
	for _, gd := range p.GlobalHoraires.Dates {
		out[gd.Date] = gd
	}
	return out
}
