package timeline

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"
)

var errInvalidInterval = errors.New("interval must be positive")

// Defaults for the now-line controller.
const (
	DefaultNowLineInterval = 15 * time.Second
	DefaultLineTop         = 100.0
)

// LayoutNode is the measured geometry of one rendered node, top relative
// to the scroll content origin, plus its sort minute (+Inf for TBC).
type LayoutNode struct {
	Minute float64 `json:"minute"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// LayoutSection is one per-date sub-section of the scrollable list.
// Nodes are expected in render order, i.e. monotonically increasing Top.
type LayoutSection struct {
	Date   string       `json:"date"`
	Top    float64      `json:"top"`
	Height float64      `json:"height"`
	Nodes  []LayoutNode `json:"nodes"`
}

// Layout is the full measured state of the scroll container.
type Layout struct {
	Sections      []LayoutSection `json:"sections"`
	ViewHeight    float64         `json:"view_height"`
	ContentHeight float64         `json:"content_height"`
}

// Placement is the computed scroll target and indicator position.
// ScrollTop is absolute within the content; LineOffset is relative to the
// viewport top. Clamped is "", "top" or "bottom".
type Placement struct {
	SectionDate string  `json:"section_date"`
	PivotIndex  int     `json:"pivot_index"`
	ScrollTop   float64 `json:"scroll_top"`
	LineOffset  float64 `json:"line_offset"`
	Clamped     string  `json:"clamped,omitempty"`
}

// PositionNowLine maps the current instant onto a scroll offset and an
// indicator position within a heterogeneously spaced list.
//
// Target section: today when present, else the most recent past date,
// else the earliest future date. Target minute: today's first node at or
// after now (last node when all are earlier); a past section's last node;
// a future section's first. The pivot is the first node at or after the
// target minute. The scroll offset aligns the pivot's top to lineTop from
// the viewport top, clamped to the scrollable range; when clamped, the
// indicator sticks to the first node's top or the last node's bottom
// instead of floating at lineTop outside the visible content.
func PositionNowLine(l Layout, now time.Time, lineTop float64) (Placement, bool) {
	if len(l.Sections) == 0 {
		return Placement{}, false
	}

	nowDate := now.Format("2006-01-02")
	nowMinute := float64(now.Hour()*60 + now.Minute())

	section := pickSection(l.Sections, nowDate)
	nodes := section.Nodes

	maxScroll := l.ContentHeight - l.ViewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}

	if len(nodes) == 0 || !hasFiniteMinute(nodes) {
		// Nothing to anchor on, align the section's top edge.
		scroll := clamp(section.Top-lineTop, 0, maxScroll)
		return Placement{
			SectionDate: section.Date,
			PivotIndex:  -1,
			ScrollTop:   scroll,
			LineOffset:  section.Top - scroll,
		}, true
	}

	target := targetMinute(section, nowDate, nowMinute)
	pivot := len(nodes) - 1
	for i, n := range nodes {
		if n.Minute >= target {
			pivot = i
			break
		}
	}

	want := nodes[pivot].Top - lineTop
	scroll := clamp(want, 0, maxScroll)

	p := Placement{
		SectionDate: section.Date,
		PivotIndex:  pivot,
		ScrollTop:   scroll,
		LineOffset:  lineTop,
	}
	switch {
	case want < 0:
		p.Clamped = "top"
		p.LineOffset = nodes[0].Top - scroll
	case want > maxScroll:
		p.Clamped = "bottom"
		last := nodes[len(nodes)-1]
		p.LineOffset = last.Top + last.Height - scroll
	}
	return p, true
}

func pickSection(sections []LayoutSection, nowDate string) LayoutSection {
	var today, recentPast, earliestFuture *LayoutSection
	for i := range sections {
		s := &sections[i]
		switch {
		case s.Date == nowDate:
			today = s
		case s.Date < nowDate:
			if recentPast == nil || s.Date > recentPast.Date {
				recentPast = s
			}
		default:
			if earliestFuture == nil || s.Date < earliestFuture.Date {
				earliestFuture = s
			}
		}
	}
	switch {
	case today != nil:
		return *today
	case recentPast != nil:
		return *recentPast
	default:
		return *earliestFuture
	}
}

func targetMinute(section LayoutSection, nowDate string, nowMinute float64) float64 {
	nodes := section.Nodes
	switch {
	case section.Date == nowDate:
		for _, n := range nodes {
			if n.Minute >= nowMinute {
				return n.Minute
			}
		}
		return nodes[len(nodes)-1].Minute
	case section.Date < nowDate:
		return nodes[len(nodes)-1].Minute
	default:
		return nodes[0].Minute
	}
}

func hasFiniteMinute(nodes []LayoutNode) bool {
	for _, n := range nodes {
		if !math.IsInf(n.Minute, 1) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NowLineController owns the periodic now-line recompute. On every tick
// it reads the clock and invokes the refresh callback, which repositions
// the indicator and re-derives visible statuses against the same instant.
// Explicit lifecycle, injectable, no ambient globals.
type NowLineController struct {
	mu       sync.Mutex
	clock    *SimClock
	refresh  func(now time.Time)
	interval time.Duration
	lineTop  float64
	running  bool
	stop     chan struct{}
}

func NewNowLineController(clock *SimClock, refresh func(now time.Time)) *NowLineController {
	return &NowLineController{
		clock:    clock,
		refresh:  refresh,
		interval: DefaultNowLineInterval,
		lineTop:  DefaultLineTop,
	}
}

// Start launches the periodic recompute; it fires once immediately.
func (n *NowLineController) Start() {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.stop = make(chan struct{})
	stop := n.stop
	interval := n.interval
	n.mu.Unlock()

	log.Printf("[nowline] started, interval %s", interval)
	go func() {
		n.fire()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				n.fire()
			}
		}
	}()
}

// Stop halts the periodic recompute.
func (n *NowLineController) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.running {
		return
	}
	n.running = false
	close(n.stop)
	n.stop = nil
	log.Println("[nowline] stopped")
}

// Toggle flips the controller between running and stopped.
func (n *NowLineController) Toggle() {
	n.mu.Lock()
	running := n.running
	n.mu.Unlock()
	if running {
		n.Stop()
	} else {
		n.Start()
	}
}

// SetInterval changes the tick period, restarting the timer when running.
// Non-positive intervals are rejected.
func (n *NowLineController) SetInterval(d time.Duration) error {
	if d <= 0 {
		return errInvalidInterval
	}
	n.mu.Lock()
	n.interval = d
	running := n.running
	n.mu.Unlock()
	if running {
		n.Stop()
		n.Start()
	}
	return nil
}

// SetLineTop adjusts the fixed on-screen offset the pivot aligns to.
func (n *NowLineController) SetLineTop(px float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lineTop = px
}

// LineTop returns the configured indicator offset.
func (n *NowLineController) LineTop() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lineTop
}

// Running reports whether the periodic recompute is active.
func (n *NowLineController) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

func (n *NowLineController) fire() {
	if n.refresh != nil {
		n.refresh(n.clock.Now())
	}
}
