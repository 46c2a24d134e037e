package timeline

import (
	"math"
	"sync"
	"testing"
	"time"
)

func at(date string, hour, min int) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func threeDayLayout() Layout {
	return Layout{
		ViewHeight:    600,
		ContentHeight: 3000,
		Sections: []LayoutSection{
			{Date: "2026-06-12", Top: 0, Height: 1000, Nodes: []LayoutNode{
				{Minute: 480, Top: 40, Height: 80},
				{Minute: 1200, Top: 500, Height: 80},
			}},
			{Date: "2026-06-13", Top: 1000, Height: 1000, Nodes: []LayoutNode{
				{Minute: 420, Top: 1040, Height: 80},
				{Minute: 600, Top: 1400, Height: 80},
				{Minute: 1320, Top: 1800, Height: 80},
			}},
			{Date: "2026-06-14", Top: 2000, Height: 1000, Nodes: []LayoutNode{
				{Minute: 540, Top: 2040, Height: 80},
				{Minute: math.Inf(1), Top: 2600, Height: 80},
			}},
		},
	}
}

func TestPositionNowLineToday(t *testing.T) {
	l := threeDayLayout()
	// 09:00 on day two: first node at or after 540 is the 10:00 node.
	p, ok := PositionNowLine(l, at("2026-06-13", 9, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.SectionDate != "2026-06-13" || p.PivotIndex != 1 {
		t.Fatalf("placement = %+v, want section day two pivot 1", p)
	}
	if p.ScrollTop != 1300 {
		t.Errorf("ScrollTop = %v, want 1300", p.ScrollTop)
	}
	if p.LineOffset != 100 || p.Clamped != "" {
		t.Errorf("LineOffset = %v Clamped = %q, want 100 unclamped", p.LineOffset, p.Clamped)
	}
}

func TestPositionNowLineAfterLastNode(t *testing.T) {
	l := threeDayLayout()
	// 23:30 on day two: past every node, pivot is the last one.
	p, ok := PositionNowLine(l, at("2026-06-13", 23, 30), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.PivotIndex != 2 {
		t.Errorf("PivotIndex = %d, want 2", p.PivotIndex)
	}
}

func TestPositionNowLinePastAndFutureSections(t *testing.T) {
	l := threeDayLayout()

	// Viewer after the whole span: most recent past section, last node.
	p, ok := PositionNowLine(l, at("2026-06-20", 12, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.SectionDate != "2026-06-14" {
		t.Errorf("section = %s, want 2026-06-14", p.SectionDate)
	}

	// Viewer before the whole span: earliest future section, first node.
	p, ok = PositionNowLine(l, at("2026-06-01", 12, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.SectionDate != "2026-06-12" || p.PivotIndex != 0 {
		t.Errorf("placement = %+v, want first section pivot 0", p)
	}
}

func TestPositionNowLineClamping(t *testing.T) {
	l := threeDayLayout()

	// Early morning day one: pivot top 40 wants scroll -60, clamps to 0 and
	// the indicator drops to the first node's top.
	p, ok := PositionNowLine(l, at("2026-06-12", 7, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.ScrollTop != 0 || p.Clamped != "top" {
		t.Fatalf("placement = %+v, want clamped top at 0", p)
	}
	if p.LineOffset != 40 {
		t.Errorf("LineOffset = %v, want 40 (first node top)", p.LineOffset)
	}

	// Past everything: wants scroll beyond max (2400), clamps to bottom and
	// the indicator sits under the last node.
	p, ok = PositionNowLine(l, at("2026-06-20", 12, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.ScrollTop != 2400 || p.Clamped != "bottom" {
		t.Fatalf("placement = %+v, want clamped bottom at 2400", p)
	}
	if p.LineOffset != 2680-2400 {
		t.Errorf("LineOffset = %v, want %v (last node bottom)", p.LineOffset, 2680-2400)
	}
}

func TestPositionNowLineSectionWithoutFiniteMinutes(t *testing.T) {
	l := Layout{
		ViewHeight:    600,
		ContentHeight: 1200,
		Sections: []LayoutSection{
			{Date: "2026-06-13", Top: 300, Height: 600, Nodes: []LayoutNode{
				{Minute: math.Inf(1), Top: 340, Height: 80},
			}},
		},
	}
	p, ok := PositionNowLine(l, at("2026-06-13", 9, 0), 100)
	if !ok {
		t.Fatal("no placement")
	}
	if p.PivotIndex != -1 {
		t.Errorf("PivotIndex = %d, want -1 (section top fallback)", p.PivotIndex)
	}
	if p.ScrollTop != 200 {
		t.Errorf("ScrollTop = %v, want 200", p.ScrollTop)
	}
}

func TestPositionNowLineEmptyLayout(t *testing.T) {
	if _, ok := PositionNowLine(Layout{}, time.Now(), 100); ok {
		t.Error("empty layout must yield no placement")
	}
}

func TestNowLineControllerLifecycle(t *testing.T) {
	clock := NewSimClock(time.UTC)
	clock.SetSimTime(time.Date(2026, 6, 13, 10, 0, 0, 0, time.UTC))

	var mu sync.Mutex
	var fired []time.Time
	ctl := NewNowLineController(clock, func(now time.Time) {
		mu.Lock()
		fired = append(fired, now)
		mu.Unlock()
	})

	if err := ctl.SetInterval(0); err == nil {
		t.Error("expected error for zero interval")
	}
	if err := ctl.SetInterval(20 * time.Millisecond); err != nil {
		t.Fatal(err)
	}

	ctl.Start()
	ctl.Start() // second start is a no-op
	time.Sleep(70 * time.Millisecond)
	ctl.Stop()

	mu.Lock()
	n := len(fired)
	mu.Unlock()
	if n < 2 {
		t.Fatalf("refresh fired %d times, want at least 2", n)
	}

	// Every tick read the pinned simulated instant.
	want := time.Date(2026, 6, 13, 10, 0, 0, 0, time.UTC)
	mu.Lock()
	for _, got := range fired {
		if !got.Equal(want) {
			t.Errorf("refresh instant = %v, want %v", got, want)
		}
	}
	mu.Unlock()

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	after := len(fired)
	mu.Unlock()
	if after != n {
		t.Errorf("controller fired after Stop: %d -> %d", n, after)
	}

	ctl.Toggle()
	if !ctl.Running() {
		t.Error("Toggle should restart a stopped controller")
	}
	ctl.Stop()
}

func TestNowLineControllerSetLineTop(t *testing.T) {
	ctl := NewNowLineController(NewSimClock(time.UTC), nil)
	if got := ctl.LineTop(); got != DefaultLineTop {
		t.Errorf("default LineTop = %v", got)
	}
	ctl.SetLineTop(140)
	if got := ctl.LineTop(); got != 140 {
		t.Errorf("LineTop = %v, want 140", got)
	}
}
